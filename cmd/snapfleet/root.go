package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "snapfleet",
	Short: "Configure and synchronize a fleet of SNAP F-engine boards.",
	Long: `Snapfleet drives SNAP F-engine boards through their full bring-up
sequence: programming, ADC initialization, stream configuration, bandpass
leveling, and fleet-wide PPS time synchronization. Transmit is enabled
only after the whole fleet's timing state is verified.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
