package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/casm-project/snapfleet/bringup"
	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/fleet"
	"github.com/casm-project/snapfleet/layout"
	"github.com/casm-project/snapfleet/leveler"
	"github.com/casm-project/snapfleet/logger"
	"github.com/casm-project/snapfleet/monitoring"
	"github.com/casm-project/snapfleet/ppssync"
	"github.com/casm-project/snapfleet/recording"

	// Registers the "sim" transport.
	_ "github.com/casm-project/snapfleet/fengine/simboard"
)

var configureFlags struct {
	transport   string
	logLevel    string
	nchanPacket int
	programmed  bool
	testMode    string
	fftShift    uint32
	eqCoeffs    float64
	adcGain     float64
	noSync      bool
	sequential  bool
	monitor     bool
	monitorPort int
	record      bool
	recordPath  string
	timeout     time.Duration
	edgeTimeout time.Duration
}

var configureCmd = &cobra.Command{
	Use:   "configure <layout.yaml>",
	Short: "Bring up, level, and synchronize every board in the layout.",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigure,
}

func init() {
	f := configureCmd.Flags()
	f.StringVar(&configureFlags.transport,
		"transport", envDefault("SNAPFLEET_TRANSPORT", "sim"),
		"board transport to use")
	f.StringVar(&configureFlags.logLevel, "log-level",
		envDefault("SNAPFLEET_LOG_LEVEL", "info"),
		"log level (debug, info, warn, error)")
	f.IntVar(&configureFlags.nchanPacket, "nchan-packet", 0,
		"channels per UDP packet (overrides the layout)")
	f.BoolVar(&configureFlags.programmed, "programmed", false,
		"boards are already programmed; skip the bitstream upload")
	f.StringVar(&configureFlags.testMode, "test-mode", "",
		"switch inputs to a test signal (zero, noise, counter)")
	f.Uint32Var(&configureFlags.fftShift, "fft-shift", 0,
		"FFT shift value (overrides the layout)")
	f.Float64Var(&configureFlags.eqCoeffs, "eq-coeffs", 0,
		"bypass leveling with this flat coefficient")
	f.Float64Var(&configureFlags.adcGain, "adc-gain", 0,
		"ADC gain, one of the supported multipliers")
	f.BoolVar(&configureFlags.noSync, "no-sync", false,
		"skip the PPS synchronization protocol")
	f.BoolVar(&configureFlags.sequential, "sequential", false,
		"configure boards one at a time instead of in parallel")
	f.BoolVar(&configureFlags.monitor, "monitor", false,
		"serve session state over HTTP and open it in a browser")
	f.IntVar(&configureFlags.monitorPort, "monitor-port", 0,
		"monitoring port (0 picks a random port)")
	f.BoolVar(&configureFlags.record, "record", false,
		"record run diagnostics to a SQLite database")
	f.StringVar(&configureFlags.recordPath, "record-path", "",
		"recording database path (without .sqlite3 suffix)")
	f.DurationVar(&configureFlags.timeout, "timeout", 10*time.Minute,
		"overall session deadline")
	f.DurationVar(&configureFlags.edgeTimeout, "edge-timeout",
		ppssync.DefaultEdgeTimeout, "per-board PPS edge timeout")

	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	log := logger.NewStandardLogger(
		os.Stderr, logger.ParseLevel(configureFlags.logLevel))

	l, err := layout.Load(args[0])
	if err != nil {
		return err
	}
	applyOverrides(cmd, l)

	connector, err := fengine.Open(configureFlags.transport)
	if err != nil {
		return err
	}

	var recorder *recording.Recorder
	if configureFlags.record {
		recorder, err = recording.New(configureFlags.recordPath)
		if err != nil {
			return err
		}
		log.Infof("recording run diagnostics to %s", recorder.Path())
		atexit.Register(func() { _ = recorder.Close() })
	}

	lev := leveler.MakeBuilder().
		WithLogger(log).
		Build()
	orchestratorBuilder := bringup.MakeBuilder().
		WithLogger(log).
		WithConnector(connector).
		WithLeveler(lev).
		WithCommonSpec(&l.Common)
	if dialer, ok := connector.(fengine.Dialer); ok {
		orchestratorBuilder = orchestratorBuilder.WithDialer(dialer)
	}

	coordinator := ppssync.MakeBuilder().
		WithLogger(log).
		WithEdgeTimeout(configureFlags.edgeTimeout).
		Build()

	controller := fleet.MakeBuilder().
		WithLogger(log).
		WithLayout(l).
		WithOrchestrator(orchestratorBuilder.Build()).
		WithCoordinator(coordinator).
		WithRecorder(recorder).
		WithParallel(!configureFlags.sequential).
		WithSync(!configureFlags.noSync).
		Build()

	if configureFlags.monitor {
		monitor := monitoring.NewMonitor(controller.Session(), log).
			WithPortNumber(configureFlags.monitorPort)
		url, err := monitor.StartServer()
		if err != nil {
			return err
		}
		_ = browser.OpenURL(url + "/api/fleet")
	}

	ctx, cancel := context.WithTimeout(
		context.Background(), configureFlags.timeout)
	defer cancel()

	result, err := controller.Run(ctx)
	if err != nil {
		return err
	}

	for host, boardErr := range result.Failed {
		log.Errorf("%s: %v", host, boardErr)
	}
	fmt.Printf("configured %d of %d boards\n",
		len(result.Boards), len(l.Boards))

	if len(result.Failed) > 0 {
		atexit.Exit(1)
	}
	return nil
}

// applyOverrides folds explicitly set CLI flags into the layout's common
// spec, mirroring the startup-file options.
func applyOverrides(cmd *cobra.Command, l *layout.Layout) {
	f := cmd.Flags()

	if f.Changed("nchan-packet") {
		l.Common.ChannelsPerPacket = configureFlags.nchanPacket
	}
	if f.Changed("programmed") {
		l.Common.Programmed = configureFlags.programmed
	}
	if f.Changed("test-mode") {
		l.Common.TestMode = configureFlags.testMode
	}
	if f.Changed("fft-shift") {
		l.Common.FFTShift = configureFlags.fftShift
	}
	if f.Changed("eq-coeffs") {
		eq := configureFlags.eqCoeffs
		l.Common.EqCoeff = &eq
	}
	if f.Changed("adc-gain") {
		gain := configureFlags.adcGain
		l.Common.ADCGain = &gain
	}
}
