// Snapfleet configures a fleet of SNAP F-engine boards from a YAML
// layout, levels their bandpasses, aligns their PPS-derived clocks, and
// enables streaming once the fleet's timing state is settled.
package main

import (
	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	// Optional environment defaults, e.g. SNAPFLEET_TRANSPORT.
	_ = godotenv.Load()

	Execute()
	atexit.Exit(0)
}
