// Package fengine defines the control interface of a SNAP F-engine board.
//
// The interfaces here are the boundary between the fleet-configuration
// logic and the board hardware. A transport implementation (KATCP,
// MicroBlaze, or the in-memory simulator in fengine/simboard) provides a
// Connector that turns a hostname into a live Fengine handle. Everything
// above this package talks to boards exclusively through these interfaces.
package fengine

import "context"

// NChanTotal is the number of frequency channels in the streamed band.
const NChanTotal = 4096

// NInputs is the number of ADC input streams on one board.
const NInputs = 12

// NADCLanes is the number of ADC lanes sharing one gain setting.
const NADCLanes = 4

// InputMode selects the digital input source of the channelizer.
type InputMode int

// Input modes. ModeLive is the ADC path; the rest are test signals.
const (
	ModeLive InputMode = iota
	ModeZero
	ModeNoise
	ModeCounter
)

func (m InputMode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeZero:
		return "zero"
	case ModeNoise:
		return "noise"
	case ModeCounter:
		return "counter"
	}
	return "unknown"
}

// ParseInputMode converts a mode name from the layout file or CLI into an
// InputMode.
func ParseInputMode(name string) (InputMode, error) {
	switch name {
	case "", "live":
		return ModeLive, nil
	case "zero":
		return ModeZero, nil
	case "noise":
		return ModeNoise, nil
	case "counter":
		return ModeCounter, nil
	}
	return ModeLive, &ConfigurationError{
		Field:  "test_mode",
		Reason: "unknown input mode " + name,
	}
}

// Destination is one downstream endpoint receiving a contiguous channel
// range of the streamed band.
type Destination struct {
	IP        string
	Port      int
	StartChan int
	NChan     int
}

// StreamConfig carries everything the board needs to establish its
// streaming pipeline. Transmit is only started when EnableTX is true;
// the fleet controller always configures with EnableTX false and enables
// transmit in a separate fleet-wide step once timing is settled.
type StreamConfig struct {
	SourceIP          string
	SourcePort        int
	Destinations      []Destination
	MACs              map[string]uint64
	ChannelsPerPacket int
	FengID            int
	FFTShift          uint32
	EnableTX          bool
}

// EthStatus is the board's Ethernet core status snapshot.
type EthStatus struct {
	ThroughputGbps float64
	PacketCounter  uint64
	ErrorFlags     uint32
}

// Sample is a telescope-time reading taken at a PPS edge.
type Sample struct {
	TelescopeTime uint64
	PPSCount      uint64
}

// Fengine is a live handle to one programmed board. A handle is owned by
// exactly one worker for the duration of a task; handles are never shared
// between concurrent tasks.
type Fengine interface {
	// Host returns the board's hostname as given in the layout.
	Host() string

	// Program loads the bitstream into the FPGA and brings up the
	// firmware blocks. When initializeADC is true the ADC link training
	// runs as part of bring-up. Failures surface as *ProgrammingError.
	Program(ctx context.Context, bitstream string, initializeADC bool) error

	// Configure establishes the streaming pipeline. It never enables
	// transmit when cfg.EnableTX is false.
	Configure(ctx context.Context, cfg StreamConfig) error

	// EnableTX starts packet transmission on the Ethernet core.
	EnableTX(ctx context.Context) error

	ADC() ADC
	Eq() Eq
	Input() Input
	Eth() Eth
	Sync() Sync
	Corr() Correlator
}

// ADC controls the analog front end.
type ADC interface {
	// Initialize re-arms ADC link training. Used once as the recovery
	// step between the two Program attempts.
	Initialize(ctx context.Context) error

	// SetGainCode writes a 4-bit gain code to all four ADC lanes.
	SetGainCode(ctx context.Context, code uint8) error
}

// Eq controls the per-input equalization stage.
type Eq interface {
	// SetCoefficients commits one coefficient per packet-channel group
	// for the given input stream.
	SetCoefficients(ctx context.Context, input int, coeffs []float64) error
}

// Input selects the channelizer's digital input source.
type Input interface {
	UseMode(ctx context.Context, mode InputMode) error
}

// Eth reports Ethernet core status.
type Eth interface {
	Status(ctx context.Context) (EthStatus, error)
}

// Sync exposes the board's PPS-locked timing registers.
type Sync interface {
	// TimeAtPPS reads the telescope time and PPS counter. With wait set
	// it blocks until the next PPS edge before reading; the block is
	// bounded by ctx and returns *PPSTimeoutError when the deadline
	// passes without an edge.
	TimeAtPPS(ctx context.Context, wait bool) (Sample, error)

	// UpdateTelescopeTime arms a load of a new telescope-time value that
	// takes effect at the next PPS edge.
	UpdateTelescopeTime(ctx context.Context) error

	// UpdateInternalTime resynchronizes the internally tracked time used
	// to stamp outgoing packets against the last loaded telescope time.
	UpdateInternalTime(ctx context.Context) error

	// PPSPeriod returns the measured PPS period in FPGA clock ticks.
	PPSPeriod(ctx context.Context) (uint64, error)
}

// Correlator exposes the on-board correlation engine used for leveling.
type Correlator interface {
	// SetAccLen sets the accumulation length in spectra.
	SetAccLen(ctx context.Context, n uint32) error

	// PowerSpectrum reads the accumulated cross-power spectrum between
	// inputs i and j. The auto-correlation (i == j) is what leveling
	// uses. The returned slice has NChanTotal bins.
	PowerSpectrum(ctx context.Context, i, j int) ([]float64, error)
}

// Connector turns a hostname into a live Fengine handle. Implementations
// are registered by transport packages via Register.
type Connector interface {
	Connect(ctx context.Context, host string) (Fengine, error)
}

// Transport is the low-level programming channel used when a board has no
// firmware loaded yet and the control interface is not up.
type Transport interface {
	// Upload writes the bitstream file to the FPGA.
	Upload(ctx context.Context, bitstream string) error
	Close() error
}

// Dialer opens a low-level Transport to an unprogrammed board.
type Dialer interface {
	Dial(ctx context.Context, host string) (Transport, error)
}
