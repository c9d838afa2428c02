// Package simboard provides an in-memory SNAP board implementing the
// fengine interfaces. It backs the "sim" transport for dry-running a
// layout without hardware, and the end-to-end tests of the fleet logic.
//
// The simulation is behavioral, not cycle-accurate: PPS edges tick on an
// accelerated wall-clock schedule, spectra come from a synthetic bandpass
// shape, and failure modes (unreachable host, programming failures, dead
// or skipping PPS) are injected through Options.
package simboard

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/casm-project/snapfleet/fengine"
)

// PeriodTicks is the simulated FPGA clock rate, in ticks per PPS.
const PeriodTicks = 250_000_000

// DefaultPPSInterval is the accelerated wall-clock spacing of simulated
// PPS edges.
const DefaultPPSInterval = 100 * time.Millisecond

// Options controls one simulated board.
type Options struct {
	// PPSInterval is the wall-clock time between simulated PPS edges.
	// Zero means DefaultPPSInterval.
	PPSInterval time.Duration

	// Unreachable makes Connect fail.
	Unreachable bool

	// FailPrograms makes the first N Program calls fail.
	FailPrograms int

	// CurableByADCInit clears the remaining programming failures when
	// ADC Initialize runs, modeling a board whose bring-up only needs
	// link retraining.
	CurableByADCInit bool

	// PPSDead suppresses PPS edges entirely; waits run into their
	// deadline.
	PPSDead bool

	// PPSSkip makes every observed edge advance the counter by two, so
	// consecutive samples never differ by exactly one.
	PPSSkip bool

	// TTOffsetTicks skews the board's telescope time from the ideal
	// PPS-aligned value, visible in sync verification deltas.
	TTOffsetTicks int64

	// Spectrum overrides the synthetic bandpass: it returns the power
	// in the given bin for the given input. Nil selects the default
	// shape.
	Spectrum func(input, bin int) float64

	// Seed seeds the spectral noise.
	Seed int64
}

// sharedEpoch models the observatory's common PPS source. Every board
// counts edges from the same instant, so healthy boards with the same
// interval agree on the edge count.
var sharedEpoch = time.Now()

// Board is one simulated SNAP board.
type Board struct {
	host string
	opts Options

	mu           sync.Mutex
	programmed   bool
	programFails int
	gainCode     uint8
	inputMode    fengine.InputMode
	config       fengine.StreamConfig
	configured   bool
	txEnabled    bool
	accLen       uint32
	coeffs       map[int][]float64
	rng          *rand.Rand

	epoch      time.Time
	countSkew  uint64
	packetBase uint64
}

var _ fengine.Fengine = (*Board)(nil)

// New creates a simulated board.
func New(host string, opts Options) *Board {
	if opts.PPSInterval == 0 {
		opts.PPSInterval = DefaultPPSInterval
	}
	return &Board{
		host:         host,
		opts:         opts,
		programFails: opts.FailPrograms,
		coeffs:       make(map[int][]float64),
		rng:          rand.New(rand.NewSource(opts.Seed)),
		epoch:        sharedEpoch,
	}
}

// Host returns the board's hostname.
func (b *Board) Host() string {
	return b.host
}

// Program simulates FPGA programming and firmware bring-up.
func (b *Board) Program(ctx context.Context, bitstream string, initializeADC bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.programFails > 0 {
		b.programFails--
		return &fengine.ProgrammingError{
			Host: b.host,
			Err:  errors.New("ADC link training did not lock"),
		}
	}

	b.programmed = true
	return nil
}

// Configure stores the streaming configuration. Transmit stays in its
// current state unless EnableTX is set.
func (b *Board) Configure(ctx context.Context, cfg fengine.StreamConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.programmed {
		return errors.New("board is not programmed")
	}

	b.config = cfg
	b.configured = true
	if cfg.EnableTX {
		b.txEnabled = true
	}
	return nil
}

// EnableTX starts packet transmission.
func (b *Board) EnableTX(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return errors.New("board is not configured")
	}
	b.txEnabled = true
	return nil
}

// TXEnabled reports whether transmit is on. Test inspection hook.
func (b *Board) TXEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txEnabled
}

// Config returns the last committed stream configuration. Test hook.
func (b *Board) Config() (fengine.StreamConfig, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.config, b.configured
}

// Coefficients returns the committed coefficients for one input. Test
// hook.
func (b *Board) Coefficients(input int) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.coeffs[input]
}

// GainCode returns the last written ADC gain code. Test hook.
func (b *Board) GainCode() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gainCode
}

// InputMode returns the selected input mode. Test hook.
func (b *Board) InputMode() fengine.InputMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inputMode
}

// ADC returns the ADC subsystem.
func (b *Board) ADC() fengine.ADC { return (*simADC)(b) }

// Eq returns the equalization subsystem.
func (b *Board) Eq() fengine.Eq { return (*simEq)(b) }

// Input returns the input selector.
func (b *Board) Input() fengine.Input { return (*simInput)(b) }

// Eth returns the Ethernet status reader.
func (b *Board) Eth() fengine.Eth { return (*simEth)(b) }

// Sync returns the timing subsystem.
func (b *Board) Sync() fengine.Sync { return (*simSync)(b) }

// Corr returns the correlation engine.
func (b *Board) Corr() fengine.Correlator { return (*simCorr)(b) }

type simADC Board

func (a *simADC) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := (*Board)(a)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.opts.CurableByADCInit {
		b.programFails = 0
	}
	return nil
}

func (a *simADC) SetGainCode(ctx context.Context, code uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := (*Board)(a)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gainCode = code
	return nil
}

type simEq Board

func (e *simEq) SetCoefficients(ctx context.Context, input int, coeffs []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := (*Board)(e)
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]float64, len(coeffs))
	copy(stored, coeffs)
	b.coeffs[input] = stored
	return nil
}

type simInput Board

func (i *simInput) UseMode(ctx context.Context, mode fengine.InputMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := (*Board)(i)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputMode = mode
	return nil
}

type simEth Board

func (e *simEth) Status(ctx context.Context) (fengine.EthStatus, error) {
	if err := ctx.Err(); err != nil {
		return fengine.EthStatus{}, err
	}

	b := (*Board)(e)
	b.mu.Lock()
	defer b.mu.Unlock()

	status := fengine.EthStatus{}
	if b.txEnabled {
		status.ThroughputGbps = 10.2
		status.PacketCounter = b.packetBase +
			uint64(time.Since(b.epoch)/time.Millisecond)*190
	}
	return status, nil
}

type simCorr Board

func (c *simCorr) SetAccLen(ctx context.Context, n uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := (*Board)(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accLen = n
	return nil
}

func (c *simCorr) PowerSpectrum(ctx context.Context, i, j int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := (*Board)(c)
	b.mu.Lock()
	defer b.mu.Unlock()

	spectrum := make([]float64, fengine.NChanTotal)
	for bin := range spectrum {
		if b.opts.Spectrum != nil {
			spectrum[bin] = b.opts.Spectrum(i, bin)
			continue
		}
		spectrum[bin] = b.defaultPower(i, bin)
	}
	return spectrum, nil
}

// defaultPower is a smooth raised-cosine bandpass with multiplicative
// noise and a few dead channels, roughly what a live analog chain shows.
func (b *Board) defaultPower(input, bin int) float64 {
	x := float64(bin) / float64(fengine.NChanTotal)
	shape := 0.15 + 0.85*math.Pow(math.Sin(math.Pi*x), 2)
	power := 4.0e6 * shape * (float64(input%4) + 4) / 4

	// Every 512th channel is masked in the firmware.
	if bin%512 == 0 {
		return 0
	}

	return power * (1 + 0.02*b.rng.NormFloat64())
}

type simSync Board

func (s *simSync) TimeAtPPS(ctx context.Context, wait bool) (fengine.Sample, error) {
	b := (*Board)(s)

	if wait {
		if b.opts.PPSDead {
			<-ctx.Done()
			return fengine.Sample{}, ctx.Err()
		}

		interval := b.opts.PPSInterval
		elapsed := time.Since(b.epoch)
		untilEdge := interval - elapsed%interval

		select {
		case <-time.After(untilEdge):
		case <-ctx.Done():
			return fengine.Sample{}, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return fengine.Sample{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	count := uint64(time.Since(b.epoch)/b.opts.PPSInterval) + b.countSkew
	if b.opts.PPSSkip {
		// The next observed edge will appear to have skipped one.
		b.countSkew++
	}

	tt := int64(count)*PeriodTicks + b.opts.TTOffsetTicks
	return fengine.Sample{
		TelescopeTime: uint64(tt),
		PPSCount:      count,
	}, nil
}

func (s *simSync) UpdateTelescopeTime(ctx context.Context) error {
	return ctx.Err()
}

func (s *simSync) UpdateInternalTime(ctx context.Context) error {
	return ctx.Err()
}

func (s *simSync) PPSPeriod(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return PeriodTicks, nil
}
