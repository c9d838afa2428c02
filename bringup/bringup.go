// Package bringup drives one SNAP board through its configuration
// sequence, from an unprogrammed FPGA to a fully configured, leveled
// board with transmit held off.
package bringup

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/layout"
	"github.com/casm-project/snapfleet/leveler"
	"github.com/casm-project/snapfleet/logger"
)

// State is a board's position in the bring-up sequence. The sequence is
// strictly ordered and terminal on the first unrecoverable failure.
type State int

// Bring-up states, in order.
const (
	Disconnected State = iota
	Connected
	Programmed
	ADCInitialized
	StreamConfigured
	Leveled
	InputModeSet
	Idle
)

var stateNames = map[State]string{
	Disconnected:     "disconnected",
	Connected:        "connected",
	Programmed:       "programmed",
	ADCInitialized:   "adc-initialized",
	StreamConfigured: "stream-configured",
	Leveled:          "leveled",
	InputModeSet:     "input-mode-set",
	Idle:             "idle",
}

func (s State) String() string {
	return stateNames[s]
}

// LinkSettleDelay is how long a board needs after a raw bitstream upload
// before the control interface may touch it. Covers ADC link training.
const LinkSettleDelay = 10 * time.Second

// Board is a live handle to one configured board. It is exclusively owned
// by the worker operating on it for the duration of one task.
type Board struct {
	Descriptor layout.BoardDescriptor
	FengID     int
	Handle     fengine.Fengine

	// State is the last bring-up state the board reached.
	State State

	// Leveling holds the per-input leveling results, when leveling ran.
	Leveling []leveler.Result
}

// Host returns the board's hostname.
func (b *Board) Host() string {
	return b.Descriptor.Host
}

// Orchestrator configures boards one at a time. It is safe to use from
// multiple dispatch workers: all per-board state lives in the Board.
type Orchestrator struct {
	log       logger.Logger
	connector fengine.Connector
	dialer    fengine.Dialer
	leveler   *leveler.Leveler
	common    *layout.CommonSpec

	settleDelay time.Duration
}

// Builder builds Orchestrators.
type Builder struct {
	log         logger.Logger
	connector   fengine.Connector
	dialer      fengine.Dialer
	leveler     *leveler.Leveler
	common      *layout.CommonSpec
	settleDelay time.Duration
}

// MakeBuilder returns an Orchestrator builder.
func MakeBuilder() Builder {
	return Builder{
		log:         logger.Nop,
		settleDelay: LinkSettleDelay,
	}
}

// WithLogger sets the logger.
func (b Builder) WithLogger(log logger.Logger) Builder {
	b.log = log
	return b
}

// WithConnector sets the transport used to reach boards.
func (b Builder) WithConnector(c fengine.Connector) Builder {
	b.connector = c
	return b
}

// WithDialer sets the low-level transport used to upload a bitstream to a
// board that has no firmware loaded. Without a dialer the upload is left
// to the control interface's Program call.
func (b Builder) WithDialer(d fengine.Dialer) Builder {
	b.dialer = d
	return b
}

// WithLeveler sets the bandpass leveler.
func (b Builder) WithLeveler(l *leveler.Leveler) Builder {
	b.leveler = l
	return b
}

// WithCommonSpec sets the fleet-wide configuration.
func (b Builder) WithCommonSpec(c *layout.CommonSpec) Builder {
	b.common = c
	return b
}

// WithSettleDelay overrides the post-upload settling delay.
func (b Builder) WithSettleDelay(d time.Duration) Builder {
	b.settleDelay = d
	return b
}

// Build creates the Orchestrator.
func (b Builder) Build() *Orchestrator {
	if b.connector == nil {
		panic("bringup: orchestrator needs a connector")
	}
	if b.common == nil {
		panic("bringup: orchestrator needs a common spec")
	}

	o := &Orchestrator{
		log:         b.log,
		connector:   b.connector,
		dialer:      b.dialer,
		leveler:     b.leveler,
		common:      b.common,
		settleDelay: b.settleDelay,
	}
	if o.leveler == nil {
		o.leveler = leveler.MakeBuilder().WithLogger(b.log).Build()
	}

	return o
}

// Configure runs the full bring-up sequence for one board. The returned
// Board carries the state the board reached; on error the Board is still
// returned so callers can report how far bring-up got.
func (o *Orchestrator) Configure(
	ctx context.Context,
	desc layout.BoardDescriptor,
	fengID int,
) (*Board, error) {
	if desc.FengID != nil {
		fengID = *desc.FengID
	}

	board := &Board{Descriptor: desc, FengID: fengID, State: Disconnected}
	log := o.log.WithPrefix(desc.Host + ": ")

	// Any gain request is validated before the first hardware access.
	var gainCode uint8
	if o.common.ADCGain != nil {
		code, err := fengine.GainCode(*o.common.ADCGain)
		if err != nil {
			return board, err
		}
		gainCode = code
	}
	inputMode, err := fengine.ParseInputMode(o.common.TestMode)
	if err != nil {
		return board, err
	}

	if !o.common.Programmed && o.dialer != nil {
		if err := o.uploadBitstream(ctx, &desc); err != nil {
			return board, err
		}
	}

	log.Infof("connecting")
	fe, err := o.connector.Connect(ctx, desc.Host)
	if err != nil {
		return board, &fengine.ConnectionError{Host: desc.Host, Err: err}
	}
	board.Handle = fe
	board.State = Connected

	if err := o.program(ctx, log, fe, &desc); err != nil {
		return board, err
	}
	board.State = ADCInitialized

	if o.common.ADCGain != nil {
		log.Infof("setting ADC gain %v (code %d) on all lanes",
			*o.common.ADCGain, gainCode)
		if err := fe.ADC().SetGainCode(ctx, gainCode); err != nil {
			return board, errors.Wrap(err, "setting ADC gain")
		}
	}

	if err := o.configureStream(ctx, log, fe, &desc, fengID); err != nil {
		return board, err
	}
	board.State = StreamConfigured

	results, err := o.level(ctx, log, fe)
	if err != nil {
		return board, err
	}
	board.Leveling = results
	board.State = Leveled

	if inputMode != fengine.ModeLive {
		log.Infof("switching input to %s test signal", inputMode)
		if err := fe.Input().UseMode(ctx, inputMode); err != nil {
			return board, errors.Wrap(err, "selecting input mode")
		}
	}
	board.State = InputModeSet

	board.State = Idle
	log.Infof("configured, transmit disabled")

	return board, nil
}

// uploadBitstream pushes the bitstream over the low-level transport and
// waits out the link-training settling delay.
func (o *Orchestrator) uploadBitstream(
	ctx context.Context,
	desc *layout.BoardDescriptor,
) error {
	bitstream := desc.EffectiveBitstream(o.common)
	if bitstream == "" {
		return &fengine.ConfigurationError{
			Host: desc.Host, Field: "fpgfile",
			Reason: "board is unprogrammed and no bitstream is configured",
		}
	}

	t, err := o.dialer.Dial(ctx, desc.Host)
	if err != nil {
		return &fengine.ConnectionError{Host: desc.Host, Err: err}
	}
	defer t.Close()

	o.log.Infof("%s: uploading %s", desc.Host, bitstream)
	if err := t.Upload(ctx, bitstream); err != nil {
		return &fengine.ProgrammingError{Host: desc.Host, Err: err}
	}

	select {
	case <-time.After(o.settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// program runs the control-interface program call with ADC initialization.
// On failure it re-arms ADC link training once and retries exactly once;
// a second failure is final for this board.
func (o *Orchestrator) program(
	ctx context.Context,
	log logger.Logger,
	fe fengine.Fengine,
	desc *layout.BoardDescriptor,
) error {
	bitstream := desc.EffectiveBitstream(o.common)

	log.Infof("programming with ADC initialization")
	err := fe.Program(ctx, bitstream, true)
	if err == nil {
		return nil
	}

	log.Warnf("program failed (%v), re-initializing ADC and retrying", err)
	if err := fe.ADC().Initialize(ctx); err != nil {
		return &fengine.ProgrammingError{Host: desc.Host, Err: err}
	}
	if err := fe.Program(ctx, bitstream, true); err != nil {
		return &fengine.ProgrammingError{Host: desc.Host, Err: err}
	}

	return nil
}

// configureStream sets up the streaming pipeline with transmit held off.
func (o *Orchestrator) configureStream(
	ctx context.Context,
	log logger.Logger,
	fe fengine.Fengine,
	desc *layout.BoardDescriptor,
	fengID int,
) error {
	macs, err := layout.BuildMacTable(desc, o.common)
	if err != nil {
		return &fengine.ConfigurationError{
			Host: desc.Host, Field: "mac", Reason: err.Error(),
		}
	}

	dests := desc.EffectiveDestinations(o.common)
	cfg := fengine.StreamConfig{
		SourceIP:          desc.Source.IP,
		SourcePort:        desc.Source.Port,
		Destinations:      make([]fengine.Destination, 0, len(dests)),
		MACs:              macs,
		ChannelsPerPacket: o.common.ChannelsPerPacket,
		FengID:            fengID,
		FFTShift:          o.common.FFTShift,
		EnableTX:          false,
	}
	for _, d := range dests {
		cfg.Destinations = append(cfg.Destinations, fengine.Destination{
			IP:        d.IP,
			Port:      d.Port,
			StartChan: d.StartChan,
			NChan:     d.NChan,
		})
	}

	log.Infof("configuring stream: source %s:%d, %d destinations, feng_id %d",
		cfg.SourceIP, cfg.SourcePort, len(cfg.Destinations), fengID)

	if err := fe.Configure(ctx, cfg); err != nil {
		return errors.Wrap(err, "configuring stream")
	}

	return nil
}

// level either applies the fixed bypass coefficient to every input or runs
// the bandpass leveler.
func (o *Orchestrator) level(
	ctx context.Context,
	log logger.Logger,
	fe fengine.Fengine,
) ([]leveler.Result, error) {
	if o.common.EqCoeff != nil {
		log.Infof("bypassing leveling with flat coefficient %.2f",
			*o.common.EqCoeff)

		coeffs := make([]float64, leveler.NCoeff)
		for i := range coeffs {
			coeffs[i] = *o.common.EqCoeff
		}

		results := make([]leveler.Result, 0, fengine.NInputs)
		for input := 0; input < fengine.NInputs; input++ {
			if err := fe.Eq().SetCoefficients(ctx, input, coeffs); err != nil {
				return nil, errors.Wrapf(err,
					"applying fixed coefficients to input %d", input)
			}
			results = append(results, leveler.Result{
				Input:  input,
				Coeffs: coeffs,
			})
		}
		return results, nil
	}

	log.Infof("leveling bandpass")
	return o.leveler.Level(ctx, fe)
}
