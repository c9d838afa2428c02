// Package leveler computes per-input equalization coefficients that
// flatten a board's measured bandpass, so downstream channelized power is
// approximately uniform across frequency.
package leveler

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/logger"
)

const (
	// accLen is the correlator accumulation length used while reading
	// spectra. Long accumulations keep the sample variance down.
	accLen = 0x40000

	// numReads is how many spectra are summed per input.
	numReads = 4

	// decimFactor and decimPhase reduce the 4096-bin spectrum to one
	// coefficient per packet-channel group.
	decimFactor = 8
	decimPhase  = 4

	// targetLevel is the amplitude the equalized bandpass is driven to.
	targetLevel = 2.5 * 4

	// DefaultCoeff is the flat coefficient used when leveling an input
	// fails and no other default was configured.
	DefaultCoeff = 2.5
)

// NCoeff is the number of coefficients committed per input: one per
// packet-channel group.
const NCoeff = fengine.NChanTotal / decimFactor

// Result is the outcome of leveling one input stream.
type Result struct {
	Input  int
	Coeffs []float64

	// Fallback is set when the flat default coefficient was committed
	// because spectral leveling failed for this input.
	Fallback bool
}

// CoeffRange returns the smallest and largest committed coefficient, for
// diagnostic logging.
func (r Result) CoeffRange() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range r.Coeffs {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return lo, hi
}

// Leveler runs the bandpass-leveling procedure on one board.
type Leveler struct {
	log logger.Logger

	nInputs      int
	defaultCoeff float64
}

// Builder builds Levelers.
type Builder struct {
	log          logger.Logger
	nInputs      int
	defaultCoeff float64
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		log:          logger.Nop,
		nInputs:      fengine.NInputs,
		defaultCoeff: DefaultCoeff,
	}
}

// WithLogger sets the logger.
func (b Builder) WithLogger(log logger.Logger) Builder {
	b.log = log
	return b
}

// WithNumInputs overrides the number of input streams to level.
func (b Builder) WithNumInputs(n int) Builder {
	b.nInputs = n
	return b
}

// WithDefaultCoeff sets the flat coefficient used on the fallback path.
func (b Builder) WithDefaultCoeff(c float64) Builder {
	b.defaultCoeff = c
	return b
}

// Build creates the Leveler.
func (b Builder) Build() *Leveler {
	return &Leveler{
		log:          b.log,
		nInputs:      b.nInputs,
		defaultCoeff: b.defaultCoeff,
	}
}

// Level computes and commits coefficients for every input stream of fe,
// one stream at a time. A failure on one stream commits the flat default
// for that stream only and moves on; Level returns an error only when
// even the fallback commit fails.
func (l *Leveler) Level(ctx context.Context, fe fengine.Fengine) ([]Result, error) {
	log := l.log.WithPrefix(fe.Host() + ": ")

	if err := fe.Corr().SetAccLen(ctx, accLen); err != nil {
		return nil, errors.Wrap(err, "setting accumulation length")
	}

	results := make([]Result, 0, l.nInputs)

	for input := 0; input < l.nInputs; input++ {
		coeffs, err := l.levelInput(ctx, fe, input)
		fallback := false
		if err != nil {
			log.Warnf("leveling input %d failed, using flat %.2f: %v",
				input, l.defaultCoeff, err)
			coeffs = flat(l.defaultCoeff, NCoeff)
			fallback = true
			if err := fe.Eq().SetCoefficients(ctx, input, coeffs); err != nil {
				return results, errors.Wrapf(err,
					"committing fallback coefficients for input %d", input)
			}
		}

		r := Result{Input: input, Coeffs: coeffs, Fallback: fallback}
		lo, hi := r.CoeffRange()
		log.Debugf("input %d coefficients in [%.4f, %.4f]", input, lo, hi)
		results = append(results, r)
	}

	return results, nil
}

// levelInput measures, smooths, and commits coefficients for one input.
func (l *Leveler) levelInput(
	ctx context.Context,
	fe fengine.Fengine,
	input int,
) ([]float64, error) {
	summed := make([]float64, fengine.NChanTotal)

	for read := 0; read < numReads; read++ {
		spectrum, err := fe.Corr().PowerSpectrum(ctx, input, input)
		if err != nil {
			return nil, errors.Wrapf(err, "reading spectrum %d", read)
		}
		if len(spectrum) != fengine.NChanTotal {
			return nil, errors.Errorf(
				"spectrum has %d bins, want %d",
				len(spectrum), fengine.NChanTotal)
		}

		// Stalled or masked channels read back as exact zero; patch
		// them with the read's median so they do not drag the fit.
		med := median(spectrum)
		for i, v := range spectrum {
			if v == 0 {
				spectrum[i] = med
			}
			summed[i] += spectrum[i]
		}
	}

	smoothed := savGolSmooth(summed, 32, 3)
	grouped := decimate(smoothed, decimFactor, decimPhase)
	patchNonPositive(grouped)

	coeffs := make([]float64, len(grouped))
	for i, power := range grouped {
		amplitude := math.Sqrt(power)
		if amplitude <= 0 || math.IsNaN(amplitude) {
			return nil, errors.Errorf(
				"no usable power in channel group %d", i)
		}
		coeffs[i] = targetLevel / amplitude
	}

	if err := fe.Eq().SetCoefficients(ctx, input, coeffs); err != nil {
		return nil, errors.Wrap(err, "committing coefficients")
	}

	return coeffs, nil
}

// decimate keeps every factor-th sample starting at phase.
func decimate(data []float64, factor, phase int) []float64 {
	out := make([]float64, 0, len(data)/factor)
	for i := phase; i < len(data); i += factor {
		out = append(out, data[i])
	}
	return out
}

// patchNonPositive replaces non-positive values with the median of the
// positive ones, guarding the sqrt that follows. Left untouched when no
// positive value exists; the caller detects that case.
func patchNonPositive(data []float64) {
	positive := make([]float64, 0, len(data))
	for _, v := range data {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 || len(positive) == len(data) {
		return
	}

	med := median(positive)
	for i, v := range data {
		if v <= 0 {
			data[i] = med
		}
	}
}

func flat(value float64, n int) []float64 {
	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = value
	}
	return coeffs
}
