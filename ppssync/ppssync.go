// Package ppssync aligns and verifies PPS-derived telescope time across a
// fleet of configured boards.
//
// The protocol has three phases: a per-board tick sanity check that
// catches missing or mis-wired PPS inputs, a fleet-wide PPS-locked load of
// a new telescope-time value, and a verification pass that reports each
// board's time offset from the reference board. The first board in the
// fleet is the timing reference.
package ppssync

import (
	"context"
	"time"

	"github.com/casm-project/snapfleet/dispatch"
	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/logger"
)

// DefaultEdgeTimeout bounds each wait for a PPS edge. An edge arrives
// once a second on a healthy board; three seconds of silence means the
// PPS input is dead, not slow.
const DefaultEdgeTimeout = 3 * time.Second

// TickCheck is the outcome of the tick sanity check for one board.
type TickCheck struct {
	Host   string
	OK     bool
	First  fengine.Sample
	Second fengine.Sample
	Err    error
}

// Delta is one board's verification result.
type Delta struct {
	Host        string
	Sample      fengine.Sample
	PeriodTicks uint64

	// Seconds is the board's telescope-time offset from the reference
	// board, in seconds of the board's own clock. Near zero for a
	// correctly aligned fleet. Diagnostic, not enforced.
	Seconds float64

	Err error
}

// Report is the outcome of a full synchronization run.
type Report struct {
	Checks []TickCheck
	Deltas []Delta

	// Mismatch is set when boards disagreed on the PPS edge count
	// during verification.
	Mismatch bool
}

// Healthy reports whether every board passed the tick check and produced
// a verification sample.
func (r *Report) Healthy() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	for _, d := range r.Deltas {
		if d.Err != nil {
			return false
		}
	}
	return !r.Mismatch
}

// Coordinator runs the synchronization protocol.
type Coordinator struct {
	log         logger.Logger
	edgeTimeout time.Duration
}

// Builder builds Coordinators.
type Builder struct {
	log         logger.Logger
	edgeTimeout time.Duration
}

// MakeBuilder returns a Coordinator builder.
func MakeBuilder() Builder {
	return Builder{
		log:         logger.Nop,
		edgeTimeout: DefaultEdgeTimeout,
	}
}

// WithLogger sets the logger.
func (b Builder) WithLogger(log logger.Logger) Builder {
	b.log = log
	return b
}

// WithEdgeTimeout overrides the per-wait PPS edge timeout.
func (b Builder) WithEdgeTimeout(d time.Duration) Builder {
	b.edgeTimeout = d
	return b
}

// Build creates the Coordinator.
func (b Builder) Build() *Coordinator {
	return &Coordinator{
		log:         b.log,
		edgeTimeout: b.edgeTimeout,
	}
}

// Run executes the full protocol over the given boards. boards[0] is the
// timing reference. Per-board problems are recorded in the report and
// logged; Run only returns an error when the fleet-wide alignment step
// itself cannot complete.
func (c *Coordinator) Run(
	ctx context.Context,
	boards []fengine.Fengine,
) (*Report, error) {
	report := &Report{}
	if len(boards) == 0 {
		return report, nil
	}

	report.Checks = c.tickSanity(ctx, boards)
	for _, check := range report.Checks {
		if !check.OK {
			c.log.Warnf("%s: PPS tick check failed: %s",
				check.Host, check.describe())
		}
	}

	if err := c.align(ctx, boards); err != nil {
		return report, err
	}

	c.verify(ctx, boards, report)

	return report, nil
}

func (t TickCheck) describe() string {
	if t.Err != nil {
		return t.Err.Error()
	}
	return (&fengine.SyncMismatchError{
		Host:     t.Host,
		Count:    t.Second.PPSCount,
		RefCount: t.First.PPSCount + 1,
	}).Error()
}

// tickSanity reads two consecutive PPS edge samples from every board and
// confirms the counter advanced by exactly one.
func (c *Coordinator) tickSanity(
	ctx context.Context,
	boards []fengine.Fengine,
) []TickCheck {
	outcomes := dispatch.All(ctx, len(boards),
		func(ctx context.Context, i int) (TickCheck, error) {
			fe := boards[i]
			check := TickCheck{Host: fe.Host()}

			first, err := c.timeAtEdge(ctx, fe)
			if err != nil {
				check.Err = err
				return check, nil
			}
			second, err := c.timeAtEdge(ctx, fe)
			if err != nil {
				check.Err = err
				return check, nil
			}

			check.First = first
			check.Second = second
			check.OK = second.PPSCount == first.PPSCount+1
			return check, nil
		})

	checks := make([]TickCheck, len(outcomes))
	for i, o := range outcomes {
		checks[i] = o.Value
	}
	return checks
}

// align loads a new telescope-time value into every board and
// resynchronizes their internal packet-timestamp clocks. The load on all
// boards completes strictly before the reference board's qualifying PPS
// edge is awaited; the load itself takes effect on that edge.
func (c *Coordinator) align(
	ctx context.Context,
	boards []fengine.Fengine,
) error {
	c.log.Infof("arming telescope-time load on %d boards", len(boards))
	loads := dispatch.All(ctx, len(boards),
		func(ctx context.Context, i int) (struct{}, error) {
			return struct{}{}, boards[i].Sync().UpdateTelescopeTime(ctx)
		})
	if err := dispatch.FirstError(loads); err != nil {
		return err
	}

	// The reference board's next edge is the edge at which every armed
	// load takes effect.
	ref := boards[0]
	c.log.Infof("waiting for reference PPS edge on %s", ref.Host())
	if _, err := c.timeAtEdge(ctx, ref); err != nil {
		return err
	}

	c.log.Infof("resynchronizing internal time on %d boards", len(boards))
	resyncs := dispatch.All(ctx, len(boards),
		func(ctx context.Context, i int) (struct{}, error) {
			return struct{}{}, boards[i].Sync().UpdateInternalTime(ctx)
		})

	return dispatch.FirstError(resyncs)
}

// verify reads each board's PPS period and a fresh edge sample, flags
// disagreeing edge counts, and reports per-board time deltas against the
// reference board.
func (c *Coordinator) verify(
	ctx context.Context,
	boards []fengine.Fengine,
	report *Report,
) {
	outcomes := dispatch.All(ctx, len(boards),
		func(ctx context.Context, i int) (Delta, error) {
			fe := boards[i]
			d := Delta{Host: fe.Host()}

			period, err := fe.Sync().PPSPeriod(ctx)
			if err != nil {
				d.Err = err
				return d, nil
			}
			sample, err := c.timeAtEdge(ctx, fe)
			if err != nil {
				d.Err = err
				return d, nil
			}

			d.PeriodTicks = period
			d.Sample = sample
			return d, nil
		})

	deltas := make([]Delta, len(outcomes))
	for i, o := range outcomes {
		deltas[i] = o.Value
	}

	refDelta := deltas[0]
	for i := range deltas {
		d := &deltas[i]
		if d.Err != nil {
			c.log.Warnf("%s: verification read failed: %v", d.Host, d.Err)
			continue
		}
		if refDelta.Err == nil && d.Sample.PPSCount != refDelta.Sample.PPSCount {
			// Clock sources may be drifting or mis-cabled. Worth a
			// warning, not an abort.
			report.Mismatch = true
			c.log.Warnf("%v", &fengine.SyncMismatchError{
				Host:     d.Host,
				Count:    d.Sample.PPSCount,
				RefCount: refDelta.Sample.PPSCount,
			})
		}
		if refDelta.Err == nil && d.PeriodTicks > 0 {
			ttDelta := int64(d.Sample.TelescopeTime) -
				int64(refDelta.Sample.TelescopeTime)
			d.Seconds = float64(ttDelta) / float64(d.PeriodTicks)
		}
		c.log.Infof("%s: pps count %d, period %d ticks, delta %+.9f s",
			d.Host, d.Sample.PPSCount, d.PeriodTicks, d.Seconds)
	}

	report.Deltas = deltas
}

// timeAtEdge waits for the board's next PPS edge with the configured
// timeout and maps a deadline overrun to PPSTimeoutError.
func (c *Coordinator) timeAtEdge(
	ctx context.Context,
	fe fengine.Fengine,
) (fengine.Sample, error) {
	edgeCtx, cancel := context.WithTimeout(ctx, c.edgeTimeout)
	defer cancel()

	sample, err := fe.Sync().TimeAtPPS(edgeCtx, true)
	if err != nil {
		if edgeCtx.Err() == context.DeadlineExceeded {
			return sample, &fengine.PPSTimeoutError{Host: fe.Host()}
		}
		return sample, err
	}
	return sample, nil
}
