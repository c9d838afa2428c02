// Package fleet drives a whole configuration session: bring up every
// board in the layout, optionally run the PPS synchronization protocol,
// and only then enable transmit fleet-wide. A board's failure never
// aborts the session; the session result reports exactly which boards
// made it.
package fleet

import (
	"context"

	"github.com/pkg/errors"

	"github.com/casm-project/snapfleet/bringup"
	"github.com/casm-project/snapfleet/dispatch"
	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/layout"
	"github.com/casm-project/snapfleet/logger"
	"github.com/casm-project/snapfleet/ppssync"
	"github.com/casm-project/snapfleet/recording"
)

// Result is the outcome of one session.
type Result struct {
	// Boards holds the successfully configured boards, in layout order.
	Boards []*bringup.Board

	// Failed maps a failed board's host to its error.
	Failed map[string]error

	// Sync is the synchronization report, nil when sync was not
	// requested.
	Sync *ppssync.Report
}

// Controller runs sessions.
type Controller struct {
	log          logger.Logger
	layout       *layout.Layout
	orchestrator *bringup.Orchestrator
	coordinator  *ppssync.Coordinator
	recorder     *recording.Recorder
	session      *Session

	parallel bool
	sync     bool
}

// Builder builds Controllers.
type Builder struct {
	log          logger.Logger
	layout       *layout.Layout
	orchestrator *bringup.Orchestrator
	coordinator  *ppssync.Coordinator
	recorder     *recording.Recorder

	parallel bool
	sync     bool
}

// MakeBuilder returns a Controller builder. Bring-up runs in parallel and
// synchronization is on unless turned off.
func MakeBuilder() Builder {
	return Builder{
		log:      logger.Nop,
		parallel: true,
		sync:     true,
	}
}

// WithLogger sets the logger.
func (b Builder) WithLogger(log logger.Logger) Builder {
	b.log = log
	return b
}

// WithLayout sets the validated fleet layout.
func (b Builder) WithLayout(l *layout.Layout) Builder {
	b.layout = l
	return b
}

// WithOrchestrator sets the per-board orchestrator.
func (b Builder) WithOrchestrator(o *bringup.Orchestrator) Builder {
	b.orchestrator = o
	return b
}

// WithCoordinator sets the synchronization coordinator.
func (b Builder) WithCoordinator(c *ppssync.Coordinator) Builder {
	b.coordinator = c
	return b
}

// WithRecorder sets an optional run recorder.
func (b Builder) WithRecorder(r *recording.Recorder) Builder {
	b.recorder = r
	return b
}

// WithParallel selects parallel or sequential per-board bring-up. The two
// differ only in wall-clock time.
func (b Builder) WithParallel(parallel bool) Builder {
	b.parallel = parallel
	return b
}

// WithSync selects whether the PPS synchronization protocol runs.
func (b Builder) WithSync(sync bool) Builder {
	b.sync = sync
	return b
}

// Build creates the Controller.
func (b Builder) Build() *Controller {
	if b.layout == nil {
		panic("fleet: controller needs a layout")
	}
	if b.orchestrator == nil {
		panic("fleet: controller needs an orchestrator")
	}

	c := &Controller{
		log:          b.log,
		layout:       b.layout,
		orchestrator: b.orchestrator,
		coordinator:  b.coordinator,
		recorder:     b.recorder,
		parallel:     b.parallel,
		sync:         b.sync,
	}
	if c.coordinator == nil {
		c.coordinator = ppssync.MakeBuilder().WithLogger(b.log).Build()
	}

	hosts := make([]string, len(b.layout.Boards))
	for i, board := range b.layout.Boards {
		hosts[i] = board.Host
	}
	c.session = NewSession(hosts)

	return c
}

// Session returns the live session state for monitoring.
func (c *Controller) Session() *Session {
	return c.session
}

// Run executes the session. It returns an error only when no board could
// be configured; partial fleets are a Result with Failed entries.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	result := &Result{Failed: make(map[string]error)}

	c.session.setPhase(PhaseConfiguring)
	boards := c.configureAll(ctx, result)
	result.Boards = boards

	c.log.Infof("configured %d of %d boards",
		len(boards), len(c.layout.Boards))
	if len(boards) == 0 {
		c.session.setPhase(PhaseDone)
		return result, errors.New("no board was configured")
	}

	if c.sync {
		c.session.setPhase(PhaseSyncing)
		handles := make([]fengine.Fengine, len(boards))
		for i, b := range boards {
			handles[i] = b.Handle
		}

		report, err := c.coordinator.Run(ctx, handles)
		result.Sync = report
		c.session.setReport(report)
		c.recordSync(report)
		if err != nil {
			c.session.setPhase(PhaseDone)
			return result, errors.Wrap(err, "synchronizing fleet")
		}
	}

	c.session.setPhase(PhaseEnablingTX)
	c.enableTX(ctx, boards, result)

	c.logEthStatus(ctx, boards)
	c.session.setPhase(PhaseDone)

	return result, nil
}

// configureAll brings up every board, isolating failures per board.
func (c *Controller) configureAll(
	ctx context.Context,
	result *Result,
) []*bringup.Board {
	n := len(c.layout.Boards)
	limit := n
	if !c.parallel {
		limit = 1
	}

	outcomes := dispatch.Run(ctx, n, limit,
		func(ctx context.Context, i int) (*bringup.Board, error) {
			desc := c.layout.Boards[i]
			c.session.updateBoard(i, func(s *BoardStatus) {
				s.State = "configuring"
			})

			board, err := c.orchestrator.Configure(ctx, desc, i)

			c.session.updateBoard(i, func(s *BoardStatus) {
				if board != nil {
					s.FengID = board.FengID
					s.State = board.State.String()
				}
				if err != nil {
					s.Error = err.Error()
				} else {
					s.Configured = true
				}
			})
			return board, err
		})

	configured := make([]*bringup.Board, 0, n)
	for _, o := range outcomes {
		host := c.layout.Boards[o.Index].Host
		if o.Failed() {
			c.log.Errorf("%s: configuration failed: %v", host, o.Err)
			result.Failed[host] = o.Err
			c.recordOutcome(o.Value, host, o.Err)
			continue
		}
		configured = append(configured, o.Value)
		c.recordOutcome(o.Value, host, nil)
	}

	return configured
}

// enableTX turns on transmit fleet-wide. This runs only after the
// synchronization protocol so no board streams before the fleet's timing
// state is settled.
func (c *Controller) enableTX(
	ctx context.Context,
	boards []*bringup.Board,
	result *Result,
) {
	c.log.Infof("enabling transmit on %d boards", len(boards))

	outcomes := dispatch.All(ctx, len(boards),
		func(ctx context.Context, i int) (struct{}, error) {
			return struct{}{}, boards[i].Handle.EnableTX(ctx)
		})

	for _, o := range outcomes {
		board := boards[o.Index]
		if o.Failed() {
			c.log.Errorf("%s: enabling transmit failed: %v",
				board.Host(), o.Err)
			result.Failed[board.Host()] = o.Err
			continue
		}
		c.sessionBoard(board, func(s *BoardStatus) {
			s.TXEnabled = true
		})
	}
}

// logEthStatus prints the per-board Ethernet status summary.
func (c *Controller) logEthStatus(ctx context.Context, boards []*bringup.Board) {
	outcomes := dispatch.All(ctx, len(boards),
		func(ctx context.Context, i int) (fengine.EthStatus, error) {
			return boards[i].Handle.Eth().Status(ctx)
		})

	for _, o := range outcomes {
		board := boards[o.Index]
		if o.Failed() {
			c.log.Warnf("%s: reading Ethernet status failed: %v",
				board.Host(), o.Err)
			continue
		}
		status := o.Value
		c.log.Infof("%s: tx %.2f Gb/s, packets %d, flags %#x",
			board.Host(), status.ThroughputGbps,
			status.PacketCounter, status.ErrorFlags)
		c.sessionBoard(board, func(s *BoardStatus) {
			s.Throughput = status.ThroughputGbps
			s.Packets = status.PacketCounter
			s.ErrorFlags = status.ErrorFlags
		})
	}
}

// sessionBoard updates the session entry matching the board's host.
func (c *Controller) sessionBoard(
	board *bringup.Board,
	update func(*BoardStatus),
) {
	for i := range c.layout.Boards {
		if c.layout.Boards[i].Host == board.Host() {
			c.session.updateBoard(i, update)
			return
		}
	}
}

func (c *Controller) recordOutcome(
	board *bringup.Board,
	host string,
	err error,
) {
	if c.recorder == nil {
		return
	}

	outcome := recording.BoardOutcome{Host: host, Success: err == nil}
	if board != nil {
		outcome.FengID = board.FengID
		outcome.State = board.State.String()
	}
	if err != nil {
		outcome.Error = err.Error()
	}
	c.recorder.Insert(recording.TableBoardOutcomes, outcome)

	if board == nil {
		return
	}
	for _, r := range board.Leveling {
		lo, hi := r.CoeffRange()
		c.recorder.Insert(recording.TableLeveling, recording.LevelingRow{
			Host:     host,
			Input:    r.Input,
			CoeffMin: lo,
			CoeffMax: hi,
			Fallback: r.Fallback,
		})
	}
}

func (c *Controller) recordSync(report *ppssync.Report) {
	if c.recorder == nil || report == nil {
		return
	}

	for _, check := range report.Checks {
		row := recording.SyncCheckRow{
			Host:        check.Host,
			OK:          check.OK,
			FirstCount:  check.First.PPSCount,
			SecondCount: check.Second.PPSCount,
		}
		if check.Err != nil {
			row.Error = check.Err.Error()
		}
		c.recorder.Insert(recording.TableSyncChecks, row)
	}

	for _, d := range report.Deltas {
		if d.Err != nil {
			continue
		}
		c.recorder.Insert(recording.TableSyncDeltas, recording.SyncDeltaRow{
			Host:          d.Host,
			TelescopeTime: d.Sample.TelescopeTime,
			PPSCount:      d.Sample.PPSCount,
			PeriodTicks:   d.PeriodTicks,
			DeltaSeconds:  d.Seconds,
		})
	}
}
