package fleet

import (
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/casm-project/snapfleet/ppssync"
)

// Phase names a stage of a configuration session.
type Phase string

// Session phases, in order of occurrence.
const (
	PhasePending     Phase = "pending"
	PhaseConfiguring Phase = "configuring"
	PhaseSyncing     Phase = "syncing"
	PhaseEnablingTX  Phase = "enabling-tx"
	PhaseDone        Phase = "done"
)

// BoardStatus is the externally visible state of one board in a session.
type BoardStatus struct {
	Host       string  `json:"host"`
	FengID     int     `json:"feng_id"`
	State      string  `json:"state"`
	Configured bool    `json:"configured"`
	TXEnabled  bool    `json:"tx_enabled"`
	Error      string  `json:"error,omitempty"`
	Throughput float64 `json:"throughput_gbps"`
	Packets    uint64  `json:"packets"`
	ErrorFlags uint32  `json:"error_flags"`
}

// Snapshot is a point-in-time copy of the session state, served by the
// monitoring endpoint.
type Snapshot struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Phase     Phase         `json:"phase"`
	Boards    []BoardStatus `json:"boards"`

	Attempted  int `json:"attempted"`
	Configured int `json:"configured"`

	SyncHealthy  bool `json:"sync_healthy"`
	SyncMismatch bool `json:"sync_mismatch"`
}

// Session tracks the live state of one configuration run. The controller
// writes it; the monitoring server reads snapshots concurrently.
type Session struct {
	mu sync.Mutex

	runID     string
	startedAt time.Time
	phase     Phase
	boards    []BoardStatus
	report    *ppssync.Report
}

// NewSession creates a pending session over the given hosts.
func NewSession(hosts []string) *Session {
	s := &Session{
		runID:     xid.New().String(),
		startedAt: time.Now(),
		phase:     PhasePending,
		boards:    make([]BoardStatus, len(hosts)),
	}
	for i, host := range hosts {
		s.boards[i] = BoardStatus{Host: host, State: "disconnected"}
	}
	return s
}

// RunID returns the session's unique identifier.
func (s *Session) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

func (s *Session) updateBoard(i int, update func(*BoardStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.boards[i])
}

func (s *Session) setReport(r *ppssync.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		RunID:     s.runID,
		StartedAt: s.startedAt,
		Phase:     s.phase,
		Boards:    make([]BoardStatus, len(s.boards)),
		Attempted: len(s.boards),
	}
	copy(snap.Boards, s.boards)

	for _, b := range s.boards {
		if b.Configured {
			snap.Configured++
		}
	}
	if s.report != nil {
		snap.SyncHealthy = s.report.Healthy()
		snap.SyncMismatch = s.report.Mismatch
	}

	return snap
}
