package fengine

import "fmt"

// ConfigurationError reports a malformed or missing configuration value.
// It is fatal for the board it applies to, never for the fleet, and is
// always raised before any hardware access.
type ConfigurationError struct {
	Host   string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Host == "" {
		return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration: %s: %s: %s", e.Host, e.Field, e.Reason)
}

// ConnectionError reports an unreachable board transport.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection: %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProgrammingError reports a bitstream upload or ADC bring-up failure.
// The orchestrator retries the program call exactly once after an explicit
// ADC re-initialization; a ProgrammingError that escapes the orchestrator
// is final for that board.
type ProgrammingError struct {
	Host string
	Err  error
}

func (e *ProgrammingError) Error() string {
	return fmt.Sprintf("programming: %s: %v", e.Host, e.Err)
}

func (e *ProgrammingError) Unwrap() error {
	return e.Err
}

// PPSTimeoutError reports that no PPS edge was observed before the
// context deadline. A board that raises this during the tick-sanity check
// has a missing or mis-wired PPS input.
type PPSTimeoutError struct {
	Host string
}

func (e *PPSTimeoutError) Error() string {
	return fmt.Sprintf("pps timeout: %s: no PPS edge before deadline", e.Host)
}

// SyncMismatchError reports disagreeing PPS edge counts across the fleet.
// The coordinator logs it and continues; it never aborts a run.
type SyncMismatchError struct {
	Host     string
	Count    uint64
	RefCount uint64
}

func (e *SyncMismatchError) Error() string {
	return fmt.Sprintf("sync mismatch: %s: pps count %d, reference %d",
		e.Host, e.Count, e.RefCount)
}
