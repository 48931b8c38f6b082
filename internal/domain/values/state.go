package values

import "fmt"

// RunState represents the lifecycle state of a report run.
type RunState string

const (
	// StateIdle indicates no record has been processed yet.
	StateIdle RunState = "idle"
	// StateStreamActive indicates records are being consumed.
	StateStreamActive RunState = "stream_active"
	// StateClosing indicates the stream is exhausted and open groups are closing.
	StateClosing RunState = "closing"
	// StateDone indicates the run completed; the context is frozen.
	StateDone RunState = "done"
	// StateFailed indicates the run aborted on an unrecoverable error.
	StateFailed RunState = "failed"
)

// IsTerminal returns true once the run can no longer make progress.
func (s RunState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransitionTo reports whether the state machine permits moving to next.
// Failed is reachable from every non-terminal state.
func (s RunState) CanTransitionTo(next RunState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	switch s {
	case StateIdle:
		return next == StateStreamActive || next == StateClosing
	case StateStreamActive:
		return next == StateClosing
	case StateClosing:
		return next == StateDone
	default:
		return false
	}
}

// Validate returns an error if the state value is invalid.
func (s RunState) Validate() error {
	switch s {
	case StateIdle, StateStreamActive, StateClosing, StateDone, StateFailed:
		return nil
	default:
		return fmt.Errorf("invalid run state: %s", s)
	}
}
