package lifecycle

// State represents the operational state of a component.
type State int32

const (
	// StateNew is the initial state. A component in this state is inactive.
	StateNew State = iota
	// StateStarting marks a component transitioning to StateRunning.
	StateStarting
	// StateRunning marks an operational component.
	StateRunning
	// StateStopping marks a component transitioning to StateTerminated.
	StateStopping
	// StateTerminated marks a component that completed execution normally.
	StateTerminated
	// StateFailed marks a component that encountered a problem and may not
	// be operational. It cannot be started nor stopped.
	StateFailed

	// stateCount is a sentinel, keep last.
	stateCount
)

// String returns the lowercase label for the state.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// valid reports whether s is one of the declared states.
func (s State) valid() bool {
	return s >= StateNew && s < stateCount
}

// canTransition reports whether the state machine permits moving from one
// state to another. Pure function; the only edges are the linear chain
// New->Starting->Running->Stopping->Terminated and x->Failed for x != Failed.
func canTransition(from, to State) bool {
	switch to {
	case StateStarting:
		return from == StateNew
	case StateRunning:
		return from == StateStarting
	case StateStopping:
		return from == StateRunning
	case StateTerminated:
		return from == StateStopping
	case StateFailed:
		return from != StateFailed
	default:
		return false
	}
}
