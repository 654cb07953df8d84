// Package lifecycle provides a thread-safe state machine tracking the
// operational state of a long-running component.
//
// A Lifecycle serves several purposes:
//
//   - Improve auditing via per-state transition epochs
//   - Toggle health checks on Starting and Stopping transitions
//   - Centralize the exit condition of a main loop
//
// # State Machine
//
// Valid state transitions:
//
//	New -> Starting -> Running -> Stopping -> Terminated
//	 └───────┴───────────┴──────────┴──────> Failed
//
// Any state except Failed may transition to Failed. All other transitions,
// including self-loops, are rejected with ErrInvalidTransition.
//
// # Usage
//
// Create a lifecycle and drive it through its states:
//
//	lc, err := lifecycle.New()
//	if err != nil {
//	    return err
//	}
//	defer lc.Close()
//
//	h := lc.Register("audit", func(s lifecycle.State, epoch int64) {
//	    log.Printf("entered %s at %d", s, epoch)
//	})
//	defer lc.Unregister(h)
//
//	if err := lc.TransitionTo(lifecycle.StateStarting); err != nil {
//	    return err
//	}
//
// # Concurrency
//
// State and Epoch are lock-free reads. TransitionTo, TransitionAt, Register
// and Unregister serialize on one exclusive per-instance lock. Listener
// callbacks run synchronously inside the transition's critical section: they
// must not call back into the same Lifecycle and must return promptly.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package lifecycle
