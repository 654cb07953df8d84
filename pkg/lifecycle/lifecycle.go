package lifecycle

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Lifecycle is a thread-safe state machine recording the operational state of
// a component together with the epoch at which each state was first entered.
//
// The published state and every epoch slot are independent atomic cells, so
// State and Epoch never block. Transitions and listener registry mutations
// serialize on a single exclusive per-instance lock.
type Lifecycle struct {
	state  atomic.Int32
	epochs [stateCount]atomic.Int64

	mu        sync.Mutex
	listeners []*Listener

	clock func() time.Time
}

// Option configures optional behavior of a Lifecycle.
type Option func(*Lifecycle)

// WithClock sets the wall-clock source used by New and TransitionTo.
// If not provided, time.Now is used.
func WithClock(clock func() time.Time) Option {
	return func(l *Lifecycle) {
		l.clock = clock
	}
}

// New creates a Lifecycle in StateNew and records the construction time as
// the StateNew epoch. Returns ErrClockUnavailable if the clock source yields
// a non-positive epoch.
func New(opts ...Option) (*Lifecycle, error) {
	l := &Lifecycle{clock: time.Now}
	for _, opt := range opts {
		opt(l)
	}

	now := l.clock().Unix()
	if now <= 0 {
		return nil, ErrClockUnavailable
	}
	l.epochs[StateNew].Store(now)

	return l, nil
}

// State returns the currently published state. The read is a single atomic
// load: it never blocks and may run concurrently with an in-flight
// transition, observing either the pre- or post-transition state.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Epoch returns the unix time at which the lifecycle first entered the given
// state, or 0 if that state has not been reached yet. States with an ordinal
// beyond the currently published state report 0. Lock-free, never fails.
func (l *Lifecycle) Epoch(s State) int64 {
	if !s.valid() {
		return 0
	}
	if s > l.State() {
		return 0
	}
	return l.epochs[s].Load()
}

// TransitionTo attempts to transition to a new state, stamping it with the
// current wall-clock time. Returns ErrClockUnavailable if the clock source
// cannot be read, otherwise behaves exactly like TransitionAt.
func (l *Lifecycle) TransitionTo(to State) error {
	now := l.clock().Unix()
	if now <= 0 {
		return ErrClockUnavailable
	}
	return l.TransitionAt(to, now)
}

// TransitionAt attempts to transition to a new state at the given epoch.
//
// On success the new state is published before its epoch, and both are
// published before any listener runs; a concurrent State call may therefore
// observe the new state before every listener has been notified. On failure
// nothing is mutated and no listener is invoked.
//
// Returns ErrInvalidEpoch for a non-positive epoch and ErrInvalidTransition
// when the state machine rejects the change.
func (l *Lifecycle) TransitionAt(to State, epoch int64) error {
	if epoch <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidEpoch, epoch)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from := l.State()
	if !canTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	l.state.Store(int32(to))
	l.epochs[to].Store(epoch)

	// Still inside the critical section: each listener fires exactly once
	// per successful transition, most recently registered first.
	for i := len(l.listeners) - 1; i >= 0; i-- {
		l.listeners[i].fn(to, epoch)
	}

	return nil
}

// Close drops every registered listener and leaves the lifecycle unusable
// for notification. The caller must guarantee no other goroutine is using
// the instance when Close runs.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	l.listeners = nil
	l.mu.Unlock()
}
