package lifecycle

// ListenerFunc is invoked on every successful transition with the new state
// and the epoch supplied to the transition call.
//
// Callbacks run synchronously on the transitioning goroutine, inside the
// exclusive critical section. They must not call back into the same
// Lifecycle (the lock is not reentrant) and must not block indefinitely,
// since a stalled callback stalls every subsequent transition and registry
// mutation on the instance.
type ListenerFunc func(state State, epoch int64)

// Listener is the registration handle returned by Register. It identifies
// the registration for Unregister.
type Listener struct {
	name string
	fn   ListenerFunc
}

// Name returns the name the listener was registered under.
func (ls *Listener) Name() string {
	return ls.name
}

// Register adds a transition listener under the lifecycle's exclusive lock
// and returns its handle. The most recently registered listener is notified
// first.
func (l *Lifecycle) Register(name string, fn ListenerFunc) *Listener {
	ls := &Listener{name: name, fn: fn}

	l.mu.Lock()
	l.listeners = append(l.listeners, ls)
	l.mu.Unlock()

	return ls
}

// Unregister removes a listener by handle identity under the lifecycle's
// exclusive lock. Removing a handle that is not registered is a no-op.
func (l *Lifecycle) Unregister(h *Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, ls := range l.listeners {
		if ls == h {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}
