// Package health provides user-defined polling health checks with
// categorical results.
//
// A Check wraps a user callback behind an atomically toggled enabled flag.
// Polling a disabled check returns ErrDisabled without invoking the callback.
//
// The callback must be thread-safe: there is no guarantee where or when it
// runs, and it will likely run on a different goroutine than the one that
// created its captured state. A good rule is to only read atomically inside
// the callback.
//
// Checks integrate with package lifecycle through LifecycleListener, which
// enables the check when its component starts and disables it when the
// component stops or fails:
//
//	check := health.NewCheck("db", "database connectivity", pingDB)
//	lc.Register(check.Name(), check.LifecycleListener())
package health
