package health

import (
	"errors"

	"github.com/runlab/lifeline/pkg/lifecycle"
)

// ErrDisabled is returned by Poll when the check's enabled flag is unset.
// It can be checked with errors.Is.
var ErrDisabled = errors.New("health: check disabled")

// ErrCode maps an error from this package onto a lifecycle code. ErrDisabled
// reports lifecycle.CodeAgain; anything else defers to lifecycle.ErrCode.
func ErrCode(err error) lifecycle.Code {
	if errors.Is(err, ErrDisabled) {
		return lifecycle.CodeAgain
	}
	return lifecycle.ErrCode(err)
}

// CheckFunc implements a health check. It returns the categorical status and
// an optional error detail; the detail is informational and may accompany
// any status. The function must be thread-safe.
type CheckFunc func() (Status, error)

const flagEnabled uint32 = 1 << 0

// Check is a named, flag-gated polling health check.
type Check struct {
	name        string
	description string
	flags       flags
	fn          CheckFunc
}

// CheckOption configures optional behavior of a Check.
type CheckOption func(*Check)

// Disabled creates the check with polling disabled. The check stays silent
// until Enable is called, directly or through a lifecycle listener.
func Disabled() CheckOption {
	return func(c *Check) {
		c.flags.unset(flagEnabled)
	}
}

// NewCheck creates a health check around the given callback. The check is
// enabled unless the Disabled option is passed.
func NewCheck(name, description string, fn CheckFunc, opts ...CheckOption) *Check {
	c := &Check{
		name:        name,
		description: description,
		fn:          fn,
	}
	c.flags.set(flagEnabled)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the name of the check.
func (c *Check) Name() string {
	return c.name
}

// Description returns the short description of the check.
func (c *Check) Description() string {
	return c.description
}

// Enable sets the check's enabled flag.
func (c *Check) Enable() {
	c.flags.set(flagEnabled)
}

// Disable unsets the check's enabled flag.
func (c *Check) Disable() {
	c.flags.unset(flagEnabled)
}

// Enabled reports whether the check is currently enabled.
func (c *Check) Enabled() bool {
	return c.flags.test(flagEnabled)
}

// Poll runs the check. When the check is disabled it returns StatusUnknown
// and ErrDisabled without invoking the callback. Otherwise it returns the
// callback's status and optional error detail; depending on the status,
// callers might also inspect the detail.
func (c *Check) Poll() (Status, error) {
	if !c.flags.test(flagEnabled) {
		return StatusUnknown, ErrDisabled
	}
	return c.fn()
}

// LifecycleListener returns a listener that ties the check's enabled flag to
// lifecycle transitions: the check is enabled on StateStarting and disabled
// on StateStopping and StateFailed.
func (c *Check) LifecycleListener() lifecycle.ListenerFunc {
	return func(state lifecycle.State, epoch int64) {
		switch state {
		case lifecycle.StateStarting:
			c.Enable()
		case lifecycle.StateStopping, lifecycle.StateFailed:
			c.Disable()
		}
	}
}
