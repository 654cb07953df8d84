package lifecycle

import "errors"

// Errors returned by the public API. They can be checked with errors.Is.
var (
	// ErrInvalidTransition is returned when the requested state change is
	// not an edge of the state machine.
	ErrInvalidTransition = errors.New("lifecycle: invalid state transition")

	// ErrInvalidEpoch is returned when a transition is requested with a
	// non-positive epoch.
	ErrInvalidEpoch = errors.New("lifecycle: epoch must be positive")

	// ErrClockUnavailable is returned when the wall-clock source yields an
	// unusable reading.
	ErrClockUnavailable = errors.New("lifecycle: wall clock unavailable")
)

// Code identifies the class of a failure with an errno-style label, so
// callers and log pipelines can branch without matching error strings.
type Code int

const (
	// CodeNone means no classified failure.
	CodeNone Code = iota
	// CodeInvalid covers rejected arguments and illegal transitions.
	CodeInvalid
	// CodeClock covers wall-clock read failures.
	CodeClock
	// CodeAgain covers operations refused because their subject is
	// currently disabled.
	CodeAgain
)

// String returns the errno-style label for the code.
func (c Code) String() string {
	switch c {
	case CodeInvalid:
		return "EINVAL"
	case CodeClock:
		return "EFAULT"
	case CodeAgain:
		return "EAGAIN"
	default:
		return ""
	}
}

// ErrCode maps an error returned by this package onto its Code. Unrecognized
// errors, including nil, map to CodeNone.
func ErrCode(err error) Code {
	switch {
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInvalidEpoch):
		return CodeInvalid
	case errors.Is(err, ErrClockUnavailable):
		return CodeClock
	default:
		return CodeNone
	}
}
