package health

// Status is the categorical result of polling a health check.
type Status int

const (
	// StatusUnknown marks a check in an unknown state, usually due to an
	// internal error.
	StatusUnknown Status = iota
	// StatusOK marks a healthy check.
	StatusOK
	// StatusWarning marks a check approaching unhealthy levels; action
	// should be taken.
	StatusWarning
	// StatusCritical marks an unhealthy check; action must be taken
	// immediately.
	StatusCritical
)

// String returns the lowercase label for the status.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}
