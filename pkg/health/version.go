package health

// Version information for the health module.
const (
	// Version is the current version of the health module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
