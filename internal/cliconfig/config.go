package cliconfig

import (
	"fmt"
	"time"
)

// DefaultListenAddr is the default bind address for the status endpoints.
const DefaultListenAddr = "127.0.0.1:7676"

// Config holds CLI configuration for lifelined.
type Config struct {
	// ListenAddr is the bind address for the HTTP status endpoints.
	ListenAddr string

	// ConfigPath is the config file the daemon was loaded from. Empty when
	// running purely on flags and environment; the watcher needs it set.
	ConfigPath string

	PollInterval    time.Duration
	CheckTimeout    time.Duration
	ShutdownTimeout time.Duration

	LogLevel string
	Watch    bool
	Once     bool

	Checks []CheckConfig
}

// CheckConfig defines one command-based health check.
type CheckConfig struct {
	Name        string
	Description string
	// Command is the argv to run; exit 0 maps to ok, exit 1 to warning,
	// any other exit to critical.
	Command []string
	// Timeout bounds one run of the command. Zero means Config.CheckTimeout.
	Timeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      DefaultListenAddr,
		PollInterval:    10 * time.Second,
		CheckTimeout:    5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		Watch:           true,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.CheckTimeout <= 0 {
		return fmt.Errorf("check timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	seen := map[string]bool{}
	for i := range c.Checks {
		chk := &c.Checks[i]
		if chk.Name == "" {
			return fmt.Errorf("check %d: name is required", i)
		}
		if seen[chk.Name] {
			return fmt.Errorf("check %q: duplicate name", chk.Name)
		}
		seen[chk.Name] = true
		if len(chk.Command) == 0 {
			return fmt.Errorf("check %q: command is required", chk.Name)
		}
		if chk.Timeout <= 0 {
			chk.Timeout = c.CheckTimeout
		}
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
