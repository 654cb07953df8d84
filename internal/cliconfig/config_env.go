package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LIFELINE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", os.Getenv("LIFELINE_LISTEN"), &cfg.ListenAddr)
	s.setString("log-level", os.Getenv("LIFELINE_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("poll-interval", os.Getenv("LIFELINE_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("check-timeout", os.Getenv("LIFELINE_CHECK_TIMEOUT"), &cfg.CheckTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("LIFELINE_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("LIFELINE_WATCH"), &cfg.Watch)

	return nil
}
