package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ListenAddr      string       `toml:"listen_addr"`
	PollInterval    string       `toml:"poll_interval"`
	CheckTimeout    string       `toml:"check_timeout"`
	ShutdownTimeout string       `toml:"shutdown_timeout"`
	LogLevel        string       `toml:"log_level"`
	Watch           *bool        `toml:"watch"`
	Checks          []CheckTable `toml:"check"`
}

// CheckTable is one [[check]] table in the config file.
type CheckTable struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Command     []string `toml:"command"`
	Timeout     string   `toml:"timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.lifeline/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".lifeline", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). Check
// definitions always come from the file; flags cannot define checks.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", fc.ListenAddr, &cfg.ListenAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("poll-interval", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("check-timeout", fc.CheckTimeout, &cfg.CheckTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)

	checks, err := fc.checkConfigs()
	if err != nil {
		return err
	}
	cfg.Checks = checks

	return nil
}

// checkConfigs converts the [[check]] tables into CheckConfig values.
func (fc FileConfig) checkConfigs() ([]CheckConfig, error) {
	if len(fc.Checks) == 0 {
		return nil, nil
	}

	checks := make([]CheckConfig, 0, len(fc.Checks))
	for _, tbl := range fc.Checks {
		chk := CheckConfig{
			Name:        tbl.Name,
			Description: tbl.Description,
			Command:     tbl.Command,
		}
		if tbl.Timeout != "" {
			d, err := time.ParseDuration(tbl.Timeout)
			if err != nil {
				return nil, fmt.Errorf("check %q: parse timeout: %w", tbl.Name, err)
			}
			chk.Timeout = d
		}
		checks = append(checks, chk)
	}
	return checks, nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
