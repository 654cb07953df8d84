// Package lifeline provides a thread-safe lifecycle state machine and
// flag-gated health checks for long-running components, plus an embeddable
// monitoring daemon built on top of them.
//
// Example usage:
//
//	cfg := lifeline.DefaultConfig()
//	cfg.Checks = []lifeline.CheckConfig{
//	    {Name: "disk", Command: []string{"sh", "-c", "df /"}},
//	}
//	if err := lifeline.Run(context.Background(), cfg, logger); err != nil {
//	    log.Fatal(err)
//	}
//
// For the lifecycle and health primitives themselves, import
// pkg/lifecycle and pkg/health directly.
package lifeline

import (
	"context"

	"github.com/runlab/lifeline/internal/cliconfig"
	"github.com/runlab/lifeline/internal/monitor"
	"github.com/runlab/lifeline/pkg/log"
)

// Config holds the configuration for the monitoring daemon.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// CheckConfig defines one command-based health check.
type CheckConfig = cliconfig.CheckConfig

// Logger is the structured logging interface from pkg/log.
type Logger = log.Logger

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Run starts the monitoring daemon with the given configuration.
// It blocks until the context is cancelled or an unrecoverable error occurs.
// A nil logger disables logging.
func Run(ctx context.Context, cfg Config, logger Logger) error {
	m, err := monitor.New(cfg, logger)
	if err != nil {
		return err
	}
	return m.Run(ctx)
}
