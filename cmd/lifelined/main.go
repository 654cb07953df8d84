package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/runlab/lifeline/internal/cliconfig"
	"github.com/runlab/lifeline/internal/monitor"
	"github.com/runlab/lifeline/pkg/log"
)

const helpDescription = `
Track the lifecycle of a host and its services with auditable state
transitions and command-based health checks.

Highlights:
  - Runs configured health check commands on an interval.
  - Serves /healthz and /statusz with per-state transition epochs.
  - Reloads check definitions when the config file changes.
  - Configure via file, LIFELINE_* environment variables, or flags.
`

var exampleUsage = strings.TrimSpace(`
  lifelined --config $HOME/.lifeline/config.toml
  lifelined --listen 127.0.0.1:7676 --poll-interval 30s
  lifelined --config ./config.toml --once
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "lifelined",
		Short:   "Lifecycle and health monitoring daemon",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.lifeline/config.toml),
			// then apply env and flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
				cfg.ConfigPath = cfgFile
			}

			// Environment variables (LIFELINE_*) override file config but
			// are overridden by flags (checked via changed map).
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := log.NewConsoleLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			m, err := monitor.New(cfg, logger)
			if err != nil {
				return err
			}

			if cfg.Once {
				return m.RunOnce(os.Stdout)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return m.Run(ctx)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to TOML config file")
	flags.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "bind address for status endpoints")
	flags.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "interval between health check rounds")
	flags.DurationVar(&cfg.CheckTimeout, "check-timeout", cfg.CheckTimeout, "default timeout for one check command")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload check definitions on config file changes")
	flags.BoolVar(&cfg.Once, "once", cfg.Once, "poll all checks once, print the report, and exit")

	root.SilenceUsage = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
