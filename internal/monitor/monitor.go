// Package monitor ties a lifecycle, command-based health checks, the HTTP
// status endpoints and the config watcher into one runnable daemon.
package monitor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/runlab/lifeline/internal/cliconfig"
	"github.com/runlab/lifeline/pkg/health"
	"github.com/runlab/lifeline/pkg/lifecycle"
	"github.com/runlab/lifeline/pkg/log"
)

// Monitor runs configured health checks on an interval, audits its own
// lifecycle transitions, and serves /healthz and /statusz over HTTP.
type Monitor struct {
	cfg    cliconfig.Config
	logger log.Logger
	lc     *lifecycle.Lifecycle

	mu             sync.RWMutex
	checks         []*health.Check
	checkListeners []*lifecycle.Listener
}

// New creates a monitor from a validated configuration. A nil logger
// disables logging.
func New(cfg cliconfig.Config, logger log.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	lc, err := lifecycle.New()
	if err != nil {
		return nil, err
	}

	m := &Monitor{
		cfg:    cfg,
		logger: logger,
		lc:     lc,
	}
	lc.Register("audit", m.audit)
	m.setChecks(buildChecks(cfg.Checks))

	return m, nil
}

// Lifecycle returns the monitor's lifecycle, e.g. to register additional
// listeners before Run.
func (m *Monitor) Lifecycle() *lifecycle.Lifecycle {
	return m.lc
}

// audit logs every lifecycle transition.
func (m *Monitor) audit(state lifecycle.State, epoch int64) {
	m.logger.Info("lifecycle transition",
		log.Stringer("state", state),
		log.Int64("epoch", epoch),
	)
}

// Run drives the monitor through its lifecycle: Starting while the status
// server and config watcher come up, Running for the polling loop, Stopping
// and Terminated on context cancellation, Failed on any fatal error.
// It blocks until the context is cancelled or a fatal error occurs.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.lc.TransitionTo(lifecycle.StateStarting); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", m.cfg.ListenAddr)
	if err != nil {
		return m.fail(err)
	}

	return m.run(ctx, ln)
}

// run serves on ln until ctx is cancelled or a fatal error occurs. The
// goroutines it spawns live as long as run itself, not as long as the
// caller's context: the derived context is cancelled on every return path.
func (m *Monitor) run(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := m.newServer()
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	m.logger.Info("status endpoints listening", log.String("addr", ln.Addr().String()))

	if m.cfg.Watch && m.cfg.ConfigPath != "" {
		w := newConfigWatcher(m.cfg.ConfigPath, m.logger, m.reloadConfig)
		go w.run(ctx)
	}

	if err := m.lc.TransitionTo(lifecycle.StateRunning); err != nil {
		srv.Close()
		return m.fail(err)
	}

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return m.shutdown(srv)
		case err := <-serveErr:
			srv.Close()
			return m.fail(err)
		case <-ticker.C:
			m.pollChecks()
		}
	}
}

// shutdown performs the Stopping -> Terminated leg, draining the status
// server within the configured shutdown timeout.
func (m *Monitor) shutdown(srv *http.Server) error {
	if err := m.lc.TransitionTo(lifecycle.StateStopping); err != nil {
		return m.fail(err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		m.logger.Warn("status server shutdown", log.Err(err))
		srv.Close()
	}

	return m.lc.TransitionTo(lifecycle.StateTerminated)
}

// fail marks the lifecycle failed and returns the causing error.
func (m *Monitor) fail(err error) error {
	m.logger.Error("monitor failed", log.Err(err))
	if terr := m.lc.TransitionTo(lifecycle.StateFailed); terr != nil {
		m.logger.Error("failed transition rejected", log.Err(terr))
	}
	return err
}

// pollChecks polls every check once and logs non-ok results. Disabled
// checks are skipped silently.
func (m *Monitor) pollChecks() {
	for _, c := range m.snapshot() {
		status, detail := c.Poll()
		if errors.Is(detail, health.ErrDisabled) {
			continue
		}

		fields := []log.Field{log.String("check", c.Name()), log.Stringer("status", status)}
		if detail != nil {
			fields = append(fields, log.Err(detail))
		}

		switch status {
		case health.StatusOK:
			m.logger.Debug("health check ok", fields...)
		case health.StatusWarning:
			m.logger.Warn("health check degraded", fields...)
		default:
			m.logger.Error("health check failing", fields...)
		}
	}
}

// snapshot returns the current check set without holding the lock during
// polling.
func (m *Monitor) snapshot() []*health.Check {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*health.Check(nil), m.checks...)
}

// setChecks swaps the active check set, re-registering one lifecycle
// listener per check so the checks track the monitor's own state.
func (m *Monitor) setChecks(checks []*health.Check) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.checkListeners {
		m.lc.Unregister(h)
	}
	m.checkListeners = m.checkListeners[:0]

	m.checks = checks
	for _, c := range checks {
		m.checkListeners = append(m.checkListeners, m.lc.Register(c.Name(), c.LifecycleListener()))
	}
}

// reloadConfig re-reads the config file and swaps the check set. Only check
// definitions are reloadable at runtime; other settings keep their values
// from startup. A malformed file is logged and skipped, leaving the previous
// checks active.
func (m *Monitor) reloadConfig() {
	fc, err := cliconfig.LoadFileConfig(m.cfg.ConfigPath)
	if err != nil {
		m.logger.Error("config reload: read failed", log.Err(err))
		return
	}

	next := m.cfg
	next.Checks = nil
	if err := cliconfig.ApplyFileConfig(&next, fc, nil); err != nil {
		m.logger.Error("config reload: apply failed", log.Err(err))
		return
	}
	if err := next.Validate(); err != nil {
		m.logger.Error("config reload: invalid config", log.Err(err))
		return
	}

	m.setChecks(buildChecks(next.Checks))
	m.logger.Info("config reloaded", log.Int("checks", len(next.Checks)))
}
