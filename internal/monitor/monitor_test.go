package monitor

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runlab/lifeline/internal/cliconfig"
	"github.com/runlab/lifeline/pkg/health"
	"github.com/runlab/lifeline/pkg/lifecycle"
)

func TestNew_InvalidConfig(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.PollInterval = 0

	if _, err := New(cfg, nil); err == nil {
		t.Fatal("New accepted an invalid config")
	}
}

func TestMonitor_Run(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.Watch = false
	cfg.PollInterval = time.Hour // keep the loop idle

	m, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	running := make(chan struct{})
	m.Lifecycle().Register("test", func(s lifecycle.State, epoch int64) {
		if s == lifecycle.StateRunning {
			close(running)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case <-running:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor never reached running")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	lc := m.Lifecycle()
	if got := lc.State(); got != lifecycle.StateTerminated {
		t.Errorf("final state = %v, want StateTerminated", got)
	}
	for _, s := range allStates[:5] {
		if lc.Epoch(s) <= 0 {
			t.Errorf("Epoch(%s) = %d, want > 0", s, lc.Epoch(s))
		}
	}
}

func TestMonitor_Run_ListenFailure(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.ListenAddr = "definitely not an address"
	cfg.Watch = false

	m, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := m.Run(context.Background()); err == nil {
		t.Fatal("Run returned nil for an unusable listen address")
	}
	if got := m.Lifecycle().State(); got != lifecycle.StateFailed {
		t.Errorf("state = %v after listen failure, want StateFailed", got)
	}
}

// The config watcher stops when the run loop exits on a fatal error, even
// while the caller's context stays live.
func TestMonitor_WatcherStopsWithRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	writeFile(`
[[check]]
name = "one"
command = ["true"]
`)

	cfg := cliconfig.DefaultConfig()
	cfg.ConfigPath = path
	cfg.Watch = true
	cfg.PollInterval = time.Hour
	cfg.Checks = []cliconfig.CheckConfig{{Name: "one", Command: []string{"true"}}}

	m, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	running := make(chan struct{})
	m.Lifecycle().Register("test", func(s lifecycle.State, epoch int64) {
		if s == lifecycle.StateRunning {
			close(running)
		}
	})

	if err := m.Lifecycle().TransitionTo(lifecycle.StateStarting); err != nil {
		t.Fatalf("TransitionTo returned error: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- m.run(context.Background(), ln) }()

	select {
	case <-running:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor never reached running")
	}

	ln.Close()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("run returned nil after the listener was closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after the listener was closed")
	}
	if got := m.Lifecycle().State(); got != lifecycle.StateFailed {
		t.Errorf("state = %v after serve failure, want StateFailed", got)
	}

	writeFile(`
[[check]]
name = "one"
command = ["true"]

[[check]]
name = "two"
command = ["true"]
`)
	time.Sleep(600 * time.Millisecond) // past the watcher debounce
	if checks := m.snapshot(); len(checks) != 1 {
		t.Errorf("checks after run exit = %v, want the original set", checkNames(checks))
	}
}

func TestMonitor_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	writeFile(`
[[check]]
name = "one"
command = ["true"]
`)

	cfg := cliconfig.DefaultConfig()
	cfg.ConfigPath = path
	cfg.Checks = []cliconfig.CheckConfig{{Name: "one", Command: []string{"true"}}}

	m, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	writeFile(`
[[check]]
name = "one"
command = ["true"]

[[check]]
name = "two"
command = ["true"]
`)
	m.reloadConfig()

	checks := m.snapshot()
	if len(checks) != 2 {
		t.Fatalf("got %d checks after reload, want 2", len(checks))
	}
	if checks[1].Name() != "two" {
		t.Errorf("second check = %s, want two", checks[1].Name())
	}
}

func TestMonitor_ReloadConfig_MalformedKeepsOld(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[[check]]\nname = [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := cliconfig.DefaultConfig()
	cfg.ConfigPath = path
	cfg.Checks = []cliconfig.CheckConfig{{Name: "one", Command: []string{"true"}}}

	m, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	m.reloadConfig()

	checks := m.snapshot()
	if len(checks) != 1 || checks[0].Name() != "one" {
		t.Errorf("checks after failed reload = %v, want the original set", checkNames(checks))
	}
}

func TestMonitor_ChecksFollowLifecycle(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.Checks = []cliconfig.CheckConfig{{Name: "one", Command: []string{"true"}}}

	m, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	lc := m.Lifecycle()
	for _, s := range []lifecycle.State{lifecycle.StateStarting, lifecycle.StateRunning} {
		if err := lc.TransitionAt(s, int64(s)); err != nil {
			t.Fatalf("TransitionAt(%s) returned error: %v", s, err)
		}
	}
	if !m.snapshot()[0].Enabled() {
		t.Error("check disabled while running")
	}

	if err := lc.TransitionAt(lifecycle.StateStopping, 9); err != nil {
		t.Fatalf("TransitionAt returned error: %v", err)
	}
	if m.snapshot()[0].Enabled() {
		t.Error("check still enabled after stopping")
	}
}

func checkNames(checks []*health.Check) []string {
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.Name())
	}
	return names
}
