package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("LIFELINE_LISTEN", "127.0.0.1:9999")
	t.Setenv("LIFELINE_POLL_INTERVAL", "42s")
	t.Setenv("LIFELINE_LOG_LEVEL", "debug")
	t.Setenv("LIFELINE_WATCH", "false")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err != nil {
		t.Fatalf("ApplyEnvConfig returned error: %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %s, want 127.0.0.1:9999", cfg.ListenAddr)
	}
	if cfg.PollInterval != 42*time.Second {
		t.Errorf("PollInterval = %v, want 42s", cfg.PollInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.Watch {
		t.Error("Watch = true, want false from env")
	}
}

func TestApplyEnvConfig_RespectsChangedFlags(t *testing.T) {
	t.Setenv("LIFELINE_LISTEN", "127.0.0.1:9999")

	cfg := DefaultConfig()
	changed := map[string]bool{"listen": true}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig returned error: %v", err)
	}

	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %s, flag value must win over env", cfg.ListenAddr)
	}
}

func TestApplyEnvConfig_BadDuration(t *testing.T) {
	t.Setenv("LIFELINE_POLL_INTERVAL", "eventually")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err == nil {
		t.Fatal("ApplyEnvConfig accepted an unparseable duration")
	}
}
