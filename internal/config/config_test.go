package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.FocusMinutes != 25 || cfg.BreakMinutes != 5 {
		t.Fatalf("unexpected focus defaults: %+v", cfg)
	}
	if cfg.SchedulerBuffer != 64 || cfg.DailyGoal != 5 || cfg.Storage != "sqlite" {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("FLOWSTATE_DATA_DIR", "/tmp/fs")
	t.Setenv("FLOWSTATE_STORAGE", "FILE")
	t.Setenv("FLOWSTATE_FOCUS_MINUTES", "45")
	t.Setenv("FLOWSTATE_BREAK_MINUTES", "7")
	t.Setenv("FLOWSTATE_DUE_ALERTS", "off")
	t.Setenv("FLOWSTATE_SCHEDULER_BUFFER", "128")
	t.Setenv("FLOWSTATE_LOG_LEVEL", "DEBUG")
	t.Setenv("FLOWSTATE_LOG_FILE", "-")
	t.Setenv("FLOWSTATE_DAILY_GOAL", "8")
	t.Setenv("FLOWSTATE_SHOW_COMPLETED", "yes")

	cfg := FromEnv(Default())
	if cfg.DataDir != "/tmp/fs" || cfg.Storage != "file" {
		t.Fatalf("unexpected storage overrides: %+v", cfg)
	}
	if cfg.FocusMinutes != 45 || cfg.BreakMinutes != 7 {
		t.Fatalf("unexpected focus config: %+v", cfg)
	}
	if cfg.DueAlerts || !cfg.ShowCompleted {
		t.Fatalf("unexpected bool overrides: %+v", cfg)
	}
	if cfg.SchedulerBuffer != 128 || cfg.DailyGoal != 8 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config overrides: %+v", cfg)
	}
	if cfg.LogPath() != "-" {
		t.Fatalf("expected stderr log sink, got %q", cfg.LogPath())
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("FLOWSTATE_FOCUS_MINUTES", "soon")
	t.Setenv("FLOWSTATE_DUE_ALERTS", "maybe")
	t.Setenv("FLOWSTATE_SCHEDULER_BUFFER", "-3")
	cfg := FromEnv(Default())
	if cfg.FocusMinutes != 25 || !cfg.DueAlerts || cfg.SchedulerBuffer != 64 {
		t.Fatalf("expected garbage to be ignored: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "data_dir: " + dir + "\nstorage: file\nfocus_minutes: 15\nlog_format: json\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != dir || cfg.Storage != "file" || cfg.FocusMinutes != 15 || cfg.LogFormat != "json" {
		t.Fatalf("unexpected loaded config: %+v", cfg)
	}
	if cfg.BreakMinutes != 5 {
		t.Fatalf("expected unset fields to keep defaults: %+v", cfg)
	}
	if cfg.LogPath() != filepath.Join(dir, "flowstate.log") {
		t.Fatalf("unexpected default log path %q", cfg.LogPath())
	}
}

func TestLoadMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	if err != nil || cfg.FocusMinutes != 25 {
		t.Fatalf("expected defaults for missing file, got %+v err=%v", cfg, err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("focus_minutes: [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"focus minutes", func(c *Config) { c.FocusMinutes = 30 }},
		{"storage", func(c *Config) { c.Storage = "redis" }},
		{"log level", func(c *Config) { c.LogLevel = "trace" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"data dir", func(c *Config) { c.DataDir = " " }},
		{"daily goal", func(c *Config) { c.DailyGoal = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
