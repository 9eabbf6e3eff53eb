package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Latency != defaultLatency {
		t.Fatalf("Latency = %v, want %v", cfg.Latency, defaultLatency)
	}
	if cfg.PageSize != defaultPageSize {
		t.Fatalf("PageSize = %d, want %d", cfg.PageSize, defaultPageSize)
	}
	if cfg.RefreshInterval != 0 {
		t.Fatalf("RefreshInterval = %v, want disabled", cfg.RefreshInterval)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.Telemetry.Enabled {
		t.Fatal("Telemetry.Enabled = true, want false by default")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
latency_ms = 0
page_size = 20
refresh_seconds = 5
seed_file = "  ~/seed.yaml  "
log_file = "  ~/logs/tally.log  "
log_level = "debug"

[telemetry]
enabled = true
output = "~/otel.jsonl"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Latency != 0 {
		t.Fatalf("Latency = %v, want 0 (explicitly configured)", cfg.Latency)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("PageSize = %d, want 20", cfg.PageSize)
	}
	if cfg.RefreshInterval != 5*time.Second {
		t.Fatalf("RefreshInterval = %v, want 5s", cfg.RefreshInterval)
	}
	if cfg.SeedFile != filepath.Join(home, "seed.yaml") {
		t.Fatalf("SeedFile = %q, want it under HOME", cfg.SeedFile)
	}
	if !strings.HasPrefix(cfg.LogFile, home) || cfg.LogDir() != filepath.Join(home, "logs") {
		t.Fatalf("LogFile = %q LogDir = %q, want under %q", cfg.LogFile, cfg.LogDir(), home)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Output != filepath.Join(home, "otel.jsonl") {
		t.Fatalf("Telemetry = %#v", cfg.Telemetry)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
log_file = "   "
seed_file = ""
page_size = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.LogFile != want.LogFile || cfg.SeedFile != "" || cfg.PageSize != defaultPageSize {
		t.Fatalf("cfg = %#v, want defaults %#v", cfg, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TALLY_LATENCY_MS", "50")
	t.Setenv("TALLY_PAGE_SIZE", "5")
	t.Setenv("TALLY_LOG_LEVEL", "warn")
	t.Setenv("TALLY_TELEMETRY_ENABLED", "true")

	path := writeConfig(t, `
latency_ms = 900
page_size = 40
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Latency != 50*time.Millisecond {
		t.Fatalf("Latency = %v, want 50ms from env", cfg.Latency)
	}
	if cfg.PageSize != 5 {
		t.Fatalf("PageSize = %d, want 5 from env", cfg.PageSize)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("LogLevel = %v, want WARN", cfg.LogLevel)
	}
	if !cfg.Telemetry.Enabled {
		t.Fatal("Telemetry.Enabled = false, want true from env")
	}
}

func TestLoad_InvalidEnvFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TALLY_PAGE_SIZE", "lots")

	_, err := Load(writeConfig(t, ""))
	if err == nil || !strings.Contains(err.Error(), "env overrides") {
		t.Fatalf("Load error = %v, want env overrides error", err)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid toml", `latency_ms = [`, "parse config"},
		{"negative latency", `latency_ms = -1`, "latency_ms"},
		{"negative refresh", `refresh_seconds = -2`, "refresh_seconds"},
		{"unknown level", `log_level = "loud"`, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogDir_DefaultsWhenLogFileEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogDir()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/tally")) {
		t.Fatalf("LogDir = %q, want it to end with /tally", got)
	}
}
