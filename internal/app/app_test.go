package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/tally/internal/config"
	"github.com/five82/tally/internal/logtail"
)

const testSeed = `customers:
  - id: "1001"
    name: "Ada Lovelace"
    description: "Analytical engine consulting"
    status: Open
    rate: 90
    balance: -15
    deposit: 200
  - id: "1002"
    name: "Grace Hopper"
    description: ""
    status: Paid
    rate: 120
    balance: 0
    deposit: 0
`

func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Latency = 0
	cfg.LogFile = filepath.Join(dir, "logs", "tally.log")
	cfg.Telemetry.Output = filepath.Join(dir, "telemetry.jsonl")
	return cfg
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.RefreshInterval = 0

	applyOverrides(&cfg, Options{PollEvery: 7, LatencyMS: 0})
	if cfg.RefreshInterval != 7*time.Second {
		t.Errorf("RefreshInterval = %v, want 7s", cfg.RefreshInterval)
	}
	if cfg.Latency != 0 {
		t.Errorf("Latency = %v, want 0", cfg.Latency)
	}

	before := cfg.Latency
	applyOverrides(&cfg, Options{LatencyMS: -1})
	if cfg.Latency != before {
		t.Errorf("negative LatencyMS changed latency to %v", cfg.Latency)
	}
	if cfg.RefreshInterval != 7*time.Second {
		t.Errorf("zero PollEvery changed refresh to %v", cfg.RefreshInterval)
	}
}

func TestOpenLog_WritesParseableRecords(t *testing.T) {
	restoreDefaultLogger(t)
	path := filepath.Join(t.TempDir(), "nested", "tally.log")

	logger, closeLog, err := openLog(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("openLog: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("customer added", "id", "1001")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines, err := logtail.Read(path, 10)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), lines)
	}
	entry := logtail.Parse(lines[0])
	if entry.Level != "INFO" || entry.Message != "customer added" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestOpenLog_EmptyPathDiscards(t *testing.T) {
	restoreDefaultLogger(t)
	logger, closeLog, err := openLog("", slog.LevelDebug)
	if err != nil {
		t.Fatalf("openLog: %v", err)
	}
	logger.Info("dropped")
	if err := closeLog(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestSetup_UsesSeedFile(t *testing.T) {
	restoreDefaultLogger(t)
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(cfg.SeedFile, []byte(testSeed), 0o644); err != nil {
		t.Fatal(err)
	}

	rt, err := setup(cfg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer rt.close()

	got, err := rt.customers.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d customers, want 2", len(got))
	}
	if rt.store.Len() != 2 {
		t.Errorf("store.Len() = %d, want 2", rt.store.Len())
	}
}

func TestSetup_BadSeedFile(t *testing.T) {
	restoreDefaultLogger(t)
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := setup(cfg)
	if err == nil || !strings.Contains(err.Error(), "load seed") {
		t.Fatalf("setup error = %v, want load seed failure", err)
	}
}

func TestSetup_TelemetryWritesOnClose(t *testing.T) {
	restoreDefaultLogger(t)
	cfg := testConfig(t)
	cfg.Telemetry.Enabled = true

	rt, err := setup(cfg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := rt.customers.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	rt.close()

	data, err := os.ReadFile(cfg.Telemetry.Output)
	if err != nil {
		t.Fatalf("read telemetry: %v", err)
	}
	if len(data) == 0 {
		t.Error("telemetry output is empty after shutdown")
	}
}
