package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the runtime settings for tally.
type Config struct {
	Latency         time.Duration
	PageSize        int
	RefreshInterval time.Duration // zero disables background refresh
	SeedFile        string        // empty uses the embedded dataset
	LogFile         string
	LogLevel        slog.Level
	Telemetry       Telemetry
}

// Telemetry controls OpenTelemetry export.
type Telemetry struct {
	Enabled bool
	Output  string
}

const (
	envPrefix = "tally"

	defaultConfigPath      = "~/.config/tally/config.toml"
	defaultLogFile         = "~/.local/state/tally/tally.log"
	defaultTelemetryOutput = "~/.local/state/tally/telemetry.jsonl"
	defaultLatency         = 300 * time.Millisecond
	defaultPageSize        = 10
)

// fileConfig mirrors config.toml. Environment variables with the TALLY_
// prefix override whatever the file sets.
type fileConfig struct {
	LatencyMS      *int          `toml:"latency_ms" split_words:"true"`
	PageSize       int           `toml:"page_size" split_words:"true"`
	RefreshSeconds int           `toml:"refresh_seconds" split_words:"true"`
	SeedFile       string        `toml:"seed_file" split_words:"true"`
	LogFile        string        `toml:"log_file" split_words:"true"`
	LogLevel       string        `toml:"log_level" split_words:"true"`
	Telemetry      fileTelemetry `toml:"telemetry" split_words:"true"`
}

type fileTelemetry struct {
	Enabled bool   `toml:"enabled" split_words:"true"`
	Output  string `toml:"output" split_words:"true"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Latency:   defaultLatency,
		PageSize:  defaultPageSize,
		LogFile:   mustExpand(defaultLogFile),
		LogLevel:  slog.LevelInfo,
		Telemetry: Telemetry{Output: mustExpand(defaultTelemetryOutput)},
	}
}

// Load reads the config file at path (or the default location), applies
// TALLY_* environment overrides and fills in defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	if err := readFile(resolved, &raw); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process(envPrefix, &raw); err != nil {
		return Config{}, fmt.Errorf("env overrides: %w", err)
	}
	return raw.resolve()
}

func readFile(path string, raw *fileConfig) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (raw fileConfig) resolve() (Config, error) {
	cfg := Default()

	if raw.LatencyMS != nil {
		if *raw.LatencyMS < 0 {
			return Config{}, fmt.Errorf("parse config: latency_ms must be >= 0, got %d", *raw.LatencyMS)
		}
		cfg.Latency = time.Duration(*raw.LatencyMS) * time.Millisecond
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.RefreshSeconds < 0 {
		return Config{}, fmt.Errorf("parse config: refresh_seconds must be >= 0, got %d", raw.RefreshSeconds)
	}
	cfg.RefreshInterval = time.Duration(raw.RefreshSeconds) * time.Second

	if seed := strings.TrimSpace(raw.SeedFile); seed != "" {
		cfg.SeedFile = mustExpand(seed)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
	}

	cfg.Telemetry.Enabled = raw.Telemetry.Enabled
	if out := strings.TrimSpace(raw.Telemetry.Output); out != "" {
		cfg.Telemetry.Output = mustExpand(out)
	}
	return cfg, nil
}

// LogDir returns the directory holding the application log.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
