package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/tally/internal/api"
	"github.com/five82/tally/internal/config"
	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/mockapi"
	"github.com/five82/tally/internal/prefs"
	"github.com/five82/tally/internal/state"
	"github.com/five82/tally/internal/table"
	"github.com/five82/tally/internal/telemetry"
	"github.com/five82/tally/internal/ui"
)

// Version is reported in telemetry resources.
var Version = "dev"

const telemetryShutdownTimeout = 5 * time.Second

// Options configure the tally runtime.
type Options struct {
	ConfigPath string
	PrefsPath  string
	PollEvery  int // seconds; zero keeps the configured refresh interval
	LatencyMS  int // negative keeps the configured latency
}

// runtime is everything Run wires together before the UI starts.
type runtime struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *mockapi.Store
	service   api.Service
	client    *state.Client
	customers *state.Query[[]customer.Customer]
	providers *telemetry.Providers
	closeLog  func() error
}

// Run bootstraps tally and blocks until the UI exits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	rt, err := setup(cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	userPrefs := prefs.Load(opts.PrefsPath)
	pageSize := userPrefs.RowsPerPage
	if !table.ValidPageSize(pageSize) {
		pageSize = cfg.PageSize
	}

	if cfg.RefreshInterval > 0 {
		StartRefresher(ctx, rt.customers, cfg.RefreshInterval, rt.logger)
	}

	rt.logger.Info("tally started",
		"latency", cfg.Latency,
		"page_size", pageSize,
		"refresh", cfg.RefreshInterval,
		"telemetry", cfg.Telemetry.Enabled,
	)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Service:   rt.service,
		Client:    rt.client,
		Customers: rt.customers,
		ThemeName: userPrefs.Theme,
		PageSize:  pageSize,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
	})
	if err != nil && ctx.Err() != nil {
		// Interrupted by a signal rather than a UI failure.
		err = nil
	}
	rt.logger.Info("tally stopped")
	return err
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.PollEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if opts.LatencyMS >= 0 {
		cfg.Latency = time.Duration(opts.LatencyMS) * time.Millisecond
	}
}

// setup builds the logger, mock backend, instrumented service and query
// client described by cfg.
func setup(cfg config.Config) (*runtime, error) {
	logger, closeLog, err := openLog(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, closeLog: closeLog}

	storeOpts := []mockapi.Option{mockapi.WithLatency(cfg.Latency)}
	if cfg.SeedFile != "" {
		records, err := mockapi.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("load seed: %w", err)
		}
		storeOpts = append(storeOpts, mockapi.WithRecords(records))
	}
	rt.store, err = mockapi.New(storeOpts...)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("start backend: %w", err)
	}
	local, err := api.NewLocal(rt.store)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("start service: %w", err)
	}

	rt.providers, err = telemetry.Setup(telemetry.Options{
		Enabled: cfg.Telemetry.Enabled,
		Output:  cfg.Telemetry.Output,
		Version: Version,
	})
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.service, err = api.Instrument(local,
		api.WithMeterProvider(rt.providers.MeterProvider),
		api.WithTracerProvider(rt.providers.TracerProvider),
	)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("instrument service: %w", err)
	}

	rt.client = state.NewClient(state.WithLogger(logger))
	rt.customers = state.Register(rt.client, state.CustomersKey, rt.service.ListCustomers)
	return rt, nil
}

// close flushes telemetry and closes the log file.
func (rt *runtime) close() {
	if rt.providers != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		if err := rt.providers.Shutdown(ctx); err != nil {
			rt.logger.Warn("telemetry shutdown failed", "err", err)
		}
		cancel()
	}
	if rt.closeLog != nil {
		_ = rt.closeLog()
	}
}

// openLog returns a text logger appending to path. An empty path discards
// all records. The logger also becomes the slog default so stray writes
// never reach the terminal while the UI owns it.
func openLog(path string, level slog.Level) (*slog.Logger, func() error, error) {
	if path == "" {
		logger := slog.New(slog.DiscardHandler)
		slog.SetDefault(logger)
		return logger, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, file.Close, nil
}
