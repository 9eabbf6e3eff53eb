// Package telemetry builds the OpenTelemetry meter and tracer providers used
// to instrument the customer data access layer.
//
// When disabled the providers are no-ops. When enabled both exporters write
// JSON lines to a file, since the terminal belongs to the UI.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName            = "tally"
	defaultMetricsInterval = 30 * time.Second
)

// Options configure Setup.
type Options struct {
	Enabled bool
	// Output is the file both exporters append to.
	Output string
	// Interval is the metric export period; zero uses 30s.
	Interval time.Duration
	// Version is reported as service.version.
	Version string
}

// Providers holds the configured providers. Shutdown flushes and releases
// them; it is safe to call on a disabled instance.
type Providers struct {
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider

	shutdown []func(context.Context) error
}

// Setup creates providers according to opts.
func Setup(opts Options) (*Providers, error) {
	if !opts.Enabled {
		return &Providers{
			MeterProvider:  metricnoop.NewMeterProvider(),
			TracerProvider: tracenoop.NewTracerProvider(),
		}, nil
	}
	if opts.Output == "" {
		return nil, fmt.Errorf("telemetry: output path required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: create output dir: %w", err)
	}
	file, err := os.OpenFile(opts.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open output: %w", err)
	}

	p, err := newProviders(file, opts)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	p.shutdown = append(p.shutdown, func(context.Context) error { return file.Close() })
	return p, nil
}

func newProviders(w io.Writer, opts Options) (*Providers, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", opts.Version),
	)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("telemetry: metric exporter: %w", err)
	}
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("telemetry: trace exporter: %w", err)
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval))),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
	)

	return &Providers{
		MeterProvider:  mp,
		TracerProvider: tp,
		// Traces first so spans ended during metric shutdown are not lost.
		shutdown: []func(context.Context) error{tp.Shutdown, mp.Shutdown},
	}, nil
}

// Shutdown flushes pending telemetry and closes the output file.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, fn := range p.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdown = nil
	return errors.Join(errs...)
}
