package api

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/tally/internal/customer"
)

const (
	instrumentationName = "github.com/five82/tally/internal/api"

	metricLatencyMs = "tally.api.latency"
	metricCalls     = "tally.api.calls"

	attrMethod = attribute.Key("tally.api.method")
	attrStatus = attribute.Key("tally.api.status")
	attrCount  = attribute.Key("tally.api.ids")
)

const (
	methodList   = "list_customers"
	methodAdd    = "add_customer"
	methodUpdate = "update_customer"
	methodDelete = "delete_customers"
)

type instrumentConfig struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// InstrumentOption configures Instrument.
type InstrumentOption func(*instrumentConfig)

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(p metric.MeterProvider) InstrumentOption {
	return func(c *instrumentConfig) {
		if p != nil {
			c.meterProvider = p
		}
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(p trace.TracerProvider) InstrumentOption {
	return func(c *instrumentConfig) {
		if p != nil {
			c.tracerProvider = p
		}
	}
}

type instrumented struct {
	next    Service
	tracer  trace.Tracer
	latency metric.Float64Histogram
	calls   metric.Int64Counter
}

// Instrument decorates next with a client span per call plus latency and
// call-count metrics tagged by method and outcome.
func Instrument(next Service, opts ...InstrumentOption) (Service, error) {
	if next == nil {
		return nil, fmt.Errorf("api: nothing to instrument")
	}
	cfg := instrumentConfig{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	meter := cfg.meterProvider.Meter(instrumentationName)
	latency, err := meter.Float64Histogram(metricLatencyMs,
		metric.WithUnit("ms"),
		metric.WithDescription("The distribution of customer API call latencies in milliseconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("api: latency histogram: %w", err)
	}
	calls, err := meter.Int64Counter(metricCalls,
		metric.WithUnit("1"),
		metric.WithDescription("The number of customer API calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("api: calls counter: %w", err)
	}

	return &instrumented{
		next:    next,
		tracer:  cfg.tracerProvider.Tracer(instrumentationName),
		latency: latency,
		calls:   calls,
	}, nil
}

func (s *instrumented) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	var out []customer.Customer
	err := s.record(ctx, methodList, nil, func(ctx context.Context) error {
		var err error
		out, err = s.next.ListCustomers(ctx)
		return err
	})
	return out, err
}

func (s *instrumented) AddCustomer(ctx context.Context, in customer.Input) (customer.Customer, error) {
	var out customer.Customer
	err := s.record(ctx, methodAdd, nil, func(ctx context.Context) error {
		var err error
		out, err = s.next.AddCustomer(ctx, in)
		return err
	})
	return out, err
}

func (s *instrumented) UpdateCustomer(ctx context.Context, id string, in customer.Input) (customer.Customer, error) {
	var out customer.Customer
	err := s.record(ctx, methodUpdate, []attribute.KeyValue{attribute.String("tally.customer.id", id)}, func(ctx context.Context) error {
		var err error
		out, err = s.next.UpdateCustomer(ctx, id, in)
		return err
	})
	return out, err
}

func (s *instrumented) DeleteCustomers(ctx context.Context, ids []string) error {
	return s.record(ctx, methodDelete, []attribute.KeyValue{attrCount.Int(len(ids))}, func(ctx context.Context) error {
		return s.next.DeleteCustomers(ctx, ids)
	})
}

func (s *instrumented) record(ctx context.Context, method string, spanAttrs []attribute.KeyValue, call func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "customers."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append([]attribute.KeyValue{attrMethod.String(method)}, spanAttrs...)...),
	)
	defer span.End()

	start := time.Now()
	err := call(ctx)
	elapsedMs := float64(time.Since(start).Nanoseconds()) / 1e6

	status := "OK"
	if err != nil {
		status = "ERROR"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(attrMethod.String(method), attrStatus.String(status))
	s.latency.Record(ctx, elapsedMs, attrs)
	s.calls.Add(ctx, 1, attrs)
	return err
}
