package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/speakeralign/logger"
)

// InitMeter installs a periodic OTLP/HTTP meter provider as the global one.
func InitMeter(ctx context.Context, cfg Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricsInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricsInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", res.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricsInterval.String(),
	))
	return mp, nil
}

// Meter returns the module's meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the speech pipeline instruments.
type Metrics struct {
	runs          metric.Int64Counter
	runDuration   metric.Float64Histogram
	stageDuration metric.Float64Histogram
	errors        metric.Int64Counter
	segments      metric.Int64Histogram
}

// NewMetrics creates the pipeline instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runs, err := meter.Int64Counter("speech.runs",
		metric.WithDescription("Pipeline runs by operation and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.runs counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("speech.run.duration",
		metric.WithDescription("End-to-end pipeline duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.run.duration histogram: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("speech.stage.duration",
		metric.WithDescription("Duration of a single pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.stage.duration histogram: %w", err)
	}

	errs, err := meter.Int64Counter("speech.errors",
		metric.WithDescription("Stage failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.errors counter: %w", err)
	}

	segments, err := meter.Int64Histogram("speech.segments",
		metric.WithDescription("Speaker segments produced per aligned transcript"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.segments histogram: %w", err)
	}

	return &Metrics{
		runs:          runs,
		runDuration:   runDuration,
		stageDuration: stageDuration,
		errors:        errs,
		segments:      segments,
	}, nil
}

// RecordRun records a finished pipeline operation.
func (m *Metrics) RecordRun(ctx context.Context, operation, status string, d time.Duration) {
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.runDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordStage records the duration of one stage.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// RecordError counts a stage failure.
func (m *Metrics) RecordError(ctx context.Context, stage, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("code", code),
	))
}

// RecordSegments records how many segments an alignment produced.
func (m *Metrics) RecordSegments(ctx context.Context, n int) {
	m.segments.Record(ctx, int64(n))
}
