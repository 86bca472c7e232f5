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

	"github.com/kbukum/jobreturn/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Environment    string        `mapstructure:"environment"`
	Endpoint       string        `mapstructure:"endpoint"`
	Insecure       bool          `mapstructure:"insecure"`
	Interval       time.Duration `mapstructure:"interval"`
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP meter provider as the global one.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded around returner sends.
type Metrics struct {
	sendTotal    metric.Int64Counter
	sendDuration metric.Float64Histogram
	sendActive   metric.Int64UpDownCounter
	errorTotal   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sendTotal, err := meter.Int64Counter("returner.send.total",
		metric.WithDescription("Results handed to a returner"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating returner.send.total counter: %w", err)
	}

	sendDuration, err := meter.Float64Histogram("returner.send.duration",
		metric.WithDescription("Duration of a returner send, connection included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating returner.send.duration histogram: %w", err)
	}

	sendActive, err := meter.Int64UpDownCounter("returner.send.active",
		metric.WithDescription("Sends currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating returner.send.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("returner.error.total",
		metric.WithDescription("Failed sends by returner and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating returner.error.total counter: %w", err)
	}

	return &Metrics{
		sendTotal:    sendTotal,
		sendDuration: sendDuration,
		sendActive:   sendActive,
		errorTotal:   errorTotal,
	}, nil
}

// RecordSendStart increments the in-flight count.
func (m *Metrics) RecordSendStart(ctx context.Context, returner string) {
	m.sendActive.Add(ctx, 1, metric.WithAttributes(attribute.String("returner", returner)))
}

// RecordSend decrements the in-flight count and records a finished send.
func (m *Metrics) RecordSend(ctx context.Context, returner, status string, duration time.Duration) {
	m.sendActive.Add(ctx, -1, metric.WithAttributes(attribute.String("returner", returner)))
	m.sendTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("returner", returner),
		attribute.String("status", status),
	))
	m.sendDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("returner", returner),
	))
}

// RecordError counts a failed send by error code.
func (m *Metrics) RecordError(ctx context.Context, returner, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("returner", returner),
		attribute.String("code", code),
	))
}
