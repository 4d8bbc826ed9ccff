// Package otel wires OpenTelemetry tracing for the roulette binaries.
package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config selects whether and where spans are exported.
type Config struct {
	// Endpoint is the OTLP/HTTP collector URL. Empty disables export.
	Endpoint string `env:"BUCKSHOT_OTEL_ENDPOINT"`
	// Enabled switches tracing off even when an endpoint is set.
	Enabled bool `env:"BUCKSHOT_OTEL_ENABLED" envDefault:"true"`
	// SampleRatio is the fraction of root traces kept, in [0, 1].
	SampleRatio float64 `env:"BUCKSHOT_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether Setup will install a real provider.
func (c Config) Active() bool {
	return c.Enabled && strings.TrimSpace(c.Endpoint) != ""
}

// Setup installs a global tracer provider for serviceName.
//
// Tracing is opt-in: with no endpoint, or with Enabled false, Setup returns a
// no-op shutdown and leaves the global provider untouched. The returned
// shutdown flushes pending spans and should be deferred by the caller.
func Setup(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Active() {
		return noop, nil
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return noop, fmt.Errorf("otel sample ratio %v outside [0, 1]", cfg.SampleRatio)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)),
	)
	if err != nil {
		return noop, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("build otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a tracer from the global provider. Before Setup runs, or
// when tracing is off, spans are no-ops.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
