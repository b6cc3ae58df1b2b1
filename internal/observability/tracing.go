// Package observability configures OpenTelemetry tracing for the HTTP
// server and the database driver.
package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

// InitTracer installs the global tracer provider. With no exporter endpoint
// configured tracing stays disabled and the returned ShutdownFunc is a no-op.
func InitTracer(ctx context.Context, cfg config.Otel, env string) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if cfg.ExporterEndpoint == "" {
		slog.Info("Tracing disabled, no exporter endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.ExporterEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerRatio))),
	)
	otel.SetTracerProvider(provider)

	slog.Info("Tracing enabled", slog.String("endpoint", cfg.ExporterEndpoint), slog.Float64("samplerRatio", cfg.SamplerRatio))

	return provider.Shutdown, nil
}
