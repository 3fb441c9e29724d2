// Package telemetry sets up the OpenTelemetry meter provider.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const exportInterval = 10 * time.Second

// InitMeterProvider registers a global meter provider. Metrics are pushed
// over OTLP/gRPC when endpoint is set; otherwise they are only kept in
// process and never exported.
func InitMeterProvider(ctx context.Context, endpoint, serviceName, serviceVersion string, logger *slog.Logger) (*metric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []metric.Option{metric.WithResource(res)}
	if endpoint != "" {
		logger.Info("initializing OTel metrics", "endpoint", endpoint)
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(
			metric.NewPeriodicReader(exporter, metric.WithInterval(exportInterval)),
		))
	} else {
		logger.Info("no OTLP endpoint configured, metrics are not exported")
	}

	provider := metric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)
	return provider, nil
}

func Shutdown(ctx context.Context, provider *metric.MeterProvider, logger *slog.Logger) error {
	if provider == nil {
		return nil
	}
	logger.Info("shutting down OTel meter provider")
	if err := provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
