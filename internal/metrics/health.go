package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HealthMetrics exposes dependency availability as seen by the readiness
// checks, plus a constant service.info gauge carrying build metadata.
type HealthMetrics struct {
	dependencyUp           metric.Int64ObservableGauge
	dependencyResponseTime metric.Float64Histogram
	serviceInfo            metric.Int64ObservableGauge

	mu           sync.Mutex
	dependencies map[string]bool
}

func NewHealthMetrics(meter metric.Meter) (*HealthMetrics, error) {
	hm := &HealthMetrics{dependencies: make(map[string]bool)}
	var err error

	if hm.dependencyUp, err = meter.Int64ObservableGauge(
		"dependency.up",
		metric.WithDescription("Dependency availability status (1=up, 0=down)"),
		metric.WithUnit("{status}"),
	); err != nil {
		return nil, err
	}
	if hm.dependencyResponseTime, err = meter.Float64Histogram(
		"dependency.response_time",
		metric.WithDescription("Dependency health check response time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if hm.serviceInfo, err = meter.Int64ObservableGauge(
		"service.info",
		metric.WithDescription("Service metadata information"),
		metric.WithUnit("{info}"),
	); err != nil {
		return nil, err
	}

	if _, err = meter.RegisterCallback(hm.observeDependencies, hm.dependencyUp); err != nil {
		return nil, err
	}
	return hm, nil
}

func (hm *HealthMetrics) RegisterServiceInfo(meter metric.Meter, serviceName, version, env string) error {
	attrs := metric.WithAttributes(
		attribute.String("service_name", serviceName),
		attribute.String("version", version),
		attribute.String("environment", env),
	)
	_, err := meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			o.ObserveInt64(hm.serviceInfo, 1, attrs)
			return nil
		},
		hm.serviceInfo,
	)
	return err
}

func (hm *HealthMetrics) RecordDependencyCheck(ctx context.Context, dependency string, duration time.Duration, err error) {
	if hm == nil {
		return
	}
	hm.mu.Lock()
	hm.dependencies[dependency] = err == nil
	hm.mu.Unlock()

	if hm.dependencyResponseTime != nil {
		hm.dependencyResponseTime.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String("dependency", dependency)))
	}
}

func (hm *HealthMetrics) observeDependencies(_ context.Context, o metric.Observer) error {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	for name, up := range hm.dependencies {
		var v int64
		if up {
			v = 1
		}
		o.ObserveInt64(hm.dependencyUp, v, metric.WithAttributes(attribute.String("dependency", name)))
	}
	return nil
}
