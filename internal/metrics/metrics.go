// Package metrics defines the OpenTelemetry instruments of the hostel
// service. Every recorder is nil-safe so tests can pass NewMock().
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// latencyBuckets covers 1ms..10s and is shared by the duration histograms.
var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type Metrics struct {
	Runtime  *RuntimeMetrics
	Database *DatabaseMetrics
	Events   *EventMetrics
	Health   *HealthMetrics
	Hostel   *HostelMetrics
}

func New(ctx context.Context, meter metric.Meter, logger *slog.Logger) (*Metrics, error) {
	runtime, err := NewRuntimeMetrics(ctx, meter)
	if err != nil {
		return nil, err
	}
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}
	events, err := NewEventMetrics(meter)
	if err != nil {
		return nil, err
	}
	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}
	hostel, err := NewHostelMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized")

	return &Metrics{
		Runtime:  runtime,
		Database: database,
		Events:   events,
		Health:   health,
		Hostel:   hostel,
	}, nil
}

// NewMock returns instruments that ignore every Record call.
func NewMock() *Metrics {
	return &Metrics{
		Runtime:  &RuntimeMetrics{},
		Database: &DatabaseMetrics{},
		Events:   &EventMetrics{},
		Health:   &HealthMetrics{dependencies: map[string]bool{}},
		Hostel:   &HostelMetrics{},
	}
}
