package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EventMetrics covers change events sent to NATS or Kafka.
type EventMetrics struct {
	published       metric.Int64Counter
	publishDuration metric.Float64Histogram
	publishErrors   metric.Int64Counter
}

func NewEventMetrics(meter metric.Meter) (*EventMetrics, error) {
	em := &EventMetrics{}
	var err error

	if em.published, err = meter.Int64Counter(
		"messaging.messages.published",
		metric.WithDescription("Total number of change events published"),
		metric.WithUnit("{message}"),
	); err != nil {
		return nil, err
	}
	if em.publishDuration, err = meter.Float64Histogram(
		"messaging.message.publish_duration",
		metric.WithDescription("Time spent publishing a change event"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if em.publishErrors, err = meter.Int64Counter(
		"messaging.message.errors",
		metric.WithDescription("Total number of failed publishes"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	return em, nil
}

func (em *EventMetrics) RecordPublish(ctx context.Context, destination string, duration time.Duration, err error) {
	if em == nil || em.published == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("destination", destination))
	em.published.Add(ctx, 1, attrs)
	em.publishDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		em.publishErrors.Add(ctx, 1, attrs)
	}
}
