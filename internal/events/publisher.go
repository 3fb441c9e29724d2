// Package events publishes a JSON message for every successful record
// mutation, on NATS or Kafka.
package events

import (
	"context"
	"log/slog"
	"time"

	"hostel-service/internal/crud"
)

// Publisher sends change events to a broker.
type Publisher interface {
	Publish(ctx context.Context, change crud.Change) error
	Close() error
}

// PublishRecorder receives the outcome of every publish.
type PublishRecorder interface {
	RecordPublish(ctx context.Context, destination string, duration time.Duration, err error)
}

// Observer forwards store changes to pub. Publish failures are logged and
// never fail the mutation that caused them.
func Observer(pub Publisher, logger *slog.Logger) crud.Observer {
	return crud.ObserverFunc(func(ctx context.Context, change crud.Change) {
		if err := pub.Publish(ctx, change); err != nil {
			logger.ErrorContext(ctx, "failed to publish change",
				"entity", change.Entity,
				"op", change.Op,
				"id", change.ID,
				"error", err,
			)
		}
	})
}
