package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"hostel-service/internal/crud"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes each change on <prefix>.<entity>.<op>.
type NATSPublisher struct {
	conn     *nats.Conn
	prefix   string
	logger   *slog.Logger
	recorder PublishRecorder
}

func NewNATSPublisher(url, prefix string, logger *slog.Logger, recorder PublishRecorder) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("hostel-service"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	logger.Info("NATS publisher initialized", "url", url, "prefix", prefix)

	return &NATSPublisher{
		conn:     nc,
		prefix:   prefix,
		logger:   logger,
		recorder: recorder,
	}, nil
}

// Subject returns the subject a change is published on.
func Subject(prefix string, change crud.Change) string {
	return fmt.Sprintf("%s.%s.%s", prefix, change.Entity, change.Op)
}

func (p *NATSPublisher) Publish(ctx context.Context, change crud.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	subject := Subject(p.prefix, change)
	start := time.Now()
	err = p.conn.Publish(subject, payload)
	p.recorder.RecordPublish(ctx, subject, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	p.logger.DebugContext(ctx, "change published to NATS", "subject", subject)
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
