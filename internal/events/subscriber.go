package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"hostel-service/internal/crud"

	"github.com/IBM/sarama"
	"github.com/nats-io/nats.go"
)

// HandlerFunc receives every decoded change.
type HandlerFunc func(ctx context.Context, change crud.Change) error

// Subscriber streams change events until its context ends.
type Subscriber interface {
	Start(ctx context.Context, handle HandlerFunc) error
	Close() error
}

func decodeChange(data []byte) (crud.Change, error) {
	var change crud.Change
	if err := json.Unmarshal(data, &change); err != nil {
		return crud.Change{}, fmt.Errorf("decode change: %w", err)
	}
	return change, nil
}

// NATSSubscriber listens on <prefix>.> for changes of every kind.
type NATSSubscriber struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	prefix string
	logger *slog.Logger
}

func NewNATSSubscriber(url, prefix string, logger *slog.Logger) (*NATSSubscriber, error) {
	nc, err := nats.Connect(url, nats.Name("hostelctl"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSSubscriber{conn: nc, prefix: prefix, logger: logger}, nil
}

func (s *NATSSubscriber) Start(ctx context.Context, handle HandlerFunc) error {
	sub, err := s.conn.Subscribe(s.prefix+".>", func(msg *nats.Msg) {
		change, err := decodeChange(msg.Data)
		if err != nil {
			s.logger.Error("failed to decode message", "subject", msg.Subject, "error", err)
			return
		}
		if err := handle(ctx, change); err != nil {
			s.logger.Error("failed to handle change", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.sub = sub
	s.logger.Info("NATS subscriber started", "subject", sub.Subject)

	<-ctx.Done()
	return ctx.Err()
}

func (s *NATSSubscriber) Close() error {
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	s.conn.Close()
	return nil
}

// KafkaSubscriber reads the change topic as a member of a consumer group.
type KafkaSubscriber struct {
	group  sarama.ConsumerGroup
	topic  string
	logger *slog.Logger
}

func NewKafkaSubscriber(brokers []string, topic, groupID string, logger *slog.Logger) (*KafkaSubscriber, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}
	return &KafkaSubscriber{group: group, topic: topic, logger: logger}, nil
}

func (s *KafkaSubscriber) Start(ctx context.Context, handle HandlerFunc) error {
	h := &claimHandler{handle: handle, logger: s.logger}
	for {
		if err := s.group.Consume(ctx, []string{s.topic}, h); err != nil {
			return fmt.Errorf("consume %s: %w", s.topic, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *KafkaSubscriber) Close() error {
	return s.group.Close()
}

// claimHandler implements sarama.ConsumerGroupHandler. Undecodable or
// failed messages are marked so they are not redelivered forever.
type claimHandler struct {
	handle HandlerFunc
	logger *slog.Logger
}

func (h *claimHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *claimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *claimHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		change, err := decodeChange(msg.Value)
		if err != nil {
			h.logger.Error("failed to decode message", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			session.MarkMessage(msg, "")
			continue
		}
		if err := h.handle(session.Context(), change); err != nil {
			h.logger.Error("failed to handle change", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
		session.MarkMessage(msg, "")
	}
	return nil
}
