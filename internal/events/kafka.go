package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"hostel-service/internal/crud"

	"github.com/IBM/sarama"
)

// KafkaPublisher writes every change to one topic keyed by record id, so
// the changes of a record stay ordered within its partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	recorder PublishRecorder
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger, recorder PublishRecorder) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	logger.Info("kafka publisher initialized", "brokers", brokers, "topic", topic)
	return NewKafkaPublisherWithProducer(producer, topic, logger, recorder), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger, recorder PublishRecorder) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
		recorder: recorder,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, change crud.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(change.ID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("entity"), Value: []byte(change.Entity)},
			{Key: []byte("op"), Value: []byte(change.Op)},
		},
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	p.recorder.RecordPublish(ctx, p.topic, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("send to kafka topic %s: %w", p.topic, err)
	}

	p.logger.DebugContext(ctx, "change published to kafka",
		"topic", p.topic, "partition", partition, "offset", offset, "key", change.ID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
