package repository

import (
	"context"

	"AlphaLabs/internal/domain/models"
	pkgkafka "AlphaLabs/pkg/kafka"
	applogger "AlphaLabs/pkg/logger"
)

// KafkaRetainedPublisher implements Publisher over a Kafka topic. Events are
// keyed by id, so downstream consumers see a stable partition per item.
type KafkaRetainedPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

// NewKafkaRetainedPublisher creates a publisher for newly retained events.
func NewKafkaRetainedPublisher(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaRetainedPublisher {
	return &KafkaRetainedPublisher{producer: producer, topic: topic, l: l}
}

// Publish sends one event.
func (p *KafkaRetainedPublisher) Publish(ctx context.Context, e models.Event) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.ID), e)
}

// PublishBatch sends a batch of events.
func (p *KafkaRetainedPublisher) PublishBatch(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(e.ID), Value: e})
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		return err
	}
	if p.l != nil {
		p.l.Debug("retained events published",
			applogger.String("topic", p.topic),
			applogger.Int("count", len(msgs)),
		)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaRetainedPublisher) Close() error {
	return p.producer.Close()
}
