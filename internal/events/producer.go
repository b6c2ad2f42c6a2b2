package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher publishes booking lifecycle events. Implemented by Producer; a
// no-op implementation is used when Kafka is not configured.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

// Producer writes enveloped events to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
	source string
	logger *zap.Logger
}

// NewProducer creates a Kafka producer for the given topic.
func NewProducer(brokers []string, topic, source string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: writer, source: source, logger: logger}
}

// Publish wraps data in an Envelope and writes it keyed by key, so all events
// of one booking group land on the same partition in order.
func (p *Producer) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	envelope, err := NewEnvelope(eventType, p.source, data)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("event published",
		zap.String("type", eventType),
		zap.String("key", key),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }
