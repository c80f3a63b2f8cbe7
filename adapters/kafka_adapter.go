package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaWriter is the subset of *kafka.Writer used by KafkaAdapter.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaAdapter writes every batch as one Kafka message keyed by session id.
type KafkaAdapter struct {
	writer kafkaWriter
}

// Ensure KafkaAdapter implements SinkAdapter interface
var _ SinkAdapter = (*KafkaAdapter)(nil)

// NewKafkaAdapter creates a writer for topic on the given brokers.
func NewKafkaAdapter(brokers []string, topic string) (*KafkaAdapter, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	return &KafkaAdapter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
	}, nil
}

// Send writes the batch. The endpoint argument is unused; the topic is fixed
// at construction.
func (k *KafkaAdapter) Send(ctx context.Context, endpoint string, batch *Batch, headers map[string]string) (*Response, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	msg := kafka.Message{
		Value: data,
		Time:  time.Now(),
	}
	if batch.Len() > 0 {
		msg.Key = []byte(batch.Events[0].Session.ID)
	}
	for key, value := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to write batch: %w", err)
	}
	return &Response{OK: true, Status: 200}, nil
}

// Close flushes and closes the writer.
func (k *KafkaAdapter) Close() error {
	return k.writer.Close()
}
