package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/iho/gowallet/internal/domain"
)

// Publisher writes transaction events to a Kafka topic. Messages are
// keyed by event ID so consumers can deduplicate redeliveries.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish writes the event as a JSON message.
func (p *Publisher) Publish(ctx context.Context, event *domain.TransactionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	})
}

// Close flushes buffered messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
