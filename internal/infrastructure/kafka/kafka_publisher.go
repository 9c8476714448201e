package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// Publish writes msgs to topic. Messages sharing a key land on the same
// partition and keep their relative order.
func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	now := time.Now()
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}

	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("failed to write %d messages to %s: %w", len(km), topic, err)
	}
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
