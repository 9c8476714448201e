package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaSubscriber struct {
	brokers []string
	logger  *slog.Logger
}

func NewDefaultKafkaSubscriber(brokers []string, logger *slog.Logger) *DefaultKafkaSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultKafkaSubscriber{brokers: brokers, logger: logger}
}

// Consume reads topic as part of groupID and commits each message after
// handle returns. Handler errors are logged; retrying is the handler's job.
// A message whose handler was cut short by ctx is not committed.
func (k *DefaultKafkaSubscriber) Consume(ctx context.Context, topic, groupID string, handle domain.MessageHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer reader.Close()

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("failed to fetch from %s: %w", topic, err)
		}

		if err := k.process(ctx, topic, reader, m, handle); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

type committer interface {
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// process runs handle for m and commits it, unless ctx ended while the
// handler ran: the offset then stays put and the message is redelivered.
func (k *DefaultKafkaSubscriber) process(ctx context.Context, topic string, c committer, m kafka.Message, handle domain.MessageHandler) error {
	if err := handle(ctx, domain.Message{Key: m.Key, Value: m.Value}); err != nil {
		k.logger.Error("message handler failed",
			"topic", topic,
			"partition", m.Partition,
			"offset", m.Offset,
			"error", err,
		)
	}
	if err := ctx.Err(); err != nil {
		k.logger.Warn("consumer stopping, offset left uncommitted",
			"topic", topic,
			"partition", m.Partition,
			"offset", m.Offset,
		)
		return err
	}

	if err := c.CommitMessages(context.WithoutCancel(ctx), m); err != nil {
		return fmt.Errorf("failed to commit offset %d on %s: %w", m.Offset, topic, err)
	}
	return nil
}
