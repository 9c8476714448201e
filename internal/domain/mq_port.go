package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

// MessageHandler processes one message. The message is committed after the
// handler returns, whatever the result.
type MessageHandler func(ctx context.Context, msg Message) error

type SubscriberPort interface {
	// Consume blocks until ctx is done or the underlying reader fails.
	Consume(ctx context.Context, topic, groupID string, handle MessageHandler) error
}
