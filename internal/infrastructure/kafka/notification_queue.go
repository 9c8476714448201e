package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// NotificationQueue hands payment notifications to the settlement worker.
// Keying by gateway payment id keeps updates for one payment in order.
type NotificationQueue struct {
	port  domain.PublisherPort
	topic string
}

func NewNotificationQueue(port domain.PublisherPort, topic string) *NotificationQueue {
	return &NotificationQueue{port: port, topic: topic}
}

func (q *NotificationQueue) Enqueue(ctx context.Context, notification domain.PaymentNotification) error {
	v, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal payment notification: %w", err)
	}
	return q.port.Publish(ctx, q.topic, domain.Message{Key: []byte(notification.GatewayPaymentID), Value: v})
}

// DecodeNotification is the inverse of Enqueue's encoding.
func DecodeNotification(msg domain.Message) (domain.PaymentNotification, error) {
	var notification domain.PaymentNotification
	if err := json.Unmarshal(msg.Value, &notification); err != nil {
		return notification, fmt.Errorf("failed to decode payment notification: %w", err)
	}
	return notification, nil
}
