package domain

import (
	"context"
	"time"
)

// OrderEvent is published after an order lifecycle change has committed.
type OrderEvent struct {
	OrderID    string      `json:"order_id"`
	Reference  string      `json:"reference"`
	RaffleID   string      `json:"raffle_id"`
	Status     OrderStatus `json:"status"`
	Numbers    []int       `json:"numbers"`
	TotalCents int64       `json:"total_cents"`
	Reason     string      `json:"reason,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

type AnomalyNotifier interface {
	NotifyAnomaly(ctx context.Context, anomaly *SettlementAnomaly) error
}

// NotificationDeduplicator remembers delivered gateway event ids.
type NotificationDeduplicator interface {
	// FirstDelivery returns false when eventID was already seen.
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
	// Forget drops eventID so a redelivery is processed again.
	Forget(ctx context.Context, eventID string) error
}

// NotificationQueue hands verified notifications to the settlement worker.
type NotificationQueue interface {
	Enqueue(ctx context.Context, notification PaymentNotification) error
}
