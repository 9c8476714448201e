package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// OrderEventPublisher encodes order events onto a message topic keyed by order id.
type OrderEventPublisher struct {
	port  domain.PublisherPort
	topic string
}

func NewOrderEventPublisher(port domain.PublisherPort, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{port: port, topic: topic}
}

func (p *OrderEventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	return p.port.Publish(ctx, p.topic, domain.Message{Key: []byte(event.OrderID), Value: v})
}
