package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type capturePort struct {
	topic string
	msgs  []domain.Message
}

func (c *capturePort) Publish(_ context.Context, topic string, msgs ...domain.Message) error {
	c.topic = topic
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestNotificationQueueRoundTrip(t *testing.T) {
	port := &capturePort{}
	in := domain.PaymentNotification{
		EventID:          "evt-1",
		GatewayPaymentID: "pay-1",
		RawStatus:        "approved",
		Metadata:         map[string]string{"order": "o-1"},
		ReceivedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := NewNotificationQueue(port, "payment-notifications").Enqueue(context.Background(), in); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if port.topic != "payment-notifications" || len(port.msgs) != 1 {
		t.Fatalf("published to %q: %d messages", port.topic, len(port.msgs))
	}
	if string(port.msgs[0].Key) != "pay-1" {
		t.Errorf("key = %q, want pay-1", port.msgs[0].Key)
	}

	out, err := DecodeNotification(port.msgs[0])
	if err != nil {
		t.Fatalf("DecodeNotification() error = %v", err)
	}
	if out.EventID != in.EventID || out.RawStatus != in.RawStatus || !out.ReceivedAt.Equal(in.ReceivedAt) || out.Metadata["order"] != "o-1" {
		t.Errorf("decoded = %+v, want %+v", out, in)
	}
}

func TestDecodeNotificationRejectsGarbage(t *testing.T) {
	if _, err := DecodeNotification(domain.Message{Value: []byte("{")}); err == nil {
		t.Fatal("DecodeNotification() error = nil for truncated JSON")
	}
}

func TestOrderEventPublisherKeysByOrder(t *testing.T) {
	port := &capturePort{}
	event := domain.OrderEvent{OrderID: "o-1", Status: domain.StatusPaid, Numbers: []int{1, 2}}

	if err := NewOrderEventPublisher(port, "order-events").PublishOrderEvent(context.Background(), event); err != nil {
		t.Fatalf("PublishOrderEvent() error = %v", err)
	}
	if len(port.msgs) != 1 || string(port.msgs[0].Key) != "o-1" {
		t.Fatalf("messages = %+v", port.msgs)
	}
	var decoded map[string]any
	if err := json.Unmarshal(port.msgs[0].Value, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["status"] != "paid" {
		t.Errorf("status = %v, want paid", decoded["status"])
	}
}
