package notifier

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type AnomalyPayload struct {
	AnomalyID        string    `json:"anomaly_id"`
	Kind             string    `json:"kind"`
	OrderID          string    `json:"order_id"`
	OrderStatus      string    `json:"order_status"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	RawStatus        string    `json:"raw_status"`
	EventID          string    `json:"event_id"`
	DetectedAt       time.Time `json:"detected_at"`
}

func NewAnomalyPayload(anomaly *domain.SettlementAnomaly) AnomalyPayload {
	return AnomalyPayload{
		AnomalyID:        anomaly.ID,
		Kind:             string(anomaly.Kind),
		OrderID:          anomaly.OrderID,
		OrderStatus:      string(anomaly.OrderStatus),
		GatewayPaymentID: anomaly.GatewayPaymentID,
		RawStatus:        anomaly.RawStatus,
		EventID:          anomaly.EventID,
		DetectedAt:       anomaly.CreatedAt,
	}
}

// Text renders the anomaly for a human reader.
func (p AnomalyPayload) Text() string {
	return fmt.Sprintf(
		"Settlement anomaly: %s\nOrder: %s (%s)\nPayment: %s, gateway status %q\nEvent: %s\nDetected: %s",
		p.Kind, p.OrderID, p.OrderStatus, p.GatewayPaymentID, p.RawStatus, p.EventID,
		p.DetectedAt.Format(time.RFC3339),
	)
}
