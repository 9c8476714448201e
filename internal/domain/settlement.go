package domain

import (
	"strings"
	"time"
)

// PaymentNotification is a gateway status update normalized at the boundary.
type PaymentNotification struct {
	EventID          string            `json:"event_id"`
	GatewayPaymentID string            `json:"gateway_payment_id"`
	RawStatus        string            `json:"raw_status"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	ReceivedAt       time.Time         `json:"received_at"`
}

type SettlementOutcome string

const (
	OutcomeApproved     SettlementOutcome = "approved"
	OutcomeRejected     SettlementOutcome = "rejected"
	OutcomeCancelled    SettlementOutcome = "cancelled"
	OutcomeUnrecognized SettlementOutcome = "unrecognized"
)

// MapOutcome translates a raw gateway status into a settlement outcome.
func MapOutcome(rawStatus string) SettlementOutcome {
	switch strings.ToLower(strings.TrimSpace(rawStatus)) {
	case "approved":
		return OutcomeApproved
	case "rejected":
		return OutcomeRejected
	case "cancelled", "canceled":
		return OutcomeCancelled
	default:
		return OutcomeUnrecognized
	}
}

// PaymentStatus returns the payment record status mirrored for the outcome.
func (o SettlementOutcome) PaymentStatus() PaymentStatus {
	switch o {
	case OutcomeApproved:
		return PaymentApproved
	case OutcomeRejected:
		return PaymentRejected
	case OutcomeCancelled:
		return PaymentCancelled
	default:
		return PaymentPending
	}
}

// SettlementResult describes what Reconcile decided for one notification.
type SettlementResult string

const (
	ResultPaid           SettlementResult = "paid"
	ResultReleased       SettlementResult = "released"
	ResultNoop           SettlementResult = "noop"
	ResultAnomaly        SettlementResult = "anomaly"
	ResultUnknownPayment SettlementResult = "unknown_payment"
	ResultUnrecognized   SettlementResult = "unrecognized"
)

type AnomalyKind string

const (
	// Gateway approved a payment for an order that had already expired.
	AnomalyApprovedAfterExpiry AnomalyKind = "approved_after_expiry"
	// Gateway rejected or cancelled a payment for an order that is already paid.
	AnomalyReversalAfterPaid AnomalyKind = "reversal_after_paid"
)

// SettlementAnomaly is a conflict between the gateway and local state that
// needs a human decision. It never changes order or ticket state.
type SettlementAnomaly struct {
	ID               string
	Kind             AnomalyKind
	GatewayPaymentID string
	OrderID          string
	OrderStatus      OrderStatus
	RawStatus        string
	EventID          string
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}

// SettlementFailure is a notification that exhausted its retry budget.
type SettlementFailure struct {
	ID               string
	EventID          string
	GatewayPaymentID string
	RawStatus        string
	Payload          []byte
	Attempts         int
	LastError        string
	CreatedAt        time.Time
}
