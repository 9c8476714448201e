package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment mirrors a gateway-side payment bound to one order.
type Payment struct {
	GatewayPaymentID string
	OrderID          string
	Status           PaymentStatus
	AmountCents      int64
	SupersededAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Payment) IsActive() bool {
	return p.SupersededAt == nil
}
