package domain

import "time"

type OrderStatus string

const (
	StatusReserved OrderStatus = "reserved"
	StatusPaid     OrderStatus = "paid"
	StatusExpired  OrderStatus = "expired"
)

// Reasons recorded on an order that left the reserved state without payment.
const (
	ExpireReasonTimeout         = "timeout"
	ExpireReasonPaymentRejected = "payment_rejected"
	ExpireReasonCanceled        = "canceled"
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Order struct {
	ID           string
	Reference    string
	RaffleID     string
	Customer     Customer
	TotalCents   int64
	Status       OrderStatus
	ExpiresAt    time.Time
	PaidAt       *time.Time
	ExpiredAt    *time.Time
	ExpireReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Numbers is filled by queries that join the order's tickets.
	Numbers []int
}

// IsOverdue reports whether a reserved order has reached its deadline at now.
func (o *Order) IsOverdue(now time.Time) bool {
	return o.Status == StatusReserved && !o.ExpiresAt.After(now)
}
