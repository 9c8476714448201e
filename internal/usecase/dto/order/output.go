package orderdto

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type OrderOutput struct {
	ID           string
	Reference    string
	RaffleID     string
	Status       domain.OrderStatus
	Numbers      []int
	TotalCents   int64
	ExpiresAt    time.Time
	PaidAt       *time.Time
	ExpiredAt    *time.Time
	ExpireReason string
	CreatedAt    time.Time
}

type PaymentOutput struct {
	GatewayPaymentID string
	OrderID          string
	Status           domain.PaymentStatus
	AmountCents      int64
	CreatedAt        time.Time
}

func ToOrderOutput(order *domain.Order) *OrderOutput {
	return &OrderOutput{
		ID:           order.ID,
		Reference:    order.Reference,
		RaffleID:     order.RaffleID,
		Status:       order.Status,
		Numbers:      order.Numbers,
		TotalCents:   order.TotalCents,
		ExpiresAt:    order.ExpiresAt,
		PaidAt:       order.PaidAt,
		ExpiredAt:    order.ExpiredAt,
		ExpireReason: order.ExpireReason,
		CreatedAt:    order.CreatedAt,
	}
}

func ToPaymentOutput(payment *domain.Payment) *PaymentOutput {
	return &PaymentOutput{
		GatewayPaymentID: payment.GatewayPaymentID,
		OrderID:          payment.OrderID,
		Status:           payment.Status,
		AmountCents:      payment.AmountCents,
		CreatedAt:        payment.CreatedAt,
	}
}
