package response

import (
	"time"

	orderdto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/order"
)

type OrderResponse struct {
	ID           string     `json:"id"`
	Reference    string     `json:"reference"`
	RaffleID     string     `json:"raffle_id"`
	Status       string     `json:"status"`
	Numbers      []int      `json:"numbers"`
	TotalCents   int64      `json:"total_cents"`
	ExpiresAt    time.Time  `json:"expires_at"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	ExpiredAt    *time.Time `json:"expired_at,omitempty"`
	ExpireReason string     `json:"expire_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewOrderResponse(o *orderdto.OrderOutput) OrderResponse {
	numbers := o.Numbers
	if numbers == nil {
		numbers = []int{}
	}
	return OrderResponse{
		ID:           o.ID,
		Reference:    o.Reference,
		RaffleID:     o.RaffleID,
		Status:       string(o.Status),
		Numbers:      numbers,
		TotalCents:   o.TotalCents,
		ExpiresAt:    o.ExpiresAt,
		PaidAt:       o.PaidAt,
		ExpiredAt:    o.ExpiredAt,
		ExpireReason: o.ExpireReason,
		CreatedAt:    o.CreatedAt,
	}
}

type PaymentResponse struct {
	GatewayPaymentID string    `json:"gateway_payment_id"`
	OrderID          string    `json:"order_id"`
	Status           string    `json:"status"`
	AmountCents      int64     `json:"amount_cents"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewPaymentResponse(p *orderdto.PaymentOutput) PaymentResponse {
	return PaymentResponse{
		GatewayPaymentID: p.GatewayPaymentID,
		OrderID:          p.OrderID,
		Status:           string(p.Status),
		AmountCents:      p.AmountCents,
		CreatedAt:        p.CreatedAt,
	}
}
