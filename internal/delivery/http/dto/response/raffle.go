package response

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type RaffleResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	TotalTickets   int        `json:"total_tickets"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewRaffleResponse(r *domain.Raffle) RaffleResponse {
	return RaffleResponse{
		ID:             r.ID,
		Title:          r.Title,
		UnitPriceCents: r.UnitPriceCents,
		TotalTickets:   r.TotalTickets,
		Status:         string(r.Status),
		PublishedAt:    r.PublishedAt,
		CreatedAt:      r.CreatedAt,
	}
}

type AvailabilityResponse struct {
	RaffleID  string `json:"raffle_id"`
	Total     int    `json:"total"`
	Available int    `json:"available"`
	Reserved  int    `json:"reserved"`
	Paid      int    `json:"paid"`
	Drawn     int    `json:"drawn"`
}

func NewAvailabilityResponse(a *domain.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		RaffleID:  a.RaffleID,
		Total:     a.Total,
		Available: a.Available,
		Reserved:  a.Reserved,
		Paid:      a.Paid,
		Drawn:     a.Drawn,
	}
}

type AnomalyResponse struct {
	ID               string     `json:"id"`
	Kind             string     `json:"kind"`
	GatewayPaymentID string     `json:"gateway_payment_id"`
	OrderID          string     `json:"order_id"`
	OrderStatus      string     `json:"order_status"`
	RawStatus        string     `json:"raw_status"`
	EventID          string     `json:"event_id"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

func NewAnomalyResponse(a *domain.SettlementAnomaly) AnomalyResponse {
	return AnomalyResponse{
		ID:               a.ID,
		Kind:             string(a.Kind),
		GatewayPaymentID: a.GatewayPaymentID,
		OrderID:          a.OrderID,
		OrderStatus:      string(a.OrderStatus),
		RawStatus:        a.RawStatus,
		EventID:          a.EventID,
		CreatedAt:        a.CreatedAt,
		ResolvedAt:       a.ResolvedAt,
	}
}
