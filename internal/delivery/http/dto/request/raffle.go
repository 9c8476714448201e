package request

type CreateRaffleRequest struct {
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalTickets   int    `json:"total_tickets"`
}
