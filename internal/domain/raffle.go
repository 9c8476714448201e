package domain

import "time"

type RaffleStatus string

const (
	RaffleDraft     RaffleStatus = "draft"
	RafflePublished RaffleStatus = "published"
	RaffleFinished  RaffleStatus = "finished"
	RaffleCanceled  RaffleStatus = "canceled"
)

type Raffle struct {
	ID             string
	Title          string
	UnitPriceCents int64
	TotalTickets   int
	Status         RaffleStatus
	PublishedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasNumber reports whether number is one of the raffle's ticket slots.
func (r *Raffle) HasNumber(number int) bool {
	return number >= 1 && number <= r.TotalTickets
}

// Availability is a per-status count of a raffle's tickets.
type Availability struct {
	RaffleID  string
	Total     int
	Available int
	Reserved  int
	Paid      int
	Drawn     int
}
