package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type TicketModel struct {
	ID        uint64              `gorm:"primaryKey;autoIncrement"`
	RaffleID  string              `gorm:"type:uuid;not null;uniqueIndex:idx_tickets_raffle_number,priority:1;index:idx_tickets_status_raffle,priority:2"`
	Number    int                 `gorm:"not null;uniqueIndex:idx_tickets_raffle_number,priority:2"`
	Status    domain.TicketStatus `gorm:"not null;default:available;index:idx_tickets_status_raffle,priority:1"`
	OrderID   *string             `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TicketModel) TableName() string {
	return "tickets"
}
