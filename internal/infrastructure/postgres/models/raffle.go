package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type RaffleModel struct {
	ID             string              `gorm:"primaryKey;type:uuid"`
	Title          string              `gorm:"not null"`
	UnitPriceCents int64               `gorm:"not null"`
	TotalTickets   int                 `gorm:"not null"`
	Status         domain.RaffleStatus `gorm:"not null;index"`
	PublishedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (RaffleModel) TableName() string {
	return "raffles"
}
