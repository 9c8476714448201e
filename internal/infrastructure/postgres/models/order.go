package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type OrderModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	Reference     string `gorm:"not null;uniqueIndex;size:32"`
	RaffleID      string `gorm:"type:uuid;not null;index"`
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	TotalCents    int64              `gorm:"not null"`
	Status        domain.OrderStatus `gorm:"not null;index:idx_orders_status_expires,priority:1"`
	ExpiresAt     time.Time          `gorm:"not null;index:idx_orders_status_expires,priority:2"`
	PaidAt        *time.Time
	ExpiredAt     *time.Time
	ExpireReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
