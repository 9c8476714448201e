package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// PaymentModel is keyed by the gateway's payment id. orders(id) is referenced
// through a foreign key created by the SQL migrations.
type PaymentModel struct {
	GatewayPaymentID string               `gorm:"primaryKey;size:64"`
	OrderID          string               `gorm:"type:uuid;not null;index"`
	Status           domain.PaymentStatus `gorm:"not null"`
	AmountCents      int64
	SupersededAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
