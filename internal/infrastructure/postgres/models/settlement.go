package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type SettlementAnomalyModel struct {
	ID               string             `gorm:"primaryKey;type:uuid"`
	Kind             domain.AnomalyKind `gorm:"not null;uniqueIndex:idx_anomalies_payment_kind,priority:2"`
	GatewayPaymentID string             `gorm:"not null;size:64;uniqueIndex:idx_anomalies_payment_kind,priority:1"`
	OrderID          string             `gorm:"type:uuid;not null;index"`
	OrderStatus      domain.OrderStatus `gorm:"not null"`
	RawStatus        string
	EventID          string
	CreatedAt        time.Time `gorm:"index"`
	ResolvedAt       *time.Time
}

func (SettlementAnomalyModel) TableName() string {
	return "settlement_anomalies"
}

// SettlementFailureModel keeps a notification that ran out of retries so an
// operator can replay it.
type SettlementFailureModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	EventID          string `gorm:"index"`
	GatewayPaymentID string `gorm:"index;size:64"`
	RawStatus        string
	Payload          string `gorm:"type:jsonb"`
	Attempts         int
	LastError        string
	CreatedAt        time.Time
}

func (SettlementFailureModel) TableName() string {
	return "settlement_failures"
}
