package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"gorm.io/gorm"
)

type GormTxManager struct {
	DB          *gorm.DB
	LockTimeout time.Duration
}

func NewGormTxManager(db *gorm.DB, lockTimeout time.Duration) *GormTxManager {
	return &GormTxManager{DB: db, LockTimeout: lockTimeout}
}

// NewRepositories binds every repository to db.
func NewRepositories(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Raffles:   NewDefaultRaffleRepository(db),
		Tickets:   NewDefaultTicketRepository(db),
		Orders:    NewDefaultOrderRepository(db),
		Payments:  NewDefaultPaymentRepository(db),
		Anomalies: NewDefaultAnomalyRepository(db),
	}
}

func (m *GormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock waits are bounded so contention surfaces as a transient error.
		if m.LockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.LockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(ctx, NewRepositories(tx))
	})
	return classify(err, nil)
}
