package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAnomalyRepository struct {
	DB *gorm.DB
}

func NewDefaultAnomalyRepository(db *gorm.DB) *DefaultAnomalyRepository {
	return &DefaultAnomalyRepository{DB: db}
}

func (r *DefaultAnomalyRepository) RecordAnomaly(ctx context.Context, anomaly *domain.SettlementAnomaly) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gateway_payment_id"}, {Name: "kind"}},
			DoNothing: true,
		}).
		Create(mappers.ToGORMAnomaly(anomaly))
	if res.Error != nil {
		return false, fmt.Errorf("failed to record anomaly: %w", classify(res.Error, nil))
	}
	return res.RowsAffected == 1, nil
}

func (r *DefaultAnomalyRepository) ListAnomalies(ctx context.Context, unresolvedOnly bool, limit int) ([]*domain.SettlementAnomaly, error) {
	query := r.DB.WithContext(ctx).Order("created_at DESC")
	if unresolvedOnly {
		query = query.Where("resolved_at IS NULL")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.SettlementAnomalyModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list anomalies: %w", classify(err, nil))
	}

	anomalies := make([]*domain.SettlementAnomaly, 0, len(rows))
	for i := range rows {
		anomalies = append(anomalies, mappers.ToDomainAnomaly(&rows[i]))
	}
	return anomalies, nil
}
