package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSettlementFailureRepository struct {
	DB *gorm.DB
}

func NewDefaultSettlementFailureRepository(db *gorm.DB) *DefaultSettlementFailureRepository {
	return &DefaultSettlementFailureRepository{DB: db}
}

func (r *DefaultSettlementFailureRepository) RecordFailure(ctx context.Context, failure *domain.SettlementFailure) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMFailure(failure)).Error; err != nil {
		return fmt.Errorf("failed to record settlement failure: %w", classify(err, nil))
	}
	return nil
}

func (r *DefaultSettlementFailureRepository) GetFailure(ctx context.Context, failureID string) (*domain.SettlementFailure, error) {
	var failure models.SettlementFailureModel
	if err := r.DB.WithContext(ctx).First(&failure, "id = ?", failureID).Error; err != nil {
		return nil, classify(err, domain.ErrFailureNotFound)
	}
	return mappers.ToDomainFailure(&failure), nil
}
