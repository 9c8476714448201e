package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultRaffleRepository struct {
	DB *gorm.DB
}

func NewDefaultRaffleRepository(db *gorm.DB) *DefaultRaffleRepository {
	return &DefaultRaffleRepository{DB: db}
}

func (r *DefaultRaffleRepository) CreateRaffle(ctx context.Context, raffle *domain.Raffle) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMRaffle(raffle)).Error; err != nil {
		return fmt.Errorf("failed to create raffle: %w", classify(err, nil))
	}
	return nil
}

func (r *DefaultRaffleRepository) GetRaffleByID(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	var raffle models.RaffleModel
	if err := r.DB.WithContext(ctx).First(&raffle, "id = ?", raffleID).Error; err != nil {
		return nil, classify(err, domain.ErrRaffleNotFound)
	}
	return mappers.ToDomainRaffle(&raffle), nil
}

func (r *DefaultRaffleRepository) LockRaffleByID(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	var raffle models.RaffleModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&raffle, "id = ?", raffleID).Error; err != nil {
		return nil, classify(err, domain.ErrRaffleNotFound)
	}
	return mappers.ToDomainRaffle(&raffle), nil
}

func (r *DefaultRaffleRepository) UpdateRaffleStatus(ctx context.Context, raffleID string, from, to domain.RaffleStatus, at time.Time) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: raffle %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	updates := map[string]any{"status": to, "updated_at": at}
	if to == domain.RafflePublished {
		updates["published_at"] = at
	}

	res := r.DB.WithContext(ctx).Model(&models.RaffleModel{}).
		Where("id = ? AND status = ?", raffleID, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update raffle status: %w", classify(res.Error, nil))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: raffle %s is not %s", domain.ErrInvalidTransition, raffleID, from)
	}
	return nil
}
