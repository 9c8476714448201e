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

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMOrder(order)).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", classify(err, nil))
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, classify(err, domain.ErrOrderNotFound)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) GetOrderByReference(ctx context.Context, reference string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "reference = ?", reference).Error; err != nil {
		return nil, classify(err, domain.ErrOrderNotFound)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) LockOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, classify(err, domain.ErrOrderNotFound)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time, reason string) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: order %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	updates := map[string]any{"status": to, "updated_at": at}
	switch to {
	case domain.StatusPaid:
		updates["paid_at"] = at
	case domain.StatusExpired:
		updates["expired_at"] = at
		updates["expire_reason"] = reason
	}

	res := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", classify(res.Error, nil))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s is not %s", domain.ErrInvalidTransition, orderID, from)
	}
	return nil
}

// FindExpiredOrders pages through reserved orders whose deadline is at or
// before now, ordered by (expires_at, id). Served by idx_orders_status_expires.
func (r *DefaultOrderRepository) FindExpiredOrders(ctx context.Context, now time.Time, after *domain.ExpiredCursor, limit int) ([]*domain.Order, error) {
	query := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusReserved).
		Where("expires_at <= ?", now)
	if after != nil {
		query = query.Where("(expires_at > ? OR (expires_at = ? AND id > ?))", after.ExpiresAt, after.ExpiresAt, after.ID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orderModels []models.OrderModel
	if err := query.Order("expires_at ASC").Order("id ASC").Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find expired orders: %w", classify(err, nil))
	}

	orders := make([]*domain.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, mappers.ToDomainOrder(&orderModels[i]))
	}
	return orders, nil
}
