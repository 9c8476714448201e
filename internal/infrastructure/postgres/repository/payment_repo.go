package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMPayment(payment)).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", classify(err, nil))
	}
	return nil
}

func (r *DefaultPaymentRepository) GetPaymentByGatewayID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	var payment models.PaymentModel
	if err := r.DB.WithContext(ctx).First(&payment, "gateway_payment_id = ?", gatewayPaymentID).Error; err != nil {
		return nil, classify(err, domain.ErrPaymentNotFound)
	}
	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) GetActivePaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var payment models.PaymentModel
	if err := r.DB.WithContext(ctx).
		Where("order_id = ? AND superseded_at IS NULL", orderID).
		First(&payment).Error; err != nil {
		return nil, classify(err, domain.ErrPaymentNotFound)
	}
	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) SupersedePayments(ctx context.Context, orderID string, at time.Time) error {
	if err := r.DB.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("order_id = ? AND superseded_at IS NULL", orderID).
		Updates(map[string]any{"superseded_at": at, "updated_at": at}).Error; err != nil {
		return fmt.Errorf("failed to supersede payments: %w", classify(err, nil))
	}
	return nil
}

func (r *DefaultPaymentRepository) UpdatePaymentStatus(ctx context.Context, gatewayPaymentID string, status domain.PaymentStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", classify(res.Error, nil))
	}
	if res.RowsAffected == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
