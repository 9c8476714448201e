package mappers

import (
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:        model.ID,
		Reference: model.Reference,
		RaffleID:  model.RaffleID,
		Customer: domain.Customer{
			Name:  model.CustomerName,
			Email: model.CustomerEmail,
			Phone: model.CustomerPhone,
		},
		TotalCents:   model.TotalCents,
		Status:       model.Status,
		ExpiresAt:    model.ExpiresAt,
		PaidAt:       model.PaidAt,
		ExpiredAt:    model.ExpiredAt,
		ExpireReason: model.ExpireReason,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:            order.ID,
		Reference:     order.Reference,
		RaffleID:      order.RaffleID,
		CustomerName:  order.Customer.Name,
		CustomerEmail: order.Customer.Email,
		CustomerPhone: order.Customer.Phone,
		TotalCents:    order.TotalCents,
		Status:        order.Status,
		ExpiresAt:     order.ExpiresAt,
		PaidAt:        order.PaidAt,
		ExpiredAt:     order.ExpiredAt,
		ExpireReason:  order.ExpireReason,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
