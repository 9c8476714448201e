package usecase

import (
	"context"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/order"
)

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*orderdto.OrderOutput, error) {
	order, err := uc.Repos.Orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.withNumbers(ctx, order)
}

func (uc *DefaultOrderUsecase) GetOrderByReference(ctx context.Context, reference string) (*orderdto.OrderOutput, error) {
	order, err := uc.Repos.Orders.GetOrderByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return uc.withNumbers(ctx, order)
}

// withNumbers fills the numbers the order currently owns. Expired orders own none.
func (uc *DefaultOrderUsecase) withNumbers(ctx context.Context, order *domain.Order) (*orderdto.OrderOutput, error) {
	numbers, err := uc.Repos.Tickets.GetNumbersByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Numbers = numbers
	return orderdto.ToOrderOutput(order), nil
}

func (uc *DefaultOrderUsecase) ListAnomalies(ctx context.Context, unresolvedOnly bool, limit int) ([]*domain.SettlementAnomaly, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return uc.Repos.Anomalies.ListAnomalies(ctx, unresolvedOnly, limit)
}
