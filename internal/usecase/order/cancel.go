package usecase

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// CancelOrder releases a reserved order before its deadline.
func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID string) error {
	released, status, err := uc.expireOrder(ctx, orderID, uc.Now(), domain.ExpireReasonCanceled, false)
	if err != nil {
		return err
	}
	if released == nil {
		return fmt.Errorf("%w: order %s is %s", domain.ErrInvalidTransition, orderID, status)
	}

	uc.Logger.Info("order canceled", "order_id", orderID, "numbers", released.Numbers)
	return nil
}
