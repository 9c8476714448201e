package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// SweepExpiredOrders releases every reserved order whose deadline is at or
// before now and returns how many were released. Each order is settled in its
// own transaction; a failing order is logged and the pass moves on.
func (uc *DefaultOrderUsecase) SweepExpiredOrders(ctx context.Context, now time.Time) (int, error) {
	started := time.Now()
	now = now.UTC()

	var (
		released  int
		failed    int
		transient int
		cursor    *domain.ExpiredCursor
	)
	for {
		if err := ctx.Err(); err != nil {
			uc.recordSweepMetrics("canceled", failed, time.Since(started))
			return released, err
		}

		batch, err := uc.Repos.Orders.FindExpiredOrders(ctx, now, cursor, uc.Config.SweepBatchSize)
		if err != nil {
			uc.recordSweepMetrics("error", failed, time.Since(started))
			uc.Logger.Error("failed to select expired orders", "error", err)
			return released, err
		}

		for _, candidate := range batch {
			// Once started, an order's release runs to commit or rollback.
			expired, _, err := uc.expireOrder(context.WithoutCancel(ctx), candidate.ID, now, domain.ExpireReasonTimeout, true)
			if err != nil {
				failed++
				if domain.IsTransient(err) {
					transient++
				}
				uc.Logger.Error("failed to expire order", "order_id", candidate.ID, "error", err)
				continue
			}
			if expired != nil {
				released++
			}
		}

		if len(batch) < uc.Config.SweepBatchSize {
			break
		}
		last := batch[len(batch)-1]
		cursor = &domain.ExpiredCursor{ExpiresAt: last.ExpiresAt, ID: last.ID}
	}

	uc.Logger.Info("expired orders swept", "now", now, "released", released, "failed", failed)

	if transient > 0 {
		uc.recordSweepMetrics("partial", failed, time.Since(started))
		return released, domain.Transient(fmt.Errorf("sweep left %d orders unreleased", transient))
	}
	uc.recordSweepMetrics("ok", failed, time.Since(started))
	return released, nil
}

// expireOrder moves a reserved order to expired and returns its tickets to the
// pool. It returns the released order, or nil when the order was no longer
// reserved (or, with requireDue, not yet due), together with the order's
// current status.
func (uc *DefaultOrderUsecase) expireOrder(ctx context.Context, orderID string, now time.Time, reason string, requireDue bool) (*domain.Order, domain.OrderStatus, error) {
	var (
		released *domain.Order
		status   domain.OrderStatus
	)
	err := uc.TxManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		released = nil

		order, err := repos.Orders.LockOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		status = order.Status
		if order.Status != domain.StatusReserved {
			return nil
		}
		if requireDue && order.ExpiresAt.After(now) {
			return nil
		}

		numbers, err := repos.Tickets.GetNumbersByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if _, err := repos.Tickets.ReleaseByOrder(ctx, order.ID); err != nil {
			return err
		}
		if err := repos.Orders.UpdateOrderStatus(ctx, order.ID, domain.StatusReserved, domain.StatusExpired, now, reason); err != nil {
			return err
		}

		order.Status = domain.StatusExpired
		order.ExpiredAt = &now
		order.ExpireReason = reason
		order.Numbers = numbers
		released = order
		status = order.Status
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	if released != nil {
		uc.recordExpiredMetrics(reason)
		uc.publishOrderEvent(released, reason)
	}
	return released, status, nil
}
