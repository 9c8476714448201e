package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

const sideEffectTimeout = 10 * time.Second

// publishOrderEvent announces a committed lifecycle change. Delivery is best
// effort and never affects the outcome of the operation that triggered it.
func (uc *DefaultOrderUsecase) publishOrderEvent(order *domain.Order, reason string) {
	if uc.Events == nil {
		return
	}
	event := domain.OrderEvent{
		OrderID:    order.ID,
		Reference:  order.Reference,
		RaffleID:   order.RaffleID,
		Status:     order.Status,
		Numbers:    order.Numbers,
		TotalCents: order.TotalCents,
		Reason:     reason,
		OccurredAt: uc.Now(),
	}

	uc.background.Add(1)
	go func() {
		defer uc.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		if err := uc.Events.PublishOrderEvent(ctx, event); err != nil {
			uc.Logger.Error("failed to publish order event",
				"order_id", event.OrderID,
				"status", event.Status,
				"error", err,
			)
		}
	}()
}

func (uc *DefaultOrderUsecase) notifyAnomaly(anomaly *domain.SettlementAnomaly) {
	if uc.Notifier == nil {
		return
	}

	uc.background.Add(1)
	go func() {
		defer uc.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		if err := uc.Notifier.NotifyAnomaly(ctx, anomaly); err != nil {
			uc.Logger.Error("failed to notify anomaly",
				"anomaly_id", anomaly.ID,
				"kind", anomaly.Kind,
				"error", err,
			)
		}
	}()
}

// WaitForEvents blocks until every pending event and notification has been handed off.
func (uc *DefaultOrderUsecase) WaitForEvents() {
	uc.background.Wait()
}
