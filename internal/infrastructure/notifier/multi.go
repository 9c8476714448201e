package notifier

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// Multi delivers an anomaly to every notifier and joins their errors.
type Multi []domain.AnomalyNotifier

func (m Multi) NotifyAnomaly(ctx context.Context, anomaly *domain.SettlementAnomaly) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyAnomaly(ctx, anomaly); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
