package background

import (
	"context"
	"log/slog"
	"time"

	orderusecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
)

// Sweeper releases overdue reservations on a fixed interval.
type Sweeper struct {
	usecase  orderusecase.OrderUsecase
	interval time.Duration
	retrier  *Retrier
	logger   *slog.Logger
}

func NewSweeper(uc orderusecase.OrderUsecase, interval time.Duration, retrier *Retrier, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		usecase:  uc,
		interval: interval,
		retrier:  retrier,
		logger:   logger.With("component", "sweeper"),
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one sweep pass under the retry policy and returns the
// number of orders released across all attempts.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	total := 0
	attempts, err := s.retrier.Do(ctx, "sweep", func(ctx context.Context) error {
		released, err := s.usecase.SweepExpiredOrders(ctx, s.usecase.Now())
		total += released
		return err
	})
	if err != nil {
		s.logger.Error("sweep failed", "released", total, "attempts", attempts, "error", err)
		return total, err
	}
	if total > 0 {
		s.logger.Info("sweep released orders", "released", total, "attempts", attempts)
	}
	return total, nil
}
