package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
)

// Retrier runs an operation under a RetryPolicy. Only errors marked
// transient are retried; anything else returns at once.
type Retrier struct {
	Policy  domain.RetryPolicy
	Metrics *metrics.RaffleMetrics
	Logger  *slog.Logger
	Sleep   func(ctx context.Context, d time.Duration) error
}

func NewRetrier(policy domain.RetryPolicy, retryMetrics *metrics.RaffleMetrics, logger *slog.Logger) *Retrier {
	return &Retrier{
		Policy:  policy,
		Metrics: retryMetrics,
		Logger:  logger,
		Sleep:   sleepContext,
	}
}

// Do calls fn until it succeeds, fails permanently or the attempt budget is
// spent. It returns the number of attempts made and the last error.
func (r *Retrier) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := r.Policy.Attempts()
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil || !domain.IsTransient(err) || attempt >= maxAttempts {
			return attempt, err
		}

		delay := r.Policy.Delay(attempt)
		r.Logger.Warn("transient failure, retrying",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"delay", delay,
			"error", err,
		)
		if r.Metrics != nil {
			r.Metrics.RecordSettlementRetry()
		}
		if sleepErr := r.Sleep(ctx, delay); sleepErr != nil {
			return attempt, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
