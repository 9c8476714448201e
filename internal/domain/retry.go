package domain

import "time"

// RetryPolicy is the attempt budget applied by the workers that execute
// sweeps and settlements. Only transient failures are retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{60 * time.Second, 300 * time.Second, 600 * time.Second},
	}
}

// Delay returns the wait before retry number attempt (1-based). The last
// backoff entry repeats when attempts outnumber the schedule.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if len(p.Backoff) == 0 || attempt < 1 {
		return 0
	}
	if attempt > len(p.Backoff) {
		return p.Backoff[len(p.Backoff)-1]
	}
	return p.Backoff[attempt-1]
}

func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
