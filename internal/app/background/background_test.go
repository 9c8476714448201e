package background

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/memqueue"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	orderusecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func newTestRetrier(m *metrics.RaffleMetrics) (*Retrier, *recordedSleeps) {
	sleeps := &recordedSleeps{}
	r := NewRetrier(domain.RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Second, 5 * time.Second, 10 * time.Second},
	}, m, discard)
	r.Sleep = sleeps.sleep
	return r, sleeps
}

// stubUsecase overrides only the methods the background tasks call.
type stubUsecase struct {
	orderusecase.OrderUsecase

	mu        sync.Mutex
	reconcile func(n domain.PaymentNotification) (domain.SettlementResult, error)
	sweep     func() (int, error)
	settled   []domain.PaymentNotification
}

func (s *stubUsecase) Reconcile(_ context.Context, n domain.PaymentNotification) (domain.SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settled = append(s.settled, n)
	return s.reconcile(n)
}

func (s *stubUsecase) SweepExpiredOrders(context.Context, time.Time) (int, error) {
	return s.sweep()
}

func (s *stubUsecase) Now() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

type memFailures struct {
	mu       sync.Mutex
	recorded []*domain.SettlementFailure
}

func (m *memFailures) RecordFailure(_ context.Context, f *domain.SettlementFailure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, f)
	return nil
}

func (m *memFailures) GetFailure(context.Context, string) (*domain.SettlementFailure, error) {
	return nil, domain.ErrFailureNotFound
}

func TestRetrierRetriesOnlyTransientErrors(t *testing.T) {
	m := metrics.NewRaffleMetrics(prometheus.NewRegistry())
	r, sleeps := newTestRetrier(m)

	calls := 0
	attempts, err := r.Do(context.Background(), "test", func(context.Context) error {
		calls++
		if calls < 3 {
			return domain.Transient(errors.New("db down"))
		}
		return nil
	})
	if err != nil || attempts != 3 {
		t.Fatalf("Do = %d, %v; want 3, nil", attempts, err)
	}
	if len(sleeps.delays) != 2 || sleeps.delays[0] != time.Second || sleeps.delays[1] != 5*time.Second {
		t.Errorf("delays = %v", sleeps.delays)
	}
	if got := testutil.ToFloat64(m.SettlementRetriesTotal); got != 2 {
		t.Errorf("retries metric = %v, want 2", got)
	}

	calls = 0
	attempts, err = r.Do(context.Background(), "test", func(context.Context) error {
		calls++
		return domain.ErrOrderNotFound
	})
	if attempts != 1 || !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("permanent error: attempts %d, err %v", attempts, err)
	}

	attempts, err = r.Do(context.Background(), "test", func(context.Context) error {
		return domain.Transient(errors.New("still down"))
	})
	if attempts != 3 || !domain.IsTransient(err) {
		t.Errorf("exhausted: attempts %d, err %v", attempts, err)
	}
}

func TestRetrierStopsWhenContextDone(t *testing.T) {
	r, _ := newTestRetrier(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := r.Do(ctx, "test", func(context.Context) error {
		return domain.Transient(errors.New("down"))
	})
	if attempts != 1 || err == nil {
		t.Errorf("Do = %d, %v; want 1 attempt and the transient error", attempts, err)
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleep = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled sleep = %v", err)
	}
}

func encode(t *testing.T, n domain.PaymentNotification) domain.Message {
	t.Helper()
	v, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	return domain.Message{Key: []byte(n.GatewayPaymentID), Value: v}
}

func TestSettlementWorkerRetriesTransientFailures(t *testing.T) {
	calls := 0
	uc := &stubUsecase{reconcile: func(domain.PaymentNotification) (domain.SettlementResult, error) {
		calls++
		if calls == 1 {
			return "", domain.Transient(errors.New("lock timeout"))
		}
		return domain.ResultPaid, nil
	}}
	failures := &memFailures{}
	r, _ := newTestRetrier(nil)
	w := NewSettlementWorker(nil, "t", "g", uc, failures, r, nil, discard)

	msg := encode(t, domain.PaymentNotification{EventID: "e1", GatewayPaymentID: "p1", RawStatus: "approved"})
	if err := w.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle = %v", err)
	}
	if calls != 2 || len(failures.recorded) != 0 {
		t.Errorf("calls %d, failures %d", calls, len(failures.recorded))
	}
}

func TestSettlementWorkerStoresExhaustedNotifications(t *testing.T) {
	uc := &stubUsecase{reconcile: func(domain.PaymentNotification) (domain.SettlementResult, error) {
		return "", domain.Transient(errors.New("db down"))
	}}
	failures := &memFailures{}
	m := metrics.NewRaffleMetrics(prometheus.NewRegistry())
	r, _ := newTestRetrier(m)
	w := NewSettlementWorker(nil, "t", "g", uc, failures, r, m, discard)

	msg := encode(t, domain.PaymentNotification{EventID: "e2", GatewayPaymentID: "p2", RawStatus: "rejected"})
	if err := w.Handle(context.Background(), msg); !domain.IsTransient(err) {
		t.Fatalf("Handle = %v, want transient error", err)
	}
	if len(failures.recorded) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures.recorded))
	}
	f := failures.recorded[0]
	if f.EventID != "e2" || f.GatewayPaymentID != "p2" || f.RawStatus != "rejected" || f.Attempts != 3 {
		t.Errorf("failure = %+v", f)
	}
	if string(f.Payload) != string(msg.Value) || f.LastError == "" || f.ID == "" {
		t.Errorf("failure payload/error not kept: %+v", f)
	}
	if got := testutil.ToFloat64(m.SettlementFailuresTotal); got != 1 {
		t.Errorf("failures metric = %v", got)
	}
}

func TestSettlementWorkerStoresNotificationInterruptedByShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	uc := &stubUsecase{reconcile: func(domain.PaymentNotification) (domain.SettlementResult, error) {
		cancel()
		return "", domain.Transient(errors.New("db down"))
	}}
	failures := &memFailures{}
	r, _ := newTestRetrier(nil)
	w := NewSettlementWorker(nil, "t", "g", uc, failures, r, nil, discard)

	msg := encode(t, domain.PaymentNotification{EventID: "e4", GatewayPaymentID: "p4", RawStatus: "approved"})
	if err := w.Handle(ctx, msg); !domain.IsTransient(err) {
		t.Fatalf("Handle = %v, want transient error", err)
	}
	if len(failures.recorded) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures.recorded))
	}
	f := failures.recorded[0]
	if f.GatewayPaymentID != "p4" || f.RawStatus != "approved" || f.Attempts != 1 || string(f.Payload) != string(msg.Value) {
		t.Errorf("failure = %+v", f)
	}
}

func TestSettlementWorkerStoresUndecodableMessages(t *testing.T) {
	uc := &stubUsecase{}
	failures := &memFailures{}
	r, _ := newTestRetrier(nil)
	w := NewSettlementWorker(nil, "t", "g", uc, failures, r, nil, discard)

	if err := w.Handle(context.Background(), domain.Message{Key: []byte("p3"), Value: []byte("{not json")}); err == nil {
		t.Fatal("expected decode error")
	}
	if len(failures.recorded) != 1 || failures.recorded[0].GatewayPaymentID != "p3" {
		t.Errorf("failures = %+v", failures.recorded)
	}
	if len(uc.settled) != 0 {
		t.Errorf("reconciled an undecodable message")
	}
}

func TestSettlementWorkerConsumesQueue(t *testing.T) {
	queue := memqueue.New(8)
	done := make(chan struct{}, 2)
	uc := &stubUsecase{reconcile: func(domain.PaymentNotification) (domain.SettlementResult, error) {
		done <- struct{}{}
		return domain.ResultNoop, nil
	}}
	r, _ := newTestRetrier(nil)
	w := NewSettlementWorker(queue, "notifications", "g", uc, &memFailures{}, r, nil, discard)

	for _, id := range []string{"a", "b"} {
		if err := queue.Publish(context.Background(), "notifications", encode(t, domain.PaymentNotification{EventID: id, GatewayPaymentID: id, RawStatus: "approved"})); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	tasks := NewBackgroundTasks(nil, w)
	tasks.StartAll(ctx)
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("worker did not consume the queue")
		}
	}
	cancel()
	tasks.Wait()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if len(uc.settled) != 2 || uc.settled[0].EventID != "a" || uc.settled[1].EventID != "b" {
		t.Errorf("settled = %+v", uc.settled)
	}
}

func TestSweeperRunOnceAccumulatesAcrossRetries(t *testing.T) {
	calls := 0
	uc := &stubUsecase{sweep: func() (int, error) {
		calls++
		if calls == 1 {
			return 4, domain.Transient(errors.New("lock timeout"))
		}
		return 1, nil
	}}
	r, _ := newTestRetrier(nil)
	s := NewSweeper(uc, time.Minute, r, discard)

	released, err := s.RunOnce(context.Background())
	if err != nil || released != 5 {
		t.Errorf("RunOnce = %d, %v; want 5, nil", released, err)
	}
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	swept := make(chan struct{}, 1)
	uc := &stubUsecase{sweep: func() (int, error) {
		select {
		case swept <- struct{}{}:
		default:
		}
		return 0, nil
	}}
	r, _ := newTestRetrier(nil)
	tasks := NewBackgroundTasks(NewSweeper(uc, 10*time.Millisecond, r, discard), nil)

	ctx, cancel := context.WithCancel(context.Background())
	tasks.StartAll(ctx)
	select {
	case <-swept:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper never ticked")
	}
	cancel()
	tasks.Wait()
}
