package usecase_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-raffle-service/internal/testutil/dbtest"
	orderdto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/order"
	usecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, event domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) statuses() []domain.OrderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.OrderStatus
	for _, event := range p.events {
		out = append(out, event.Status)
	}
	return out
}

type recordingNotifier struct {
	mu        sync.Mutex
	anomalies []*domain.SettlementAnomaly
}

func (n *recordingNotifier) NotifyAnomaly(_ context.Context, anomaly *domain.SettlementAnomaly) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.anomalies = append(n.anomalies, anomaly)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.anomalies)
}

type harness struct {
	uc       *usecase.DefaultOrderUsecase
	db       *gorm.DB
	repos    domain.Repositories
	clock    *fakeClock
	events   *recordingPublisher
	notifier *recordingNotifier
	metrics  *metrics.RaffleMetrics
}

func newHarness(t *testing.T, cfg usecase.Config) *harness {
	t.Helper()
	db := dbtest.New(t)
	h := &harness{
		db:       db,
		repos:    repository.NewRepositories(db),
		clock:    &fakeClock{now: start},
		events:   &recordingPublisher{},
		notifier: &recordingNotifier{},
		metrics:  metrics.NewRaffleMetrics(prometheus.NewRegistry()),
	}
	uc, err := usecase.NewDefaultOrderUsecase(
		repository.NewGormTxManager(db, 0),
		h.repos,
		h.events,
		h.notifier,
		h.metrics,
		nil,
		cfg,
	)
	if err != nil {
		t.Fatalf("NewDefaultOrderUsecase() error = %v", err)
	}
	uc.Clock = h.clock.Now
	h.uc = uc
	t.Cleanup(uc.WaitForEvents)
	return h
}

func (h *harness) seedRaffle(t *testing.T, total int, status domain.RaffleStatus) *domain.Raffle {
	t.Helper()
	ctx := context.Background()
	raffle := &domain.Raffle{
		ID:             uuid.NewString(),
		Title:          "Moto 0km",
		UnitPriceCents: 1000,
		TotalTickets:   total,
		Status:         status,
		CreatedAt:      start,
		UpdatedAt:      start,
	}
	if err := h.repos.Raffles.CreateRaffle(ctx, raffle); err != nil {
		t.Fatalf("CreateRaffle() error = %v", err)
	}
	if err := h.repos.Tickets.CreateTickets(ctx, raffle.ID, total); err != nil {
		t.Fatalf("CreateTickets() error = %v", err)
	}
	return raffle
}

func (h *harness) reserve(t *testing.T, raffleID string, numbers ...int) *orderdto.OrderOutput {
	t.Helper()
	order, err := h.uc.ReserveTickets(context.Background(), &orderdto.ReserveTicketsInput{
		RaffleID: raffleID,
		Numbers:  numbers,
		Customer: orderdto.CustomerInput{Name: "Ana", Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("ReserveTickets(%v) error = %v", numbers, err)
	}
	return order
}

func (h *harness) ticketStatus(t *testing.T, raffleID string, number int) domain.TicketStatus {
	t.Helper()
	tickets, err := h.repos.Tickets.LockTickets(context.Background(), raffleID, []int{number})
	if err != nil || len(tickets) != 1 {
		t.Fatalf("LockTickets(%d) = %v, %v", number, tickets, err)
	}
	return tickets[0].Status
}

func (h *harness) order(t *testing.T, orderID string) *orderdto.OrderOutput {
	t.Helper()
	order, err := h.uc.GetOrderByID(context.Background(), orderID)
	if err != nil {
		t.Fatalf("GetOrderByID() error = %v", err)
	}
	return order
}

func (h *harness) attach(t *testing.T, orderID, gatewayID string) {
	t.Helper()
	if _, err := h.uc.AttachPayment(context.Background(), &orderdto.AttachPaymentInput{
		OrderID:          orderID,
		GatewayPaymentID: gatewayID,
	}); err != nil {
		t.Fatalf("AttachPayment() error = %v", err)
	}
}

func notification(gatewayID, status string) domain.PaymentNotification {
	return domain.PaymentNotification{
		EventID:          uuid.NewString(),
		GatewayPaymentID: gatewayID,
		RawStatus:        status,
		ReceivedAt:       start,
	}
}

func TestReserveTicketsCreatesOrder(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)

	order := h.reserve(t, raffle.ID, 3, 1, 2)

	if order.Status != domain.StatusReserved {
		t.Errorf("Status = %s, want reserved", order.Status)
	}
	if !slices.Equal(order.Numbers, []int{1, 2, 3}) {
		t.Errorf("Numbers = %v, want [1 2 3]", order.Numbers)
	}
	if order.TotalCents != 3000 {
		t.Errorf("TotalCents = %d, want 3000", order.TotalCents)
	}
	if !order.ExpiresAt.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want %v", order.ExpiresAt, start.Add(30*time.Minute))
	}
	if len(order.Reference) != 10 {
		t.Errorf("Reference = %q, want 10 characters", order.Reference)
	}
	for _, number := range []int{1, 2, 3} {
		if status := h.ticketStatus(t, raffle.ID, number); status != domain.TicketReserved {
			t.Errorf("ticket %d status = %s, want reserved", number, status)
		}
	}

	fetched := h.order(t, order.ID)
	if !slices.Equal(fetched.Numbers, []int{1, 2, 3}) {
		t.Errorf("GetOrderByID numbers = %v, want [1 2 3]", fetched.Numbers)
	}
	byRef, err := h.uc.GetOrderByReference(context.Background(), order.Reference)
	if err != nil || byRef.ID != order.ID {
		t.Errorf("GetOrderByReference() = %v, %v; want order %s", byRef, err, order.ID)
	}

	h.uc.WaitForEvents()
	if got := h.events.statuses(); !slices.Equal(got, []domain.OrderStatus{domain.StatusReserved}) {
		t.Errorf("published statuses = %v, want [reserved]", got)
	}
	if got := testutil.ToFloat64(h.metrics.ReservationsTotal.WithLabelValues("reserved")); got != 1 {
		t.Errorf("reserved counter = %v, want 1", got)
	}
}

func TestReserveTicketsAllOrNothing(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	h.reserve(t, raffle.ID, 3)

	_, err := h.uc.ReserveTickets(context.Background(), &orderdto.ReserveTicketsInput{
		RaffleID: raffle.ID,
		Numbers:  []int{4, 3, 5},
	})

	var insufficient *domain.InsufficientAvailabilityError
	if !errors.As(err, &insufficient) {
		t.Fatalf("ReserveTickets() error = %v, want InsufficientAvailabilityError", err)
	}
	if !errors.Is(err, domain.ErrInsufficientAvailability) {
		t.Errorf("errors.Is(err, ErrInsufficientAvailability) = false")
	}
	if !slices.Equal(insufficient.Unavailable, []int{3}) {
		t.Errorf("Unavailable = %v, want [3]", insufficient.Unavailable)
	}
	for _, number := range []int{4, 5} {
		if status := h.ticketStatus(t, raffle.ID, number); status != domain.TicketAvailable {
			t.Errorf("ticket %d status = %s, want available", number, status)
		}
	}
}

func TestReserveTicketsRejectsInvalidRequests(t *testing.T) {
	h := newHarness(t, usecase.Config{MaxNumbers: 3})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	draft := h.seedRaffle(t, 10, domain.RaffleDraft)

	tests := []struct {
		name     string
		raffleID string
		numbers  []int
		want     error
	}{
		{"empty", raffle.ID, nil, domain.ErrInvalidReservation},
		{"zero", raffle.ID, []int{0, 1}, domain.ErrInvalidReservation},
		{"duplicate", raffle.ID, []int{2, 2}, domain.ErrInvalidReservation},
		{"too many", raffle.ID, []int{1, 2, 3, 4}, domain.ErrInvalidReservation},
		{"out of range", raffle.ID, []int{11}, domain.ErrInvalidReservation},
		{"unknown raffle", uuid.NewString(), []int{1}, domain.ErrRaffleNotFound},
		{"draft raffle", draft.ID, []int{1}, domain.ErrRaffleNotOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.uc.ReserveTickets(context.Background(), &orderdto.ReserveTicketsInput{
				RaffleID: tt.raffleID,
				Numbers:  tt.numbers,
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("ReserveTickets() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReserveTicketsConcurrentOverlap(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)

	const workers = 8
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		won          int
		insufficient int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.uc.ReserveTickets(context.Background(), &orderdto.ReserveTicketsInput{
				RaffleID: raffle.ID,
				Numbers:  []int{6, 5},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, domain.ErrInsufficientAvailability):
				insufficient++
			default:
				t.Errorf("ReserveTickets() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if won != 1 || insufficient != workers-1 {
		t.Errorf("won = %d, insufficient = %d; want 1 and %d", won, insufficient, workers-1)
	}
}

func TestSweepReleasesOnlyDueOrders(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	early := h.reserve(t, raffle.ID, 1, 2)
	h.clock.Advance(20 * time.Minute)
	late := h.reserve(t, raffle.ID, 3)

	h.clock.Advance(10 * time.Minute)
	released, err := h.uc.SweepExpiredOrders(context.Background(), h.clock.Now())
	if err != nil {
		t.Fatalf("SweepExpiredOrders() error = %v", err)
	}
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}

	got := h.order(t, early.ID)
	if got.Status != domain.StatusExpired || got.ExpireReason != domain.ExpireReasonTimeout {
		t.Errorf("early order = %s/%s, want expired/timeout", got.Status, got.ExpireReason)
	}
	if len(got.Numbers) != 0 {
		t.Errorf("expired order still owns %v", got.Numbers)
	}
	if status := h.ticketStatus(t, raffle.ID, 1); status != domain.TicketAvailable {
		t.Errorf("ticket 1 status = %s, want available", status)
	}
	if got := h.order(t, late.ID); got.Status != domain.StatusReserved {
		t.Errorf("late order status = %s, want reserved", got.Status)
	}

	// A released number can be reserved again.
	h.reserve(t, raffle.ID, 1)

	again, err := h.uc.SweepExpiredOrders(context.Background(), h.clock.Now())
	if err != nil || again != 0 {
		t.Errorf("second sweep = %d, %v; want 0, nil", again, err)
	}
}

func TestSweepWalksEveryBatch(t *testing.T) {
	h := newHarness(t, usecase.Config{SweepBatchSize: 2})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	for number := 1; number <= 5; number++ {
		h.reserve(t, raffle.ID, number)
	}

	h.clock.Advance(time.Hour)
	released, err := h.uc.SweepExpiredOrders(context.Background(), h.clock.Now())
	if err != nil {
		t.Fatalf("SweepExpiredOrders() error = %v", err)
	}
	if released != 5 {
		t.Errorf("released = %d, want 5", released)
	}
	counts, err := h.repos.Tickets.CountByStatus(context.Background(), raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts[domain.TicketAvailable] != 10 {
		t.Errorf("available = %d, want 10", counts[domain.TicketAvailable])
	}
}

// flakyOrders fails LockOrderByID for one order id with a transient error.
type flakyOrders struct {
	domain.OrderRepository
	failID string
}

func (r flakyOrders) LockOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == r.failID {
		return nil, domain.Transient(errors.New("lock timeout"))
	}
	return r.OrderRepository.LockOrderByID(ctx, orderID)
}

type flakyTx struct {
	domain.TxManager
	failID string
}

func (m flakyTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return m.TxManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		repos.Orders = flakyOrders{OrderRepository: repos.Orders, failID: m.failID}
		return fn(ctx, repos)
	})
}

func TestSweepIsolatesFailingOrder(t *testing.T) {
	h := newHarness(t, usecase.Config{SweepBatchSize: 2})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	var orders []*orderdto.OrderOutput
	for number := 1; number <= 4; number++ {
		orders = append(orders, h.reserve(t, raffle.ID, number))
		h.clock.Advance(time.Second)
	}
	stuck := orders[1]
	h.uc.TxManager = flakyTx{TxManager: h.uc.TxManager, failID: stuck.ID}

	h.clock.Advance(time.Hour)
	released, err := h.uc.SweepExpiredOrders(context.Background(), h.clock.Now())
	if !domain.IsTransient(err) {
		t.Fatalf("SweepExpiredOrders() error = %v, want transient", err)
	}
	if released != 3 {
		t.Errorf("released = %d, want 3", released)
	}
	for _, o := range orders {
		want := domain.StatusExpired
		if o.ID == stuck.ID {
			want = domain.StatusReserved
		}
		if got := h.order(t, o.ID); got.Status != want {
			t.Errorf("order %v status = %s, want %s", o.Numbers, got.Status, want)
		}
	}
	if got := testutil.ToFloat64(h.metrics.SweepOrderFailuresTotal); got != 1 {
		t.Errorf("sweep order failures = %v, want 1", got)
	}
}

func TestReconcileApprovedPaysOrder(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	order := h.reserve(t, raffle.ID, 7, 8)
	h.attach(t, order.ID, "pay-1")

	result, err := h.uc.Reconcile(context.Background(), notification("pay-1", "APPROVED"))
	if err != nil || result != domain.ResultPaid {
		t.Fatalf("Reconcile() = %s, %v; want paid", result, err)
	}
	got := h.order(t, order.ID)
	if got.Status != domain.StatusPaid || got.PaidAt == nil {
		t.Errorf("order = %s (paid_at %v), want paid", got.Status, got.PaidAt)
	}
	for _, number := range []int{7, 8} {
		if status := h.ticketStatus(t, raffle.ID, number); status != domain.TicketPaid {
			t.Errorf("ticket %d status = %s, want paid", number, status)
		}
	}
	payment, err := h.repos.Payments.GetPaymentByGatewayID(context.Background(), "pay-1")
	if err != nil || payment.Status != domain.PaymentApproved {
		t.Errorf("payment = %+v, %v; want approved", payment, err)
	}

	replay, err := h.uc.Reconcile(context.Background(), notification("pay-1", "approved"))
	if err != nil || replay != domain.ResultNoop {
		t.Errorf("replayed Reconcile() = %s, %v; want noop", replay, err)
	}

	// A paid order is out of reach of the sweeper.
	h.clock.Advance(time.Hour)
	if released, err := h.uc.SweepExpiredOrders(context.Background(), h.clock.Now()); err != nil || released != 0 {
		t.Errorf("sweep after payment = %d, %v; want 0", released, err)
	}
}

func TestReconcileRejectedReleasesBeforeDeadline(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	order := h.reserve(t, raffle.ID, 4)
	h.attach(t, order.ID, "pay-2")

	result, err := h.uc.Reconcile(context.Background(), notification("pay-2", "rejected"))
	if err != nil || result != domain.ResultReleased {
		t.Fatalf("Reconcile() = %s, %v; want released", result, err)
	}
	got := h.order(t, order.ID)
	if got.Status != domain.StatusExpired || got.ExpireReason != domain.ExpireReasonPaymentRejected {
		t.Errorf("order = %s/%s, want expired/payment_rejected", got.Status, got.ExpireReason)
	}
	if status := h.ticketStatus(t, raffle.ID, 4); status != domain.TicketAvailable {
		t.Errorf("ticket 4 status = %s, want available", status)
	}

	replay, err := h.uc.Reconcile(context.Background(), notification("pay-2", "cancelled"))
	if err != nil || replay != domain.ResultNoop {
		t.Errorf("Reconcile() on expired order = %s, %v; want noop", replay, err)
	}
}

func TestReconcileIgnoresFailureOfSupersededPayment(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	order := h.reserve(t, raffle.ID, 1, 2)
	h.attach(t, order.ID, "pay-old")
	h.attach(t, order.ID, "pay-new")
	ctx := context.Background()

	result, err := h.uc.Reconcile(ctx, notification("pay-old", "cancelled"))
	if err != nil || result != domain.ResultNoop {
		t.Fatalf("Reconcile(pay-old) = %s, %v; want noop", result, err)
	}
	if got := h.order(t, order.ID); got.Status != domain.StatusReserved {
		t.Errorf("order status = %s, want reserved", got.Status)
	}
	if status := h.ticketStatus(t, raffle.ID, 1); status != domain.TicketReserved {
		t.Errorf("ticket 1 status = %s, want reserved", status)
	}
	old, err := h.repos.Payments.GetPaymentByGatewayID(ctx, "pay-old")
	if err != nil || old.Status != domain.PaymentCancelled {
		t.Errorf("pay-old = %+v, %v; want cancelled mirror", old, err)
	}

	_, err = h.uc.ReserveTickets(ctx, &orderdto.ReserveTicketsInput{RaffleID: raffle.ID, Numbers: []int{1, 2}})
	if !errors.Is(err, domain.ErrInsufficientAvailability) {
		t.Errorf("ReserveTickets() over held numbers error = %v, want ErrInsufficientAvailability", err)
	}

	result, err = h.uc.Reconcile(ctx, notification("pay-new", "approved"))
	if err != nil || result != domain.ResultPaid {
		t.Fatalf("Reconcile(pay-new) = %s, %v; want paid", result, err)
	}
	if got := h.order(t, order.ID); got.Status != domain.StatusPaid {
		t.Errorf("order status = %s, want paid", got.Status)
	}
}

func TestReconcileApprovedAfterExpiryIsAnomaly(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	order := h.reserve(t, raffle.ID, 9)
	h.attach(t, order.ID, "pay-3")

	h.clock.Advance(31 * time.Minute)
	if _, err := h.uc.SweepExpiredOrders(context.Background(), h.clock.Now()); err != nil {
		t.Fatalf("SweepExpiredOrders() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		result, err := h.uc.Reconcile(context.Background(), notification("pay-3", "approved"))
		if err != nil || result != domain.ResultAnomaly {
			t.Fatalf("Reconcile() #%d = %s, %v; want anomaly", i, result, err)
		}
	}
	h.uc.WaitForEvents()

	if got := h.order(t, order.ID); got.Status != domain.StatusExpired {
		t.Errorf("order status = %s, want expired", got.Status)
	}
	if status := h.ticketStatus(t, raffle.ID, 9); status != domain.TicketAvailable {
		t.Errorf("ticket 9 status = %s, want available", status)
	}
	if n := h.notifier.count(); n != 1 {
		t.Errorf("notifications = %d, want 1", n)
	}
	anomalies, err := h.uc.ListAnomalies(context.Background(), true, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(anomalies) != 1 || anomalies[0].Kind != domain.AnomalyApprovedAfterExpiry || anomalies[0].OrderID != order.ID {
		t.Errorf("anomalies = %+v, want one approved_after_expiry for %s", anomalies, order.ID)
	}
}

func TestReconcileReversalAfterPaidIsAnomaly(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	order := h.reserve(t, raffle.ID, 2)
	h.attach(t, order.ID, "pay-4")
	if _, err := h.uc.Reconcile(context.Background(), notification("pay-4", "approved")); err != nil {
		t.Fatal(err)
	}

	result, err := h.uc.Reconcile(context.Background(), notification("pay-4", "rejected"))
	if err != nil || result != domain.ResultAnomaly {
		t.Fatalf("Reconcile() = %s, %v; want anomaly", result, err)
	}
	if got := h.order(t, order.ID); got.Status != domain.StatusPaid {
		t.Errorf("order status = %s, want paid", got.Status)
	}
	if status := h.ticketStatus(t, raffle.ID, 2); status != domain.TicketPaid {
		t.Errorf("ticket 2 status = %s, want paid", status)
	}
}

func TestReconcileIgnoresUnknownInput(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	order := h.reserve(t, raffle.ID, 1)
	h.attach(t, order.ID, "pay-5")

	result, err := h.uc.Reconcile(context.Background(), notification("nope", "approved"))
	if err != nil || result != domain.ResultUnknownPayment {
		t.Errorf("Reconcile(unknown payment) = %s, %v; want unknown_payment", result, err)
	}

	result, err = h.uc.Reconcile(context.Background(), notification("pay-5", "in_process"))
	if err != nil || result != domain.ResultUnrecognized {
		t.Errorf("Reconcile(in_process) = %s, %v; want unrecognized", result, err)
	}
	if got := h.order(t, order.ID); got.Status != domain.StatusReserved {
		t.Errorf("order status = %s, want reserved", got.Status)
	}
}

func TestCancelOrder(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	order := h.reserve(t, raffle.ID, 5)

	if err := h.uc.CancelOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	got := h.order(t, order.ID)
	if got.Status != domain.StatusExpired || got.ExpireReason != domain.ExpireReasonCanceled {
		t.Errorf("order = %s/%s, want expired/canceled", got.Status, got.ExpireReason)
	}
	if status := h.ticketStatus(t, raffle.ID, 5); status != domain.TicketAvailable {
		t.Errorf("ticket 5 status = %s, want available", status)
	}

	if err := h.uc.CancelOrder(context.Background(), order.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("second CancelOrder() error = %v, want ErrInvalidTransition", err)
	}
	if err := h.uc.CancelOrder(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("CancelOrder(unknown) error = %v, want ErrOrderNotFound", err)
	}

	h.uc.WaitForEvents()
	if got := h.events.statuses(); !slices.Equal(got, []domain.OrderStatus{domain.StatusReserved, domain.StatusExpired}) {
		t.Errorf("published statuses = %v, want [reserved expired]", got)
	}
}

func TestAttachPayment(t *testing.T) {
	h := newHarness(t, usecase.Config{})
	raffle := h.seedRaffle(t, 10, domain.RafflePublished)
	first := h.reserve(t, raffle.ID, 1, 2)
	second := h.reserve(t, raffle.ID, 3)
	ctx := context.Background()

	payment, err := h.uc.AttachPayment(ctx, &orderdto.AttachPaymentInput{OrderID: first.ID, GatewayPaymentID: "pay-a"})
	if err != nil {
		t.Fatalf("AttachPayment() error = %v", err)
	}
	if payment.AmountCents != first.TotalCents || payment.Status != domain.PaymentPending {
		t.Errorf("payment = %+v, want pending for %d cents", payment, first.TotalCents)
	}

	if _, err := h.uc.AttachPayment(ctx, &orderdto.AttachPaymentInput{OrderID: first.ID, GatewayPaymentID: "pay-a"}); err != nil {
		t.Errorf("repeated AttachPayment() error = %v", err)
	}
	if _, err := h.uc.AttachPayment(ctx, &orderdto.AttachPaymentInput{OrderID: second.ID, GatewayPaymentID: "pay-a"}); !errors.Is(err, domain.ErrSettlementConflict) {
		t.Errorf("AttachPayment() to another order error = %v, want ErrSettlementConflict", err)
	}

	h.attach(t, first.ID, "pay-b")
	active, err := h.repos.Payments.GetActivePaymentByOrderID(ctx, first.ID)
	if err != nil || active.GatewayPaymentID != "pay-b" {
		t.Errorf("active payment = %+v, %v; want pay-b", active, err)
	}

	h.clock.Advance(time.Hour)
	if _, err := h.uc.AttachPayment(ctx, &orderdto.AttachPaymentInput{OrderID: second.ID, GatewayPaymentID: "pay-c"}); !errors.Is(err, domain.ErrOrderNotPayable) {
		t.Errorf("AttachPayment() on overdue order error = %v, want ErrOrderNotPayable", err)
	}
}
