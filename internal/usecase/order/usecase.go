package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	orderdto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/order"
	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type OrderUsecase interface {
	ReserveTickets(ctx context.Context, input *orderdto.ReserveTicketsInput) (*orderdto.OrderOutput, error)
	SweepExpiredOrders(ctx context.Context, now time.Time) (int, error)
	CancelOrder(ctx context.Context, orderID string) error
	Reconcile(ctx context.Context, notification domain.PaymentNotification) (domain.SettlementResult, error)
	AttachPayment(ctx context.Context, input *orderdto.AttachPaymentInput) (*orderdto.PaymentOutput, error)

	GetOrderByID(ctx context.Context, orderID string) (*orderdto.OrderOutput, error)
	GetOrderByReference(ctx context.Context, reference string) (*orderdto.OrderOutput, error)
	ListAnomalies(ctx context.Context, unresolvedOnly bool, limit int) ([]*domain.SettlementAnomaly, error)
	Now() time.Time
}

type Config struct {
	ReservationWindow time.Duration
	MaxNumbers        int
	SweepBatchSize    int
}

type DefaultOrderUsecase struct {
	TxManager domain.TxManager
	// Repos are bound to the connection pool and only used outside transactions.
	Repos    domain.Repositories
	Events   domain.OrderEventPublisher
	Notifier domain.AnomalyNotifier
	Metrics  *metrics.RaffleMetrics
	Logger   *slog.Logger
	Clock    func() time.Time
	Config   Config

	newReference func() string
	background   sync.WaitGroup
}

func NewDefaultOrderUsecase(
	txManager domain.TxManager,
	repos domain.Repositories,
	events domain.OrderEventPublisher,
	notifier domain.AnomalyNotifier,
	orderMetrics *metrics.RaffleMetrics,
	logger *slog.Logger,
	cfg Config,
) (*DefaultOrderUsecase, error) {
	referenceGenerator, err := nanoid.CustomASCII(referenceAlphabet, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to init reference generator: %w", err)
	}
	if cfg.ReservationWindow <= 0 {
		cfg.ReservationWindow = 30 * time.Minute
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = 500
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultOrderUsecase{
		TxManager:    txManager,
		Repos:        repos,
		Events:       events,
		Notifier:     notifier,
		Metrics:      orderMetrics,
		Logger:       logger.With("component", "order_usecase"),
		Clock:        func() time.Time { return time.Now().UTC() },
		Config:       cfg,
		newReference: referenceGenerator,
	}, nil
}

// Now is the usecase clock, always in UTC.
func (uc *DefaultOrderUsecase) Now() time.Time {
	return uc.Clock().UTC()
}

func newID() string {
	return uuid.New().String()
}
