package background

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	publisher "github.com/LavaJover/shvark-raffle-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	orderusecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
	"github.com/google/uuid"
)

// SettlementWorker consumes queued payment notifications and reconciles
// them. A notification that cannot be settled is stored for replay and its
// message is still committed.
type SettlementWorker struct {
	subscriber domain.SubscriberPort
	topic      string
	groupID    string
	usecase    orderusecase.OrderUsecase
	failures   domain.SettlementFailureRepository
	retrier    *Retrier
	metrics    *metrics.RaffleMetrics
	logger     *slog.Logger
}

func NewSettlementWorker(
	subscriber domain.SubscriberPort,
	topic, groupID string,
	uc orderusecase.OrderUsecase,
	failures domain.SettlementFailureRepository,
	retrier *Retrier,
	workerMetrics *metrics.RaffleMetrics,
	logger *slog.Logger,
) *SettlementWorker {
	return &SettlementWorker{
		subscriber: subscriber,
		topic:      topic,
		groupID:    groupID,
		usecase:    uc,
		failures:   failures,
		retrier:    retrier,
		metrics:    workerMetrics,
		logger:     logger.With("component", "settlement_worker"),
	}
}

// Run blocks until ctx is done or the subscriber fails.
func (w *SettlementWorker) Run(ctx context.Context) error {
	w.logger.Info("settlement worker started", "topic", w.topic, "group_id", w.groupID)
	return w.subscriber.Consume(ctx, w.topic, w.groupID, w.Handle)
}

func (w *SettlementWorker) Handle(ctx context.Context, msg domain.Message) error {
	notification, err := publisher.DecodeNotification(msg)
	if err != nil {
		w.logger.Error("undecodable notification", "key", string(msg.Key), "error", err)
		w.recordFailure(ctx, domain.PaymentNotification{GatewayPaymentID: string(msg.Key)}, msg.Value, 1, err)
		return err
	}

	var result domain.SettlementResult
	attempts, err := w.retrier.Do(ctx, "settlement", func(ctx context.Context) error {
		var reconcileErr error
		result, reconcileErr = w.usecase.Reconcile(ctx, notification)
		return reconcileErr
	})
	if err != nil {
		if ctx.Err() != nil {
			// Interrupted by shutdown. Kafka redelivers the uncommitted message;
			// the stored copy covers queues that do not.
			err = fmt.Errorf("interrupted after %d attempts: %w", attempts, err)
		}
		w.recordFailure(ctx, notification, msg.Value, attempts, err)
		return err
	}

	w.logger.Debug("notification settled",
		"event_id", notification.EventID,
		"gateway_payment_id", notification.GatewayPaymentID,
		"result", result,
		"attempts", attempts,
	)
	return nil
}

func (w *SettlementWorker) recordFailure(ctx context.Context, notification domain.PaymentNotification, payload []byte, attempts int, cause error) {
	failure := &domain.SettlementFailure{
		ID:               uuid.NewString(),
		EventID:          notification.EventID,
		GatewayPaymentID: notification.GatewayPaymentID,
		RawStatus:        notification.RawStatus,
		Payload:          payload,
		Attempts:         attempts,
		LastError:        cause.Error(),
		CreatedAt:        w.usecase.Now(),
	}
	if w.metrics != nil {
		w.metrics.RecordSettlementFailure()
	}
	w.logger.Error("settlement failed permanently, stored for replay",
		"failure_id", failure.ID,
		"event_id", failure.EventID,
		"gateway_payment_id", failure.GatewayPaymentID,
		"raw_status", failure.RawStatus,
		"attempts", attempts,
		"error", cause,
	)
	if err := w.failures.RecordFailure(context.WithoutCancel(ctx), failure); err != nil {
		w.logger.Error("failed to store settlement failure", "failure_id", failure.ID, "error", err)
	}
}
