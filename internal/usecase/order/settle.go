package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// Reconcile applies one gateway notification to the order bound to its
// payment. Safe to call any number of times with the same notification.
func (uc *DefaultOrderUsecase) Reconcile(ctx context.Context, notification domain.PaymentNotification) (domain.SettlementResult, error) {
	log := uc.Logger.With(
		"gateway_payment_id", notification.GatewayPaymentID,
		"event_id", notification.EventID,
		"raw_status", notification.RawStatus,
	)

	payment, err := uc.Repos.Payments.GetPaymentByGatewayID(ctx, notification.GatewayPaymentID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		log.Warn("notification for unknown payment ignored")
		uc.recordSettlementMetrics(domain.OutcomeUnrecognized, domain.ResultUnknownPayment)
		return domain.ResultUnknownPayment, nil
	}
	if err != nil {
		return "", err
	}

	outcome := domain.MapOutcome(notification.RawStatus)
	if outcome == domain.OutcomeUnrecognized {
		log.Info("unrecognized payment status ignored", "order_id", payment.OrderID)
		uc.recordSettlementMetrics(outcome, domain.ResultUnrecognized)
		return domain.ResultUnrecognized, nil
	}

	now := uc.Now()
	var (
		result         domain.SettlementResult
		order          *domain.Order
		anomaly        *domain.SettlementAnomaly
		anomalyCreated bool
	)
	err = uc.TxManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		result, anomaly, anomalyCreated = "", nil, false

		current, err := repos.Orders.LockOrderByID(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		// AttachPayment supersedes under the same order lock.
		if payment, err = repos.Payments.GetPaymentByGatewayID(ctx, notification.GatewayPaymentID); err != nil {
			return err
		}

		switch {
		case outcome != domain.OutcomeApproved && !payment.IsActive() && payment.Status != domain.PaymentApproved:
			// A replaced payment failing says nothing about the order's live payment.
			result = domain.ResultNoop

		case outcome == domain.OutcomeApproved && current.Status == domain.StatusReserved:
			if current.Numbers, err = repos.Tickets.GetNumbersByOrder(ctx, current.ID); err != nil {
				return err
			}
			if _, err := repos.Tickets.MarkPaidByOrder(ctx, current.ID); err != nil {
				return err
			}
			if err := repos.Orders.UpdateOrderStatus(ctx, current.ID, domain.StatusReserved, domain.StatusPaid, now, ""); err != nil {
				return err
			}
			current.Status = domain.StatusPaid
			current.PaidAt = &now
			result = domain.ResultPaid

		case outcome == domain.OutcomeApproved && current.Status == domain.StatusPaid:
			result = domain.ResultNoop

		case outcome == domain.OutcomeApproved && current.Status == domain.StatusExpired:
			anomaly = newAnomaly(domain.AnomalyApprovedAfterExpiry, payment, current, notification, now)
			if anomalyCreated, err = repos.Anomalies.RecordAnomaly(ctx, anomaly); err != nil {
				return err
			}
			result = domain.ResultAnomaly

		case current.Status == domain.StatusReserved:
			// rejected or cancelled
			if current.Numbers, err = repos.Tickets.GetNumbersByOrder(ctx, current.ID); err != nil {
				return err
			}
			if _, err := repos.Tickets.ReleaseByOrder(ctx, current.ID); err != nil {
				return err
			}
			if err := repos.Orders.UpdateOrderStatus(ctx, current.ID, domain.StatusReserved, domain.StatusExpired, now, domain.ExpireReasonPaymentRejected); err != nil {
				return err
			}
			current.Status = domain.StatusExpired
			current.ExpiredAt = &now
			current.ExpireReason = domain.ExpireReasonPaymentRejected
			result = domain.ResultReleased

		case current.Status == domain.StatusExpired:
			result = domain.ResultNoop

		default:
			// rejected or cancelled after the order was paid
			anomaly = newAnomaly(domain.AnomalyReversalAfterPaid, payment, current, notification, now)
			if anomalyCreated, err = repos.Anomalies.RecordAnomaly(ctx, anomaly); err != nil {
				return err
			}
			result = domain.ResultAnomaly
		}

		if payment.Status != outcome.PaymentStatus() {
			if err := repos.Payments.UpdatePaymentStatus(ctx, payment.GatewayPaymentID, outcome.PaymentStatus()); err != nil {
				return err
			}
		}
		order = current
		return nil
	})
	if err != nil {
		log.Error("settlement failed", "order_id", payment.OrderID, "error", err)
		return "", err
	}

	uc.recordSettlementMetrics(outcome, result)
	switch result {
	case domain.ResultPaid:
		uc.recordPaidMetrics(order)
		uc.publishOrderEvent(order, "")
		log.Info("order paid", "order_id", order.ID, "numbers", order.Numbers)
	case domain.ResultReleased:
		uc.recordExpiredMetrics(domain.ExpireReasonPaymentRejected)
		uc.publishOrderEvent(order, domain.ExpireReasonPaymentRejected)
		log.Info("order released after payment failure", "order_id", order.ID, "numbers", order.Numbers)
	case domain.ResultAnomaly:
		log.Error("settlement anomaly",
			"order_id", order.ID,
			"order_status", order.Status,
			"kind", anomaly.Kind,
			"new", anomalyCreated,
		)
		if anomalyCreated {
			uc.recordAnomalyMetrics(anomaly)
			uc.notifyAnomaly(anomaly)
		}
	default:
		log.Debug("notification already applied", "order_id", order.ID, "order_status", order.Status)
	}

	return result, nil
}

func newAnomaly(kind domain.AnomalyKind, payment *domain.Payment, order *domain.Order, notification domain.PaymentNotification, now time.Time) *domain.SettlementAnomaly {
	return &domain.SettlementAnomaly{
		ID:               newID(),
		Kind:             kind,
		GatewayPaymentID: payment.GatewayPaymentID,
		OrderID:          order.ID,
		OrderStatus:      order.Status,
		RawStatus:        notification.RawStatus,
		EventID:          notification.EventID,
		CreatedAt:        now,
	}
}
