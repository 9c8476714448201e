package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/order"
)

// AttachPayment binds a gateway payment to a reserved order. A new payment
// supersedes the order's previous one. Attaching the same gateway id twice
// returns the existing binding.
func (uc *DefaultOrderUsecase) AttachPayment(ctx context.Context, input *orderdto.AttachPaymentInput) (*orderdto.PaymentOutput, error) {
	if input == nil || strings.TrimSpace(input.OrderID) == "" || strings.TrimSpace(input.GatewayPaymentID) == "" {
		return nil, fmt.Errorf("%w: order id and gateway payment id are required", domain.ErrInvalidReservation)
	}
	if input.AmountCents < 0 {
		return nil, fmt.Errorf("%w: negative payment amount", domain.ErrInvalidReservation)
	}

	now := uc.Now()
	var payment *domain.Payment
	err := uc.TxManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		order, err := repos.Orders.LockOrderByID(ctx, input.OrderID)
		if err != nil {
			return err
		}

		existing, err := repos.Payments.GetPaymentByGatewayID(ctx, input.GatewayPaymentID)
		switch {
		case err == nil && existing.OrderID == order.ID:
			payment = existing
			return nil
		case err == nil:
			return fmt.Errorf("%w: payment %s is bound to another order", domain.ErrSettlementConflict, input.GatewayPaymentID)
		case !errors.Is(err, domain.ErrPaymentNotFound):
			return err
		}

		if order.Status != domain.StatusReserved || order.IsOverdue(now) {
			return fmt.Errorf("%w: order %s is %s, expires at %s", domain.ErrOrderNotPayable, order.ID, order.Status, order.ExpiresAt)
		}

		amount := input.AmountCents
		if amount == 0 {
			amount = order.TotalCents
		}
		if err := repos.Payments.SupersedePayments(ctx, order.ID, now); err != nil {
			return err
		}
		payment = &domain.Payment{
			GatewayPaymentID: strings.TrimSpace(input.GatewayPaymentID),
			OrderID:          order.ID,
			Status:           domain.PaymentPending,
			AmountCents:      amount,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return repos.Payments.CreatePayment(ctx, payment)
	})
	if err != nil {
		uc.Logger.Warn("failed to attach payment",
			"order_id", input.OrderID,
			"gateway_payment_id", input.GatewayPaymentID,
			"error", err,
		)
		return nil, err
	}

	uc.Logger.Info("payment attached", "order_id", payment.OrderID, "gateway_payment_id", payment.GatewayPaymentID)
	return orderdto.ToPaymentOutput(payment), nil
}
