package grpcapi

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	orderusecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type OperationsHandler struct {
	uc       orderusecase.OrderUsecase
	failures domain.SettlementFailureRepository
	logger   *slog.Logger
}

func NewOperationsHandler(uc orderusecase.OrderUsecase, failures domain.SettlementFailureRepository, logger *slog.Logger) *OperationsHandler {
	return &OperationsHandler{
		uc:       uc,
		failures: failures,
		logger:   logger,
	}
}

func (h *OperationsHandler) Sweep(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	released, err := h.uc.SweepExpiredOrders(ctx, h.uc.Now())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Int64(int64(released)), nil
}

// ReplayNotification reconciles either a stored failure ({"failure_id": ...})
// or a notification given inline ({"gateway_payment_id", "status", "event_id"}).
func (h *OperationsHandler) ReplayNotification(ctx context.Context, r *structpb.Struct) (*emptypb.Empty, error) {
	notification, err := h.notificationFrom(ctx, r.GetFields())
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Reconcile(ctx, notification)
	if err != nil {
		return nil, toStatus(err)
	}
	h.logger.Info("notification replayed",
		"event_id", notification.EventID,
		"gateway_payment_id", notification.GatewayPaymentID,
		"result", result,
	)
	return &emptypb.Empty{}, nil
}

func (h *OperationsHandler) notificationFrom(ctx context.Context, fields map[string]*structpb.Value) (domain.PaymentNotification, error) {
	if failureID := fields["failure_id"].GetStringValue(); failureID != "" {
		failure, err := h.failures.GetFailure(ctx, failureID)
		if err != nil {
			return domain.PaymentNotification{}, toStatus(err)
		}
		var notification domain.PaymentNotification
		if err := json.Unmarshal(failure.Payload, &notification); err != nil || notification.GatewayPaymentID == "" {
			notification = domain.PaymentNotification{
				EventID:          failure.EventID,
				GatewayPaymentID: failure.GatewayPaymentID,
				RawStatus:        failure.RawStatus,
			}
		}
		notification.ReceivedAt = h.uc.Now()
		return notification, nil
	}

	notification := domain.PaymentNotification{
		EventID:          fields["event_id"].GetStringValue(),
		GatewayPaymentID: fields["gateway_payment_id"].GetStringValue(),
		RawStatus:        fields["status"].GetStringValue(),
		ReceivedAt:       h.uc.Now(),
	}
	if notification.GatewayPaymentID == "" || notification.RawStatus == "" {
		return notification, status.Error(codes.InvalidArgument, "failure_id or gateway_payment_id and status are required")
	}
	if notification.EventID == "" {
		notification.EventID = "replay:" + notification.GatewayPaymentID + ":" + notification.RawStatus
	}
	return notification, nil
}

func (h *OperationsHandler) CancelOrder(ctx context.Context, r *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if r.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "order id is required")
	}
	if err := h.uc.CancelOrder(ctx, r.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}
