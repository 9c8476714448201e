package mappers

import (
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		GatewayPaymentID: model.GatewayPaymentID,
		OrderID:          model.OrderID,
		Status:           model.Status,
		AmountCents:      model.AmountCents,
		SupersededAt:     model.SupersededAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		GatewayPaymentID: payment.GatewayPaymentID,
		OrderID:          payment.OrderID,
		Status:           payment.Status,
		AmountCents:      payment.AmountCents,
		SupersededAt:     payment.SupersededAt,
		CreatedAt:        payment.CreatedAt,
		UpdatedAt:        payment.UpdatedAt,
	}
}

func ToDomainAnomaly(model *models.SettlementAnomalyModel) *domain.SettlementAnomaly {
	return &domain.SettlementAnomaly{
		ID:               model.ID,
		Kind:             model.Kind,
		GatewayPaymentID: model.GatewayPaymentID,
		OrderID:          model.OrderID,
		OrderStatus:      model.OrderStatus,
		RawStatus:        model.RawStatus,
		EventID:          model.EventID,
		CreatedAt:        model.CreatedAt,
		ResolvedAt:       model.ResolvedAt,
	}
}

func ToGORMAnomaly(anomaly *domain.SettlementAnomaly) *models.SettlementAnomalyModel {
	return &models.SettlementAnomalyModel{
		ID:               anomaly.ID,
		Kind:             anomaly.Kind,
		GatewayPaymentID: anomaly.GatewayPaymentID,
		OrderID:          anomaly.OrderID,
		OrderStatus:      anomaly.OrderStatus,
		RawStatus:        anomaly.RawStatus,
		EventID:          anomaly.EventID,
		CreatedAt:        anomaly.CreatedAt,
		ResolvedAt:       anomaly.ResolvedAt,
	}
}

func ToDomainFailure(model *models.SettlementFailureModel) *domain.SettlementFailure {
	return &domain.SettlementFailure{
		ID:               model.ID,
		EventID:          model.EventID,
		GatewayPaymentID: model.GatewayPaymentID,
		RawStatus:        model.RawStatus,
		Payload:          []byte(model.Payload),
		Attempts:         model.Attempts,
		LastError:        model.LastError,
		CreatedAt:        model.CreatedAt,
	}
}

func ToGORMFailure(failure *domain.SettlementFailure) *models.SettlementFailureModel {
	return &models.SettlementFailureModel{
		ID:               failure.ID,
		EventID:          failure.EventID,
		GatewayPaymentID: failure.GatewayPaymentID,
		RawStatus:        failure.RawStatus,
		Payload:          string(failure.Payload),
		Attempts:         failure.Attempts,
		LastError:        failure.LastError,
		CreatedAt:        failure.CreatedAt,
	}
}
