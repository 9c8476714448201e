package usecase

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

func (uc *DefaultOrderUsecase) recordReservationMetrics(result, raffleID string, tickets int, amountCents int64, took time.Duration) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordReservation(result, raffleID, tickets, amountCents, took)
}

func (uc *DefaultOrderUsecase) recordSweepMetrics(result string, failed int, took time.Duration) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordSweep(result, failed, took)
}

func (uc *DefaultOrderUsecase) recordExpiredMetrics(reason string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordExpired(reason)
}

func (uc *DefaultOrderUsecase) recordSettlementMetrics(outcome domain.SettlementOutcome, result domain.SettlementResult) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordSettlement(string(outcome), string(result))
}

func (uc *DefaultOrderUsecase) recordPaidMetrics(order *domain.Order) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordPaid(order.TotalCents)
}

func (uc *DefaultOrderUsecase) recordAnomalyMetrics(anomaly *domain.SettlementAnomaly) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordAnomaly(string(anomaly.Kind))
}
