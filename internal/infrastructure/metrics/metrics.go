package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RaffleMetrics holds the reservation, sweep and settlement metrics.
type RaffleMetrics struct {
	// Reservations
	ReservationsTotal      *prometheus.CounterVec
	ReservedTicketsTotal   *prometheus.CounterVec
	ReservationAmountTotal *prometheus.CounterVec
	ReservationDuration    *prometheus.HistogramVec

	// Expiration
	SweepRunsTotal          *prometheus.CounterVec
	OrdersExpiredTotal      *prometheus.CounterVec
	SweepOrderFailuresTotal prometheus.Counter
	SweepDuration           prometheus.Histogram

	// Settlement
	SettlementsTotal        *prometheus.CounterVec
	PaidAmountTotal         prometheus.Counter
	AnomaliesTotal          *prometheus.CounterVec
	SettlementRetriesTotal  prometheus.Counter
	SettlementFailuresTotal prometheus.Counter

	// Webhooks
	WebhookRequestsTotal *prometheus.CounterVec
}

// NewRaffleMetrics registers the metrics with reg. A nil reg uses the
// default prometheus registerer.
func NewRaffleMetrics(reg prometheus.Registerer) *RaffleMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &RaffleMetrics{
		ReservationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_reservations_total",
				Help: "Reservation attempts by result",
			},
			[]string{"result"},
		),
		ReservedTicketsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_reserved_tickets_total",
				Help: "Tickets moved to reserved",
			},
			[]string{"raffle_id"},
		),
		ReservationAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_reservation_amount_cents_total",
				Help: "Sum of reserved order totals in cents",
			},
			[]string{"raffle_id"},
		),
		ReservationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raffle_reservation_duration_seconds",
				Help:    "Reservation transaction latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		SweepRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_sweep_runs_total",
				Help: "Expiration sweep passes by result",
			},
			[]string{"result"},
		),
		OrdersExpiredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_orders_expired_total",
				Help: "Orders moved to expired by reason",
			},
			[]string{"reason"},
		),
		SweepOrderFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "raffle_sweep_order_failures_total",
				Help: "Orders a sweep pass failed to release",
			},
		),
		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "raffle_sweep_duration_seconds",
				Help:    "Expiration sweep pass latency",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
		),
		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_settlements_total",
				Help: "Payment notifications reconciled by outcome and result",
			},
			[]string{"outcome", "result"},
		),
		PaidAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "raffle_paid_amount_cents_total",
				Help: "Sum of paid order totals in cents",
			},
		),
		AnomaliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_settlement_anomalies_total",
				Help: "Settlement anomalies recorded by kind",
			},
			[]string{"kind"},
		),
		SettlementRetriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "raffle_settlement_retries_total",
				Help: "Retries of transient sweep and settlement failures",
			},
		),
		SettlementFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "raffle_settlement_failures_total",
				Help: "Notifications that exhausted their retries",
			},
		),
		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_webhook_requests_total",
				Help: "Gateway webhook requests by result",
			},
			[]string{"result"},
		),
	}
}

func (m *RaffleMetrics) RecordReservation(result string, raffleID string, tickets int, amountCents int64, took time.Duration) {
	m.ReservationsTotal.WithLabelValues(result).Inc()
	m.ReservationDuration.WithLabelValues(result).Observe(took.Seconds())
	if tickets > 0 {
		m.ReservedTicketsTotal.WithLabelValues(raffleID).Add(float64(tickets))
		m.ReservationAmountTotal.WithLabelValues(raffleID).Add(float64(amountCents))
	}
}

func (m *RaffleMetrics) RecordSweep(result string, failed int, took time.Duration) {
	m.SweepRunsTotal.WithLabelValues(result).Inc()
	m.SweepDuration.Observe(took.Seconds())
	m.SweepOrderFailuresTotal.Add(float64(failed))
}

func (m *RaffleMetrics) RecordExpired(reason string) {
	m.OrdersExpiredTotal.WithLabelValues(reason).Inc()
}

func (m *RaffleMetrics) RecordSettlement(outcome, result string) {
	m.SettlementsTotal.WithLabelValues(outcome, result).Inc()
}

func (m *RaffleMetrics) RecordPaid(amountCents int64) {
	m.PaidAmountTotal.Add(float64(amountCents))
}

func (m *RaffleMetrics) RecordAnomaly(kind string) {
	m.AnomaliesTotal.WithLabelValues(kind).Inc()
}

func (m *RaffleMetrics) RecordSettlementRetry() {
	m.SettlementRetriesTotal.Inc()
}

func (m *RaffleMetrics) RecordSettlementFailure() {
	m.SettlementFailuresTotal.Inc()
}

func (m *RaffleMetrics) RecordWebhook(result string) {
	m.WebhookRequestsTotal.WithLabelValues(result).Inc()
}
