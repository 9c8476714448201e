package domain

import (
	"context"
	"time"
)

type RaffleRepository interface {
	CreateRaffle(ctx context.Context, raffle *Raffle) error
	GetRaffleByID(ctx context.Context, raffleID string) (*Raffle, error)
	LockRaffleByID(ctx context.Context, raffleID string) (*Raffle, error)
	UpdateRaffleStatus(ctx context.Context, raffleID string, from, to RaffleStatus, at time.Time) error
}

type TicketRepository interface {
	// CreateTickets inserts slots 1..total for the raffle.
	CreateTickets(ctx context.Context, raffleID string, total int) error
	// LockTickets locks the rows of the given numbers in ascending number order.
	// Numbers without a row are absent from the result.
	LockTickets(ctx context.Context, raffleID string, numbers []int) ([]*Ticket, error)
	AssignToOrder(ctx context.Context, ticketIDs []uint64, orderID string) error
	ReleaseByOrder(ctx context.Context, orderID string) (int64, error)
	MarkPaidByOrder(ctx context.Context, orderID string) (int64, error)
	MarkDrawn(ctx context.Context, raffleID string, number int) error
	GetNumbersByOrder(ctx context.Context, orderID string) ([]int, error)
	CountByStatus(ctx context.Context, raffleID string) (map[TicketStatus]int, error)
}

// ExpiredCursor is the keyset position of the last order seen by a sweep.
type ExpiredCursor struct {
	ExpiresAt time.Time
	ID        string
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*Order, error)
	LockOrderByID(ctx context.Context, orderID string) (*Order, error)
	// UpdateOrderStatus moves the order from -> to, failing with
	// ErrInvalidTransition when the stored status is not from.
	UpdateOrderStatus(ctx context.Context, orderID string, from, to OrderStatus, at time.Time, reason string) error
	FindExpiredOrders(ctx context.Context, now time.Time, after *ExpiredCursor, limit int) ([]*Order, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByGatewayID(ctx context.Context, gatewayPaymentID string) (*Payment, error)
	GetActivePaymentByOrderID(ctx context.Context, orderID string) (*Payment, error)
	SupersedePayments(ctx context.Context, orderID string, at time.Time) error
	UpdatePaymentStatus(ctx context.Context, gatewayPaymentID string, status PaymentStatus) error
}

type AnomalyRepository interface {
	// RecordAnomaly stores the anomaly once per (payment, kind) and reports
	// whether a new row was written.
	RecordAnomaly(ctx context.Context, anomaly *SettlementAnomaly) (bool, error)
	ListAnomalies(ctx context.Context, unresolvedOnly bool, limit int) ([]*SettlementAnomaly, error)
}

type SettlementFailureRepository interface {
	RecordFailure(ctx context.Context, failure *SettlementFailure) error
	GetFailure(ctx context.Context, failureID string) (*SettlementFailure, error)
}

// Repositories are bound to one database handle, either the pool or a transaction.
type Repositories struct {
	Raffles   RaffleRepository
	Tickets   TicketRepository
	Orders    OrderRepository
	Payments  PaymentRepository
	Anomalies AnomalyRepository
}

type TxManager interface {
	// WithinTransaction runs fn with repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
