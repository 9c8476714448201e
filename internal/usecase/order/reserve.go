package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/order"
)

// ReserveTickets atomically reserves every requested number for a new order,
// or none of them.
func (uc *DefaultOrderUsecase) ReserveTickets(ctx context.Context, input *orderdto.ReserveTicketsInput) (*orderdto.OrderOutput, error) {
	started := time.Now()

	numbers, err := uc.normalizeNumbers(input)
	if err != nil {
		uc.recordReservationMetrics("invalid", input.RaffleID, 0, 0, time.Since(started))
		return nil, err
	}

	now := uc.Now()
	var order *domain.Order
	err = uc.TxManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		raffle, err := repos.Raffles.GetRaffleByID(ctx, input.RaffleID)
		if err != nil {
			return err
		}
		if raffle.Status != domain.RafflePublished {
			return fmt.Errorf("%w: raffle %s is %s", domain.ErrRaffleNotOpen, raffle.ID, raffle.Status)
		}
		for _, number := range numbers {
			if !raffle.HasNumber(number) {
				return fmt.Errorf("%w: number %d outside 1..%d", domain.ErrInvalidReservation, number, raffle.TotalTickets)
			}
		}

		tickets, err := repos.Tickets.LockTickets(ctx, raffle.ID, numbers)
		if err != nil {
			return err
		}
		ticketIDs, unavailable := partitionTickets(numbers, tickets)
		if len(unavailable) > 0 {
			return &domain.InsufficientAvailabilityError{
				RaffleID:    raffle.ID,
				Requested:   len(numbers),
				Unavailable: unavailable,
			}
		}

		order = &domain.Order{
			ID:        newID(),
			Reference: uc.newReference(),
			RaffleID:  raffle.ID,
			Customer: domain.Customer{
				Name:  strings.TrimSpace(input.Customer.Name),
				Email: strings.TrimSpace(input.Customer.Email),
				Phone: strings.TrimSpace(input.Customer.Phone),
			},
			TotalCents: raffle.UnitPriceCents * int64(len(numbers)),
			Status:     domain.StatusReserved,
			ExpiresAt:  now.Add(uc.Config.ReservationWindow),
			CreatedAt:  now,
			UpdatedAt:  now,
			Numbers:    numbers,
		}
		if err := repos.Orders.CreateOrder(ctx, order); err != nil {
			return err
		}
		return repos.Tickets.AssignToOrder(ctx, ticketIDs, order.ID)
	})
	if err != nil {
		result := reservationResult(err)
		uc.recordReservationMetrics(result, input.RaffleID, 0, 0, time.Since(started))

		var insufficient *domain.InsufficientAvailabilityError
		switch {
		case errors.As(err, &insufficient):
			uc.Logger.Info("reservation rejected",
				"raffle_id", input.RaffleID,
				"requested", numbers,
				"unavailable", insufficient.Unavailable,
			)
		case domain.IsTransient(err):
			uc.Logger.Warn("reservation failed on contention", "raffle_id", input.RaffleID, "error", err)
		case result == "error":
			uc.Logger.Error("reservation failed", "raffle_id", input.RaffleID, "error", err)
		}
		return nil, err
	}

	uc.recordReservationMetrics("reserved", order.RaffleID, len(numbers), order.TotalCents, time.Since(started))
	uc.Logger.Info("tickets reserved",
		"order_id", order.ID,
		"raffle_id", order.RaffleID,
		"numbers", numbers,
		"expires_at", order.ExpiresAt,
	)
	uc.publishOrderEvent(order, "")

	return orderdto.ToOrderOutput(order), nil
}

// normalizeNumbers validates the request and returns its numbers sorted ascending.
func (uc *DefaultOrderUsecase) normalizeNumbers(input *orderdto.ReserveTicketsInput) ([]int, error) {
	if input == nil || strings.TrimSpace(input.RaffleID) == "" {
		return nil, fmt.Errorf("%w: raffle id is required", domain.ErrInvalidReservation)
	}
	if len(input.Numbers) == 0 {
		return nil, fmt.Errorf("%w: at least one number is required", domain.ErrInvalidReservation)
	}
	if uc.Config.MaxNumbers > 0 && len(input.Numbers) > uc.Config.MaxNumbers {
		return nil, fmt.Errorf("%w: at most %d numbers per order", domain.ErrInvalidReservation, uc.Config.MaxNumbers)
	}

	numbers := slices.Clone(input.Numbers)
	slices.Sort(numbers)
	for i, number := range numbers {
		if number < 1 {
			return nil, fmt.Errorf("%w: number %d is not positive", domain.ErrInvalidReservation, number)
		}
		if i > 0 && numbers[i-1] == number {
			return nil, fmt.Errorf("%w: number %d requested twice", domain.ErrInvalidReservation, number)
		}
	}
	return numbers, nil
}

// partitionTickets splits the requested numbers into the ids of available
// locked rows and the numbers that are taken or do not exist.
func partitionTickets(numbers []int, locked []*domain.Ticket) ([]uint64, []int) {
	byNumber := make(map[int]*domain.Ticket, len(locked))
	for _, ticket := range locked {
		byNumber[ticket.Number] = ticket
	}

	ids := make([]uint64, 0, len(numbers))
	var unavailable []int
	for _, number := range numbers {
		ticket, ok := byNumber[number]
		if !ok || !ticket.IsAvailable() {
			unavailable = append(unavailable, number)
			continue
		}
		ids = append(ids, ticket.ID)
	}
	return ids, unavailable
}

func reservationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientAvailability):
		return "insufficient"
	case domain.IsTransient(err):
		return "transient"
	case errors.Is(err, domain.ErrInvalidReservation),
		errors.Is(err, domain.ErrRaffleNotFound),
		errors.Is(err, domain.ErrRaffleNotOpen):
		return "invalid"
	default:
		return "error"
	}
}
