package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientAvailability = errors.New("insufficient ticket availability")
	ErrInvalidReservation       = errors.New("invalid reservation request")
	ErrRaffleNotFound           = errors.New("raffle not found")
	ErrRaffleNotOpen            = errors.New("raffle is not open for reservations")
	ErrOrderNotFound            = errors.New("order not found")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrTicketNotFound           = errors.New("ticket not found")
	ErrFailureNotFound          = errors.New("settlement failure not found")
	ErrOrderNotPayable          = errors.New("order cannot accept a payment")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrInvalidRaffle            = errors.New("invalid raffle")
	ErrTransient                = errors.New("transient infrastructure failure")
	ErrSettlementConflict       = errors.New("settlement conflict")
)

// InsufficientAvailabilityError lists the requested numbers that could not be reserved.
type InsufficientAvailabilityError struct {
	RaffleID    string
	Requested   int
	Unavailable []int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("%s: raffle %s, %d of %d requested numbers unavailable",
		ErrInsufficientAvailability, e.RaffleID, len(e.Unavailable), e.Requested)
}

func (e *InsufficientAvailabilityError) Is(target error) bool {
	return target == ErrInsufficientAvailability
}

// Transient wraps err so that errors.Is(err, ErrTransient) holds.
func Transient(err error) error {
	if err == nil || errors.Is(err, ErrTransient) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
