package domain

import "slices"

// Allowed status edges. Anything not listed is rejected with ErrInvalidTransition.
var (
	ticketTransitions = map[TicketStatus][]TicketStatus{
		TicketAvailable: {TicketReserved},
		TicketReserved:  {TicketPaid, TicketAvailable},
		TicketPaid:      {TicketDrawn},
	}

	orderTransitions = map[OrderStatus][]OrderStatus{
		StatusReserved: {StatusPaid, StatusExpired},
	}

	raffleTransitions = map[RaffleStatus][]RaffleStatus{
		RaffleDraft:     {RafflePublished, RaffleCanceled},
		RafflePublished: {RaffleFinished, RaffleCanceled},
	}
)

func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	return slices.Contains(ticketTransitions[s], next)
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

func (s RaffleStatus) CanTransitionTo(next RaffleStatus) bool {
	return slices.Contains(raffleTransitions[s], next)
}

// IsTerminal reports whether no further order transition exists.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}
