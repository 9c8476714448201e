package domain

type TicketStatus string

const (
	TicketAvailable TicketStatus = "available"
	TicketReserved  TicketStatus = "reserved"
	TicketPaid      TicketStatus = "paid"
	TicketDrawn     TicketStatus = "drawn"
)

type Ticket struct {
	ID       uint64
	RaffleID string
	Number   int
	Status   TicketStatus
	OrderID  *string
}

func (t *Ticket) IsAvailable() bool {
	return t.Status == TicketAvailable
}
