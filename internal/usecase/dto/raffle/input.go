package raffledto

type CreateRaffleInput struct {
	Title          string
	UnitPriceCents int64
	TotalTickets   int
}

type DrawTicketInput struct {
	RaffleID string
	Number   int
}
