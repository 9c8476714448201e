package orderdto

type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

type ReserveTicketsInput struct {
	RaffleID string
	Numbers  []int
	Customer CustomerInput
}

type AttachPaymentInput struct {
	OrderID          string
	GatewayPaymentID string
	AmountCents      int64
}
