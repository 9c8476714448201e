package request

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ReserveTicketsRequest struct {
	Numbers  []int           `json:"numbers"`
	Customer CustomerRequest `json:"customer"`
}

type AttachPaymentRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id"`
	AmountCents      int64  `json:"amount_cents"`
}
