package models

// All lists every persisted model, in foreign key order.
func All() []any {
	return []any{
		&RaffleModel{},
		&TicketModel{},
		&OrderModel{},
		&PaymentModel{},
		&SettlementAnomalyModel{},
		&SettlementFailureModel{},
	}
}
