package mappers

import (
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
)

func ToDomainRaffle(model *models.RaffleModel) *domain.Raffle {
	return &domain.Raffle{
		ID:             model.ID,
		Title:          model.Title,
		UnitPriceCents: model.UnitPriceCents,
		TotalTickets:   model.TotalTickets,
		Status:         model.Status,
		PublishedAt:    model.PublishedAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMRaffle(raffle *domain.Raffle) *models.RaffleModel {
	return &models.RaffleModel{
		ID:             raffle.ID,
		Title:          raffle.Title,
		UnitPriceCents: raffle.UnitPriceCents,
		TotalTickets:   raffle.TotalTickets,
		Status:         raffle.Status,
		PublishedAt:    raffle.PublishedAt,
		CreatedAt:      raffle.CreatedAt,
		UpdatedAt:      raffle.UpdatedAt,
	}
}

func ToDomainTicket(model *models.TicketModel) *domain.Ticket {
	return &domain.Ticket{
		ID:       model.ID,
		RaffleID: model.RaffleID,
		Number:   model.Number,
		Status:   model.Status,
		OrderID:  model.OrderID,
	}
}
