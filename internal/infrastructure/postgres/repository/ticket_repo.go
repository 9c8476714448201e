package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ticketInsertBatch = 1000

type DefaultTicketRepository struct {
	DB *gorm.DB
}

func NewDefaultTicketRepository(db *gorm.DB) *DefaultTicketRepository {
	return &DefaultTicketRepository{DB: db}
}

func (r *DefaultTicketRepository) CreateTickets(ctx context.Context, raffleID string, total int) error {
	tickets := make([]models.TicketModel, 0, min(total, ticketInsertBatch))
	for number := 1; number <= total; number++ {
		tickets = append(tickets, models.TicketModel{
			RaffleID: raffleID,
			Number:   number,
			Status:   domain.TicketAvailable,
		})
		if len(tickets) == ticketInsertBatch || number == total {
			if err := r.DB.WithContext(ctx).Create(&tickets).Error; err != nil {
				return fmt.Errorf("failed to create tickets: %w", classify(err, nil))
			}
			tickets = tickets[:0]
		}
	}
	return nil
}

// LockTickets takes row locks in ascending number order so that overlapping
// reservations queue behind each other instead of deadlocking.
func (r *DefaultTicketRepository) LockTickets(ctx context.Context, raffleID string, numbers []int) ([]*domain.Ticket, error) {
	var rows []models.TicketModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("raffle_id = ? AND number IN ?", raffleID, numbers).
		Order("number ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to lock tickets: %w", classify(err, nil))
	}

	tickets := make([]*domain.Ticket, 0, len(rows))
	for i := range rows {
		tickets = append(tickets, mappers.ToDomainTicket(&rows[i]))
	}
	return tickets, nil
}

func (r *DefaultTicketRepository) AssignToOrder(ctx context.Context, ticketIDs []uint64, orderID string) error {
	res := r.DB.WithContext(ctx).Model(&models.TicketModel{}).
		Where("id IN ? AND status = ?", ticketIDs, domain.TicketAvailable).
		Updates(map[string]any{"status": domain.TicketReserved, "order_id": orderID})
	if res.Error != nil {
		return fmt.Errorf("failed to assign tickets: %w", classify(res.Error, nil))
	}
	if res.RowsAffected != int64(len(ticketIDs)) {
		return fmt.Errorf("%w: assigned %d of %d tickets", domain.ErrInvalidTransition, res.RowsAffected, len(ticketIDs))
	}
	return nil
}

// ReleaseByOrder returns the order's reserved tickets to the pool. Paid or
// drawn tickets are never touched.
func (r *DefaultTicketRepository) ReleaseByOrder(ctx context.Context, orderID string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.TicketModel{}).
		Where("order_id = ? AND status = ?", orderID, domain.TicketReserved).
		Updates(map[string]any{"status": domain.TicketAvailable, "order_id": nil})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to release tickets: %w", classify(res.Error, nil))
	}
	return res.RowsAffected, nil
}

func (r *DefaultTicketRepository) MarkPaidByOrder(ctx context.Context, orderID string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.TicketModel{}).
		Where("order_id = ? AND status = ?", orderID, domain.TicketReserved).
		Update("status", domain.TicketPaid)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark tickets paid: %w", classify(res.Error, nil))
	}
	return res.RowsAffected, nil
}

func (r *DefaultTicketRepository) MarkDrawn(ctx context.Context, raffleID string, number int) error {
	var ticket models.TicketModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ticket, "raffle_id = ? AND number = ?", raffleID, number).Error; err != nil {
		return classify(err, domain.ErrTicketNotFound)
	}
	if !ticket.Status.CanTransitionTo(domain.TicketDrawn) {
		return fmt.Errorf("%w: ticket %d is %s", domain.ErrInvalidTransition, number, ticket.Status)
	}

	if err := r.DB.WithContext(ctx).Model(&ticket).Update("status", domain.TicketDrawn).Error; err != nil {
		return fmt.Errorf("failed to mark ticket drawn: %w", classify(err, nil))
	}
	return nil
}

func (r *DefaultTicketRepository) GetNumbersByOrder(ctx context.Context, orderID string) ([]int, error) {
	var numbers []int
	if err := r.DB.WithContext(ctx).Model(&models.TicketModel{}).
		Where("order_id = ?", orderID).
		Order("number ASC").
		Pluck("number", &numbers).Error; err != nil {
		return nil, fmt.Errorf("failed to get order numbers: %w", classify(err, nil))
	}
	return numbers, nil
}

func (r *DefaultTicketRepository) CountByStatus(ctx context.Context, raffleID string) (map[domain.TicketStatus]int, error) {
	var rows []struct {
		Status domain.TicketStatus
		Count  int
	}
	if err := r.DB.WithContext(ctx).Model(&models.TicketModel{}).
		Select("status, count(*) AS count").
		Where("raffle_id = ?", raffleID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", classify(err, nil))
	}

	counts := make(map[domain.TicketStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
