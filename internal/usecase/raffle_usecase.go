package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	raffledto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/raffle"
	"github.com/google/uuid"
)

// MaxTicketsPerRaffle bounds the slots created on publication.
const MaxTicketsPerRaffle = 1_000_000

type RaffleUsecase interface {
	CreateRaffle(ctx context.Context, input *raffledto.CreateRaffleInput) (*domain.Raffle, error)
	PublishRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error)
	FinishRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error)
	CancelRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error)
	DrawTicket(ctx context.Context, input *raffledto.DrawTicketInput) error
	GetRaffleByID(ctx context.Context, raffleID string) (*domain.Raffle, error)
	Availability(ctx context.Context, raffleID string) (*domain.Availability, error)
}

type DefaultRaffleUsecase struct {
	txManager domain.TxManager
	repos     domain.Repositories
	logger    *slog.Logger
	clock     func() time.Time
}

func NewDefaultRaffleUsecase(txManager domain.TxManager, repos domain.Repositories, logger *slog.Logger) *DefaultRaffleUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultRaffleUsecase{
		txManager: txManager,
		repos:     repos,
		logger:    logger.With("component", "raffle_usecase"),
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *DefaultRaffleUsecase) CreateRaffle(ctx context.Context, input *raffledto.CreateRaffleInput) (*domain.Raffle, error) {
	title := strings.TrimSpace(input.Title)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidRaffle)
	case input.UnitPriceCents <= 0:
		return nil, fmt.Errorf("%w: unit price must be positive", domain.ErrInvalidRaffle)
	case input.TotalTickets < 1 || input.TotalTickets > MaxTicketsPerRaffle:
		return nil, fmt.Errorf("%w: total tickets must be within 1..%d", domain.ErrInvalidRaffle, MaxTicketsPerRaffle)
	}

	now := uc.clock()
	raffle := &domain.Raffle{
		ID:             uuid.New().String(),
		Title:          title,
		UnitPriceCents: input.UnitPriceCents,
		TotalTickets:   input.TotalTickets,
		Status:         domain.RaffleDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repos.Raffles.CreateRaffle(ctx, raffle); err != nil {
		return nil, err
	}

	uc.logger.Info("raffle created", "raffle_id", raffle.ID, "total_tickets", raffle.TotalTickets)
	return raffle, nil
}

// PublishRaffle opens a draft raffle and creates its ticket slots in the same transaction.
func (uc *DefaultRaffleUsecase) PublishRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	return uc.transition(ctx, raffleID, domain.RafflePublished, func(ctx context.Context, repos domain.Repositories, raffle *domain.Raffle) error {
		return repos.Tickets.CreateTickets(ctx, raffle.ID, raffle.TotalTickets)
	})
}

// FinishRaffle closes a published raffle. Outstanding reservations still
// settle or expire as usual.
func (uc *DefaultRaffleUsecase) FinishRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	return uc.transition(ctx, raffleID, domain.RaffleFinished, nil)
}

func (uc *DefaultRaffleUsecase) CancelRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	return uc.transition(ctx, raffleID, domain.RaffleCanceled, nil)
}

func (uc *DefaultRaffleUsecase) transition(
	ctx context.Context,
	raffleID string,
	to domain.RaffleStatus,
	inTx func(ctx context.Context, repos domain.Repositories, raffle *domain.Raffle) error,
) (*domain.Raffle, error) {
	now := uc.clock()
	var raffle *domain.Raffle
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		current, err := repos.Raffles.LockRaffleByID(ctx, raffleID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(to) {
			return fmt.Errorf("%w: raffle %s is %s", domain.ErrInvalidTransition, raffleID, current.Status)
		}
		if inTx != nil {
			if err := inTx(ctx, repos, current); err != nil {
				return err
			}
		}
		if err := repos.Raffles.UpdateRaffleStatus(ctx, raffleID, current.Status, to, now); err != nil {
			return err
		}

		current.Status = to
		current.UpdatedAt = now
		if to == domain.RafflePublished {
			current.PublishedAt = &now
		}
		raffle = current
		return nil
	})
	if err != nil {
		uc.logger.Warn("raffle transition failed", "raffle_id", raffleID, "to", to, "error", err)
		return nil, err
	}

	uc.logger.Info("raffle status changed", "raffle_id", raffleID, "status", to)
	return raffle, nil
}

// DrawTicket marks a paid ticket of a finished raffle as drawn.
func (uc *DefaultRaffleUsecase) DrawTicket(ctx context.Context, input *raffledto.DrawTicketInput) error {
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		raffle, err := repos.Raffles.LockRaffleByID(ctx, input.RaffleID)
		if err != nil {
			return err
		}
		if raffle.Status != domain.RaffleFinished {
			return fmt.Errorf("%w: raffle %s is %s", domain.ErrInvalidTransition, raffle.ID, raffle.Status)
		}
		return repos.Tickets.MarkDrawn(ctx, raffle.ID, input.Number)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("ticket drawn", "raffle_id", input.RaffleID, "number", input.Number)
	return nil
}

func (uc *DefaultRaffleUsecase) GetRaffleByID(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	return uc.repos.Raffles.GetRaffleByID(ctx, raffleID)
}

func (uc *DefaultRaffleUsecase) Availability(ctx context.Context, raffleID string) (*domain.Availability, error) {
	raffle, err := uc.repos.Raffles.GetRaffleByID(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.repos.Tickets.CountByStatus(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	return &domain.Availability{
		RaffleID:  raffle.ID,
		Total:     raffle.TotalTickets,
		Available: counts[domain.TicketAvailable],
		Reserved:  counts[domain.TicketReserved],
		Paid:      counts[domain.TicketPaid],
		Drawn:     counts[domain.TicketDrawn],
	}, nil
}
