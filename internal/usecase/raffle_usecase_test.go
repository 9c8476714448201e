package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-raffle-service/internal/testutil/dbtest"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase"
	raffledto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/raffle"
	"github.com/google/uuid"
)

func newRaffleUsecase(t *testing.T) (*usecase.DefaultRaffleUsecase, domain.Repositories) {
	t.Helper()
	db := dbtest.New(t)
	repos := repository.NewRepositories(db)
	return usecase.NewDefaultRaffleUsecase(repository.NewGormTxManager(db, 0), repos, nil), repos
}

func TestCreateRaffleValidates(t *testing.T) {
	uc, _ := newRaffleUsecase(t)

	tests := []struct {
		name  string
		input raffledto.CreateRaffleInput
	}{
		{"blank title", raffledto.CreateRaffleInput{Title: " ", UnitPriceCents: 100, TotalTickets: 10}},
		{"free", raffledto.CreateRaffleInput{Title: "Car", TotalTickets: 10}},
		{"no tickets", raffledto.CreateRaffleInput{Title: "Car", UnitPriceCents: 100}},
		{"too many tickets", raffledto.CreateRaffleInput{Title: "Car", UnitPriceCents: 100, TotalTickets: usecase.MaxTicketsPerRaffle + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.CreateRaffle(context.Background(), &tt.input); !errors.Is(err, domain.ErrInvalidRaffle) {
				t.Errorf("CreateRaffle() error = %v, want ErrInvalidRaffle", err)
			}
		})
	}
}

func TestRaffleLifecycle(t *testing.T) {
	uc, repos := newRaffleUsecase(t)
	ctx := context.Background()

	raffle, err := uc.CreateRaffle(ctx, &raffledto.CreateRaffleInput{Title: "Car", UnitPriceCents: 500, TotalTickets: 5})
	if err != nil {
		t.Fatalf("CreateRaffle() error = %v", err)
	}
	if raffle.Status != domain.RaffleDraft {
		t.Fatalf("Status = %s, want draft", raffle.Status)
	}

	published, err := uc.PublishRaffle(ctx, raffle.ID)
	if err != nil {
		t.Fatalf("PublishRaffle() error = %v", err)
	}
	if published.Status != domain.RafflePublished || published.PublishedAt == nil {
		t.Errorf("published = %+v, want published with PublishedAt", published)
	}
	if _, err := uc.PublishRaffle(ctx, raffle.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("second PublishRaffle() error = %v, want ErrInvalidTransition", err)
	}

	availability, err := uc.Availability(ctx, raffle.ID)
	if err != nil {
		t.Fatalf("Availability() error = %v", err)
	}
	if availability.Total != 5 || availability.Available != 5 {
		t.Errorf("availability = %+v, want 5 of 5 available", availability)
	}

	// Sell ticket 3.
	now := time.Now().UTC().Truncate(time.Second)
	order := &domain.Order{
		ID:         uuid.NewString(),
		Reference:  "REF3",
		RaffleID:   raffle.ID,
		TotalCents: 500,
		Status:     domain.StatusReserved,
		ExpiresAt:  now.Add(time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repos.Orders.CreateOrder(ctx, order); err != nil {
		t.Fatal(err)
	}
	tickets, err := repos.Tickets.LockTickets(ctx, raffle.ID, []int{3})
	if err != nil || len(tickets) != 1 {
		t.Fatalf("LockTickets() = %v, %v", tickets, err)
	}
	if err := repos.Tickets.AssignToOrder(ctx, []uint64{tickets[0].ID}, order.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.Tickets.MarkPaidByOrder(ctx, order.ID); err != nil {
		t.Fatal(err)
	}

	draw := &raffledto.DrawTicketInput{RaffleID: raffle.ID, Number: 3}
	if err := uc.DrawTicket(ctx, draw); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("DrawTicket() on published raffle error = %v, want ErrInvalidTransition", err)
	}

	if _, err := uc.FinishRaffle(ctx, raffle.ID); err != nil {
		t.Fatalf("FinishRaffle() error = %v", err)
	}
	if err := uc.DrawTicket(ctx, &raffledto.DrawTicketInput{RaffleID: raffle.ID, Number: 1}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("DrawTicket() on available ticket error = %v, want ErrInvalidTransition", err)
	}
	if err := uc.DrawTicket(ctx, draw); err != nil {
		t.Fatalf("DrawTicket() error = %v", err)
	}

	availability, err = uc.Availability(ctx, raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if availability.Drawn != 1 || availability.Available != 4 {
		t.Errorf("availability = %+v, want 1 drawn and 4 available", availability)
	}

	if _, err := uc.CancelRaffle(ctx, raffle.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("CancelRaffle() on finished raffle error = %v, want ErrInvalidTransition", err)
	}
}

func TestRaffleNotFound(t *testing.T) {
	uc, _ := newRaffleUsecase(t)
	if _, err := uc.PublishRaffle(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrRaffleNotFound) {
		t.Errorf("PublishRaffle() error = %v, want ErrRaffleNotFound", err)
	}
	if _, err := uc.Availability(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrRaffleNotFound) {
		t.Errorf("Availability() error = %v, want ErrRaffleNotFound", err)
	}
}
