package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/usecase"
	orderusecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
)

type UseCases struct {
	OrderUsecase  *orderusecase.DefaultOrderUsecase
	RaffleUsecase *usecase.DefaultRaffleUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	orderUsecase, err := orderusecase.NewDefaultOrderUsecase(
		deps.TxManager,
		deps.Repositories,
		deps.Events,
		deps.Notifier,
		deps.Metrics,
		deps.Logger,
		orderusecase.Config{
			ReservationWindow: deps.Config.Reservation.Window,
			MaxNumbers:        deps.Config.Reservation.MaxNumbers,
			SweepBatchSize:    deps.Config.Sweeper.BatchSize,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("order usecase: %w", err)
	}

	return &UseCases{
		OrderUsecase:  orderUsecase,
		RaffleUsecase: usecase.NewDefaultRaffleUsecase(deps.TxManager, deps.Repositories, deps.Logger),
	}, nil
}
