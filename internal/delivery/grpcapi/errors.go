package grpcapi

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInvalidReservation), errors.Is(err, domain.ErrInvalidRaffle):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrRaffleNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrFailureNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientAvailability),
		errors.Is(err, domain.ErrRaffleNotOpen),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrOrderNotPayable),
		errors.Is(err, domain.ErrSettlementConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.IsTransient(err):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
