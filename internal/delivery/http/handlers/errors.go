package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/labstack/echo/v4"
)

const retryAfterSeconds = "5"

// writeError maps use case errors onto HTTP responses.
func writeError(c echo.Context, logger *slog.Logger, err error) error {
	var insufficient *domain.InsufficientAvailabilityError
	switch {
	case errors.As(err, &insufficient):
		return c.JSON(http.StatusConflict, response.ErrorResponse{
			Error:       "some requested numbers are not available",
			ErrorCode:   "INSUFFICIENT_NUMBERS",
			Unavailable: insufficient.Unavailable,
		})
	case errors.Is(err, domain.ErrInvalidReservation), errors.Is(err, domain.ErrInvalidRaffle):
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRaffleNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRaffleNotOpen),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrOrderNotPayable),
		errors.Is(err, domain.ErrSettlementConflict):
		return c.JSON(http.StatusConflict, response.ErrorResponse{Error: err.Error()})
	case domain.IsTransient(err):
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
		return c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: "temporarily unavailable, retry"})
	default:
		logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: msg})
}
