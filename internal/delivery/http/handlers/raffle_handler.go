package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase"
	raffledto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/raffle"
	"github.com/labstack/echo/v4"
)

type RaffleHandler struct {
	uc     usecase.RaffleUsecase
	logger *slog.Logger
}

func NewRaffleHandler(uc usecase.RaffleUsecase, logger *slog.Logger) *RaffleHandler {
	return &RaffleHandler{uc: uc, logger: logger}
}

func (h *RaffleHandler) Availability(c echo.Context) error {
	availability, err := h.uc.Availability(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, response.NewAvailabilityResponse(availability))
}

func (h *RaffleHandler) CreateRaffle(c echo.Context) error {
	var body request.CreateRaffleRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	raffle, err := h.uc.CreateRaffle(c.Request().Context(), &raffledto.CreateRaffleInput{
		Title:          body.Title,
		UnitPriceCents: body.UnitPriceCents,
		TotalTickets:   body.TotalTickets,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, response.NewRaffleResponse(raffle))
}

func (h *RaffleHandler) PublishRaffle(c echo.Context) error {
	return h.respondRaffle(c, h.uc.PublishRaffle)
}

func (h *RaffleHandler) FinishRaffle(c echo.Context) error {
	return h.respondRaffle(c, h.uc.FinishRaffle)
}

func (h *RaffleHandler) CancelRaffle(c echo.Context) error {
	return h.respondRaffle(c, h.uc.CancelRaffle)
}

func (h *RaffleHandler) respondRaffle(c echo.Context, op func(ctx context.Context, raffleID string) (*domain.Raffle, error)) error {
	raffle, err := op(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, response.NewRaffleResponse(raffle))
}

// DrawTicket handles POST /v1/admin/raffles/:id/tickets/:number/draw.
func (h *RaffleHandler) DrawTicket(c echo.Context) error {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		return badRequest(c, "invalid ticket number")
	}

	if err := h.uc.DrawTicket(c.Request().Context(), &raffledto.DrawTicketInput{
		RaffleID: c.Param("id"),
		Number:   number,
	}); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"raffle_id": c.Param("id"), "number": number, "status": domain.TicketDrawn})
}
