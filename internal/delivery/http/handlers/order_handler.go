package handlers

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	orderdto "github.com/LavaJover/shvark-raffle-service/internal/usecase/dto/order"
	orderusecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc     orderusecase.OrderUsecase
	logger *slog.Logger
}

func NewOrderHandler(uc orderusecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

// ReserveTickets handles POST /v1/raffles/:id/reservations.
func (h *OrderHandler) ReserveTickets(c echo.Context) error {
	var body request.ReserveTicketsRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	order, err := h.uc.ReserveTickets(c.Request().Context(), &orderdto.ReserveTicketsInput{
		RaffleID: c.Param("id"),
		Numbers:  body.Numbers,
		Customer: orderdto.CustomerInput{
			Name:  body.Customer.Name,
			Email: body.Customer.Email,
			Phone: body.Customer.Phone,
		},
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, response.NewOrderResponse(order))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.uc.GetOrderByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, response.NewOrderResponse(order))
}

func (h *OrderHandler) GetOrderByReference(c echo.Context) error {
	order, err := h.uc.GetOrderByReference(c.Request().Context(), c.Param("ref"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, response.NewOrderResponse(order))
}

// AttachPayment handles POST /v1/orders/:id/payments.
func (h *OrderHandler) AttachPayment(c echo.Context) error {
	var body request.AttachPaymentRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	payment, err := h.uc.AttachPayment(c.Request().Context(), &orderdto.AttachPaymentInput{
		OrderID:          c.Param("id"),
		GatewayPaymentID: body.GatewayPaymentID,
		AmountCents:      body.AmountCents,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, response.NewPaymentResponse(payment))
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.CancelOrder(ctx, c.Param("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	order, err := h.uc.GetOrderByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, response.NewOrderResponse(order))
}
