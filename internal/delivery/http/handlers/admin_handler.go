package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	orderusecase "github.com/LavaJover/shvark-raffle-service/internal/usecase/order"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	uc     orderusecase.OrderUsecase
	logger *slog.Logger
}

func NewAdminHandler(uc orderusecase.OrderUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, logger: logger}
}

// Sweep runs one synchronous expiration pass.
func (h *AdminHandler) Sweep(c echo.Context) error {
	released, err := h.uc.SweepExpiredOrders(c.Request().Context(), h.uc.Now())
	if err != nil {
		if domain.IsTransient(err) {
			c.Response().Header().Set("Retry-After", retryAfterSeconds)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"released": released, "error": err.Error()})
		}
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// ListAnomalies handles GET /v1/admin/anomalies?all=true&limit=N.
func (h *AdminHandler) ListAnomalies(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	unresolvedOnly := c.QueryParam("all") != "true"

	anomalies, err := h.uc.ListAnomalies(c.Request().Context(), unresolvedOnly, limit)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]response.AnomalyResponse, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, response.NewAnomalyResponse(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"anomalies": out})
}
