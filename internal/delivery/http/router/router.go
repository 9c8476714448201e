package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/auth"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/webhook"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Orders  *handlers.OrderHandler
	Raffles *handlers.RaffleHandler
	Admin   *handlers.AdminHandler
	Webhook *handlers.WebhookHandler
}

type Options struct {
	JWTSecret string
	Verifier  webhook.Verifier
	Clock     func() time.Time
	Logger    *slog.Logger
}

// New builds the public and admin REST API.
func New(h Handlers, opts Options) *echo.Echo {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(opts.Logger))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	v1 := e.Group("/v1")
	v1.POST("/raffles/:id/reservations", h.Orders.ReserveTickets)
	v1.GET("/raffles/:id/availability", h.Raffles.Availability)
	v1.GET("/orders/:id", h.Orders.GetOrder)
	v1.GET("/orders/by-reference/:ref", h.Orders.GetOrderByReference)
	v1.POST("/orders/:id/payments", h.Orders.AttachPayment)
	v1.POST("/orders/:id/cancel", h.Orders.CancelOrder)

	v1.POST("/webhooks/payments", h.Webhook.HandlePayment,
		middleware.VerifySignature(opts.Verifier, opts.Clock, opts.Logger))

	admin := v1.Group("/admin", middleware.JWTAuth(opts.JWTSecret, auth.RoleAdmin))
	admin.POST("/raffles", h.Raffles.CreateRaffle)
	admin.POST("/raffles/:id/publish", h.Raffles.PublishRaffle)
	admin.POST("/raffles/:id/finish", h.Raffles.FinishRaffle)
	admin.POST("/raffles/:id/cancel", h.Raffles.CancelRaffle)
	admin.POST("/raffles/:id/tickets/:number/draw", h.Raffles.DrawTicket)
	admin.POST("/sweep", h.Admin.Sweep)
	admin.GET("/anomalies", h.Admin.ListAnomalies)

	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "http request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}
