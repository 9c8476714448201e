package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/webhook"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/labstack/echo/v4"
)

// WebhookHandler acknowledges verified gateway notifications and queues
// them for the settlement worker.
type WebhookHandler struct {
	queue   domain.NotificationQueue
	dedupe  domain.NotificationDeduplicator
	metrics *metrics.RaffleMetrics
	logger  *slog.Logger
	clock   func() time.Time
}

func NewWebhookHandler(
	queue domain.NotificationQueue,
	dedupe domain.NotificationDeduplicator,
	webhookMetrics *metrics.RaffleMetrics,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		queue:   queue,
		dedupe:  dedupe,
		metrics: webhookMetrics,
		logger:  logger,
		clock:   time.Now,
	}
}

// HandlePayment handles POST /v1/webhooks/payments.
func (h *WebhookHandler) HandlePayment(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest(c, "unreadable body")
	}
	eventID, _ := c.Get(middleware.ContextEventID).(string)

	notification, err := webhook.ParseNotification(eventID, body, h.clock())
	if errors.Is(err, webhook.ErrNoPaymentID) {
		h.logger.Info("webhook without payment id ignored", "event_id", eventID)
		h.record("ignored")
		return c.JSON(http.StatusOK, echo.Map{"status": "ignored"})
	}
	if err != nil {
		h.record("malformed")
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	if h.dedupe != nil {
		first, err := h.dedupe.FirstDelivery(ctx, notification.EventID)
		if err != nil {
			// Reconcile is idempotent, so a dedupe outage only costs extra work.
			h.logger.Warn("webhook dedupe unavailable", "event_id", notification.EventID, "error", err)
		} else if !first {
			h.logger.Debug("duplicate webhook delivery", "event_id", notification.EventID)
			h.record("duplicate")
			return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
		}
	}

	if err := h.queue.Enqueue(ctx, notification); err != nil {
		h.logger.Error("failed to enqueue payment notification",
			"event_id", notification.EventID,
			"gateway_payment_id", notification.GatewayPaymentID,
			"error", err,
		)
		if h.dedupe != nil {
			if err := h.dedupe.Forget(context.WithoutCancel(ctx), notification.EventID); err != nil {
				h.logger.Warn("failed to forget webhook event", "event_id", notification.EventID, "error", err)
			}
		}
		h.record("enqueue_failed")
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "retry"})
	}

	h.logger.Info("payment notification queued",
		"event_id", notification.EventID,
		"gateway_payment_id", notification.GatewayPaymentID,
		"raw_status", notification.RawStatus,
	)
	h.record("queued")
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *WebhookHandler) record(result string) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(result)
	}
}
