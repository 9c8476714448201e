package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/webhook"
	"github.com/labstack/echo/v4"
)

const maxWebhookBody = 1 << 20

// ContextEventID holds the verified gateway event id.
const ContextEventID = "webhook_event_id"

// VerifySignature authenticates gateway notifications before the handler
// sees them. The body is restored for the handler.
func VerifySignature(verifier webhook.Verifier, clock func() time.Time, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			body, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody))
			if err != nil {
				return c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "unreadable body"})
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			headers := webhook.Headers{
				EventID:   req.Header.Get(webhook.HeaderEventID),
				Timestamp: req.Header.Get(webhook.HeaderTimestamp),
				Signature: req.Header.Get(webhook.HeaderSignature),
			}
			if err := verifier.Verify(headers, body, clock()); err != nil {
				logger.Warn("webhook rejected",
					"event_id", headers.EventID,
					"remote_ip", c.RealIP(),
					"error", err,
				)
				status := http.StatusUnauthorized
				if errors.Is(err, webhook.ErrInvalidTimestamp) || errors.Is(err, webhook.ErrStaleTimestamp) {
					status = http.StatusBadRequest
				}
				return c.JSON(status, response.ErrorResponse{Error: err.Error()})
			}

			c.Set(ContextEventID, headers.EventID)
			return next(c)
		}
	}
}
