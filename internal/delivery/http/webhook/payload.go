package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

var ErrNoPaymentID = errors.New("notification carries no payment id")

// gatewayPayload is the gateway's notification body. Ids arrive as numbers or strings.
type gatewayPayload struct {
	ID     flexibleID `json:"id"`
	Type   string     `json:"type"`
	Action string     `json:"action"`
	Data   struct {
		ID     flexibleID `json:"id"`
		Status string     `json:"status"`
	} `json:"data"`
}

type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

// ParseNotification normalizes a verified body. eventID falls back to the
// payload id when the header was empty.
func ParseNotification(eventID string, body []byte, receivedAt time.Time) (domain.PaymentNotification, error) {
	var p gatewayPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.PaymentNotification{}, fmt.Errorf("malformed notification: %w", err)
	}
	if p.Data.ID == "" {
		return domain.PaymentNotification{}, ErrNoPaymentID
	}

	if eventID = strings.TrimSpace(eventID); eventID == "" {
		eventID = string(p.ID)
	}
	if eventID == "" {
		eventID = fmt.Sprintf("%s:%s", p.Data.ID, p.Data.Status)
	}

	metadata := map[string]string{}
	if p.Type != "" {
		metadata["type"] = p.Type
	}
	if p.Action != "" {
		metadata["action"] = p.Action
	}

	return domain.PaymentNotification{
		EventID:          eventID,
		GatewayPaymentID: string(p.Data.ID),
		RawStatus:        p.Data.Status,
		Metadata:         metadata,
		ReceivedAt:       receivedAt.UTC(),
	}, nil
}
