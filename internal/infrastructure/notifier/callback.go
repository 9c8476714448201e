package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// CallbackNotifier posts anomalies as JSON to an operator endpoint.
type CallbackNotifier struct {
	URL    string
	client *http.Client
}

func NewCallbackNotifier(url string, timeout time.Duration) *CallbackNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CallbackNotifier{
		URL:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (n *CallbackNotifier) NotifyAnomaly(ctx context.Context, anomaly *domain.SettlementAnomaly) error {
	body, err := json.Marshal(NewAnomalyPayload(anomaly))
	if err != nil {
		return fmt.Errorf("failed to marshal anomaly callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create anomaly callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("anomaly callback failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("anomaly callback returned status %d", resp.StatusCode)
	}
	return nil
}
