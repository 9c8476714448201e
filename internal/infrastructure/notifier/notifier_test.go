package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

func testAnomaly() *domain.SettlementAnomaly {
	return &domain.SettlementAnomaly{
		ID:               "a-1",
		Kind:             domain.AnomalyApprovedAfterExpiry,
		GatewayPaymentID: "pay-1",
		OrderID:          "order-1",
		OrderStatus:      domain.StatusExpired,
		RawStatus:        "approved",
		EventID:          "evt-1",
		CreatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCallbackNotifierPostsPayload(t *testing.T) {
	var got AnomalyPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("request = %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewCallbackNotifier(srv.URL, time.Second)
	if err := n.NotifyAnomaly(context.Background(), testAnomaly()); err != nil {
		t.Fatalf("NotifyAnomaly() error = %v", err)
	}
	if got.Kind != "approved_after_expiry" || got.OrderID != "order-1" || got.GatewayPaymentID != "pay-1" {
		t.Errorf("payload = %+v", got)
	}
}

func TestCallbackNotifierRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewCallbackNotifier(srv.URL, time.Second).NotifyAnomaly(context.Background(), testAnomaly()); err == nil {
		t.Fatal("NotifyAnomaly() error = nil on 502")
	}
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) NotifyAnomaly(context.Context, *domain.SettlementAnomaly) error {
	s.calls++
	return s.err
}

func TestMultiNotifiesEveryone(t *testing.T) {
	failing := &stubNotifier{err: errors.New("down")}
	ok := &stubNotifier{}

	err := Multi{failing, ok}.NotifyAnomaly(context.Background(), testAnomaly())
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Errorf("error = %v, want joined failure", err)
	}
	if failing.calls != 1 || ok.calls != 1 {
		t.Errorf("calls = %d, %d; want 1, 1", failing.calls, ok.calls)
	}
}

func TestAnomalyText(t *testing.T) {
	text := NewAnomalyPayload(testAnomaly()).Text()
	for _, want := range []string{"approved_after_expiry", "order-1", "pay-1", "2026-03-01T12:00:00Z"} {
		if !strings.Contains(text, want) {
			t.Errorf("Text() = %q, missing %q", text, want)
		}
	}
}
