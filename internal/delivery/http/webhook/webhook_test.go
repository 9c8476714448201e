package webhook

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signed(secret, eventID string, at time.Time, body []byte) Headers {
	ts := strconv.FormatInt(at.Unix(), 10)
	return Headers{EventID: eventID, Timestamp: ts, Signature: Sign([]byte(secret), eventID, ts, body)}
}

func TestVerify(t *testing.T) {
	body := []byte(`{"data":{"id":"123","status":"approved"}}`)
	v := Verifier{Secret: []byte("s3cret"), Tolerance: 300 * time.Second}

	tampered := signed("s3cret", "evt-1", now, body)
	tampered.EventID = "evt-2"

	tests := []struct {
		name    string
		headers Headers
		body    []byte
		want    error
	}{
		{"valid", signed("s3cret", "evt-1", now, body), body, nil},
		{"at tolerance edge", signed("s3cret", "evt-1", now.Add(-300*time.Second), body), body, nil},
		{"missing signature", Headers{EventID: "evt-1", Timestamp: "1"}, body, ErrMissingSignature},
		{"missing timestamp", Headers{EventID: "evt-1", Signature: "ab"}, body, ErrInvalidTimestamp},
		{"malformed timestamp", Headers{EventID: "evt-1", Timestamp: "yesterday", Signature: "ab"}, body, ErrInvalidTimestamp},
		{"stale", signed("s3cret", "evt-1", now.Add(-301*time.Second), body), body, ErrStaleTimestamp},
		{"from the future", signed("s3cret", "evt-1", now.Add(10*time.Minute), body), body, ErrStaleTimestamp},
		{"wrong secret", signed("other", "evt-1", now, body), body, ErrSignatureMismatch},
		{"body changed", signed("s3cret", "evt-1", now, body), []byte(`{"data":{"id":"123","status":"rejected"}}`), ErrSignatureMismatch},
		{"event id changed", tampered, body, ErrSignatureMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Verify(tt.headers, tt.body, now); !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseNotification(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		body       string
		wantEvent  string
		wantPay    string
		wantStatus string
		wantErr    error
	}{
		{"numeric ids", "", `{"id":987,"type":"payment","action":"payment.updated","data":{"id":123,"status":"approved"}}`, "987", "123", "approved", nil},
		{"string ids and header", "evt-9", `{"id":"1","data":{"id":"abc","status":"rejected"}}`, "evt-9", "abc", "rejected", nil},
		{"no event id anywhere", "", `{"data":{"id":"p1","status":"cancelled"}}`, "p1:cancelled", "p1", "cancelled", nil},
		{"no payment id", "evt-1", `{"type":"test"}`, "", "", "", ErrNoPaymentID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNotification(tt.eventID, []byte(tt.body), now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseNotification() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if n.EventID != tt.wantEvent || n.GatewayPaymentID != tt.wantPay || n.RawStatus != tt.wantStatus {
				t.Errorf("notification = %+v", n)
			}
			if !n.ReceivedAt.Equal(now) {
				t.Errorf("ReceivedAt = %v, want %v", n.ReceivedAt, now)
			}
		})
	}
}

func TestParseNotificationMalformed(t *testing.T) {
	if _, err := ParseNotification("", []byte(`{"data":`), now); err == nil || errors.Is(err, ErrNoPaymentID) {
		t.Errorf("ParseNotification() error = %v, want malformed error", err)
	}
}
