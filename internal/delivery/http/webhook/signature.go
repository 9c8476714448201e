// Package webhook authenticates and normalizes payment gateway notifications.
// Nothing here touches the network or the store.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderSignature = "X-Signature"
	HeaderEventID   = "X-Webhook-Id"
	HeaderTimestamp = "X-Webhook-Timestamp"
)

var (
	ErrMissingSignature  = errors.New("webhook signature missing")
	ErrInvalidTimestamp  = errors.New("webhook timestamp missing or malformed")
	ErrStaleTimestamp    = errors.New("webhook timestamp outside tolerance")
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
)

// Headers are the signed request attributes sent by the gateway.
type Headers struct {
	EventID   string
	Timestamp string
	Signature string
}

// Sign returns the hex HMAC-SHA256 of eventID, timestamp and body concatenated.
func Sign(secret []byte, eventID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(eventID))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type Verifier struct {
	Secret    []byte
	Tolerance time.Duration
}

// Verify checks h and body against the shared secret at time now. The
// timestamp is unix seconds and may differ from now by at most Tolerance in
// either direction.
func (v Verifier) Verify(h Headers, body []byte, now time.Time) error {
	signature := strings.TrimSpace(h.Signature)
	if signature == "" {
		return ErrMissingSignature
	}

	sec, err := strconv.ParseInt(strings.TrimSpace(h.Timestamp), 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	skew := now.Sub(time.Unix(sec, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.Tolerance {
		return ErrStaleTimestamp
	}

	expected := Sign(v.Secret, h.EventID, h.Timestamp, body)
	if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected)) {
		return ErrSignatureMismatch
	}
	return nil
}
