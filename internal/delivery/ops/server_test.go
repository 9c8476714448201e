package ops_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/ops"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestOpsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRaffleMetrics(reg)
	m.RecordSettlement("approved", "paid")

	var dbDown bool
	checks := map[string]ops.Check{
		"database": func(context.Context) error {
			if dbDown {
				return errors.New("connection refused")
			}
			return nil
		},
	}
	h := ops.NewRouter(reg, checks, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d", rec.Code)
	}
	if rec := get(t, h, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d", rec.Code)
	}

	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `raffle_settlements_total{outcome="approved",result="paid"} 1`) {
		t.Errorf("settlement counter missing from /metrics:\n%s", rec.Body)
	}

	dbDown = true
	rec = get(t, h, "/readyz")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "database") {
		t.Errorf("/readyz with db down = %d %q", rec.Code, rec.Body)
	}
}
