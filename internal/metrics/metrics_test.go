package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObservePriceRequest(OutcomeOK)
	m.ObservePriceRequest(OutcomeOK)
	m.ObservePriceRequest(OutcomeHTTPError)
	m.ObserveRefresh("updated")
	m.ObserveSnapshot()

	if got := testutil.ToFloat64(m.priceRequests.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.priceRequests.WithLabelValues(OutcomeHTTPError)); got != 1 {
		t.Errorf("expected 1 http_error request, got %v", got)
	}
	if got := testutil.ToFloat64(m.refreshes.WithLabelValues("updated")); got != 1 {
		t.Errorf("expected 1 updated refresh, got %v", got)
	}
	if got := testutil.ToFloat64(m.snapshots); got != 1 {
		t.Errorf("expected 1 snapshot, got %v", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("/x", http.MethodGet, 200, time.Millisecond)
	m.ObservePriceRequest(OutcomeOK)
	m.ObserveThrottleWait(time.Second)
	m.ObserveRefresh("updated")
	m.ObserveSnapshot()
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/v1/assets", http.MethodGet, 200, 10*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `navtracker_http_requests_total{method="GET",route="/api/v1/assets",status="200"} 1`) {
		t.Errorf("expected request counter in output, got:\n%s", w.Body.String())
	}
}
