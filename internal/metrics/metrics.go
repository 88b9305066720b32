// Package metrics holds the Prometheus collectors exported by the API.
//
// Every Metrics value owns its own registry so tests can build isolated
// instances. All recording methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Price source request outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed"
)

// Metrics bundles the collectors for HTTP traffic, the price source and
// price refreshes.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
	priceRequests *prometheus.CounterVec
	throttleWait  prometheus.Histogram
	refreshes     *prometheus.CounterVec
	snapshots     prometheus.Counter
}

// New creates a Metrics instance with a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navtracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "navtracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		priceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navtracker",
			Subsystem: "price_source",
			Name:      "requests_total",
			Help:      "Outbound price source requests by outcome.",
		}, []string{"outcome"}),
		throttleWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navtracker",
			Subsystem: "price_source",
			Name:      "throttle_wait_seconds",
			Help:      "Time spent waiting on the price source throttle.",
			Buckets:   []float64{0, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navtracker",
			Subsystem: "assets",
			Name:      "price_refreshes_total",
			Help:      "Asset price refreshes by result status.",
		}, []string{"status"}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navtracker",
			Subsystem: "nav",
			Name:      "snapshots_created_total",
			Help:      "NAV snapshots persisted.",
		}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpDurations,
		m.priceRequests,
		m.throttleWait,
		m.refreshes,
		m.snapshots,
	)
	return m
}

// ObserveHTTP records one handled HTTP request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDurations.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObservePriceRequest records the outcome of one outbound price request.
func (m *Metrics) ObservePriceRequest(outcome string) {
	if m == nil {
		return
	}
	m.priceRequests.WithLabelValues(outcome).Inc()
}

// ObserveThrottleWait records how long a caller was held by the throttle.
func (m *Metrics) ObserveThrottleWait(d time.Duration) {
	if m == nil {
		return
	}
	m.throttleWait.Observe(d.Seconds())
}

// ObserveRefresh records the status of one asset price refresh.
func (m *Metrics) ObserveRefresh(status string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(status).Inc()
}

// ObserveSnapshot records one persisted NAV snapshot.
func (m *Metrics) ObserveSnapshot() {
	if m == nil {
		return
	}
	m.snapshots.Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
