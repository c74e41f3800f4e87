// Package metrics defines the Prometheus instrumentation shared by the
// HTTP layer and the order process engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	StateTransitionsTotal *prometheus.CounterVec
	ShippingQuotesTotal   prometheus.Counter
}

// New creates and registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HTTPRequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		StateTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "State machine transitions by entity and result.",
		}, []string{"entity", "from", "to", "result"}),
		ShippingQuotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shipping_quotes_total",
			Help: "Shipping eligibility evaluations performed.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.StateTransitionsTotal,
		m.ShippingQuotesTotal,
	)
	return m
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTransition records one state machine transition attempt.
func (m *Metrics) RecordTransition(entity, from, to string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.StateTransitionsTotal.WithLabelValues(entity, from, to, result).Inc()
}
