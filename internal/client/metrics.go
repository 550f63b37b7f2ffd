package client

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for client requests.
type Metrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	expectationsFailed *prometheus.CounterVec
	registry           *prometheus.Registry
}

// NewMetrics creates a new Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "authtester"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of client requests",
		},
		[]string{"method", "transport", "status_class"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of client requests in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "transport"},
	)

	m.expectationsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "expectation_failures_total",
			Help:      "Total number of failed response expectations",
		},
		[]string{"kind"},
	)

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.expectationsFailed,
	)

	return m
}

// RecordRequest records a request. A zero status means the request failed
// before a response was received.
func (m *Metrics) RecordRequest(method, transport string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, transport, statusClass(status)).Inc()
	m.requestDuration.WithLabelValues(method, transport).Observe(duration.Seconds())
}

// RecordExpectationFailure records a failed expectation of the given kind.
func (m *Metrics) RecordExpectationFailure(kind string) {
	m.expectationsFailed.WithLabelValues(kind).Inc()
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MustRegister registers the metrics with the given registry.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.expectationsFailed,
	)
}

// NopMetrics returns a metrics instance on a private registry.
func NopMetrics() *Metrics {
	return NewMetrics("test")
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
