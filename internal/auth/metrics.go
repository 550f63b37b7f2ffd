package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for policy operations.
type Metrics struct {
	applyTotal       *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	credentialsTotal *prometheus.CounterVec
	registry         *prometheus.Registry
}

// NewMetrics creates a new Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "authtester"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.applyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "apply_total",
			Help:      "Total number of authentication applications",
		},
		[]string{"scheme", "status"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "errors_total",
			Help:      "Total number of authentication application errors",
		},
		[]string{"kind"},
	)

	m.credentialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "credentials_set_total",
			Help:      "Total number of credential store updates",
		},
		[]string{"kind", "op"},
	)

	m.registry.MustRegister(
		m.applyTotal,
		m.errorsTotal,
		m.credentialsTotal,
	)

	return m
}

// RecordApply records a successful application with the chosen scheme.
func (m *Metrics) RecordApply(scheme Scheme) {
	m.applyTotal.WithLabelValues(scheme.String(), "success").Inc()
}

// RecordError records a failed application.
func (m *Metrics) RecordError(err error) {
	m.applyTotal.WithLabelValues("", "error").Inc()
	m.errorsTotal.WithLabelValues(errorKind(err)).Inc()
}

// RecordCredential records a store update. kind is password, token or
// cookie; op is set or delete.
func (m *Metrics) RecordCredential(kind, op string) {
	m.credentialsTotal.WithLabelValues(kind, op).Inc()
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MustRegister registers the metrics with the given registry.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(
		m.applyTotal,
		m.errorsTotal,
		m.credentialsTotal,
	)
}

// NopMetrics returns a metrics instance on a private registry, for tests and
// defaults.
func NopMetrics() *Metrics {
	return NewMetrics("test")
}
