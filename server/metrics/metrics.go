// Package metrics exposes Prometheus instrumentation for the alert monitors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cycle outcomes
const (
	OutcomeConnected    = "connected"
	OutcomeDisconnected = "disconnected"
)

// Notification results
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
	ResultDenied = "denied"
)

// Alert scopes for the active alerts gauge
const (
	ScopeAll      = "all"
	ScopeRelevant = "relevant"
)

// Metrics holds the collectors for one plugin instance. Collectors live on a
// private registry so that plugin restarts do not collide with the server's
// default registry.
type Metrics struct {
	registry *prometheus.Registry

	cycles        *prometheus.CounterVec
	skippedTicks  *prometheus.CounterVec
	notifications *prometheus.CounterVec
	homeAlerts    *prometheus.CounterVec
	activeAlerts  *prometheus.GaugeVec
	cycleDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orefalerts_cycles_total",
			Help: "Completed polling cycles by outcome",
		}, []string{"backend", "outcome"}),
		skippedTicks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orefalerts_skipped_ticks_total",
			Help: "Ticks dropped because the previous cycle was still in flight",
		}, []string{"backend"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orefalerts_notifications_total",
			Help: "Notification dispatch attempts by result",
		}, []string{"backend", "result"}),
		homeAlerts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orefalerts_home_alerts_total",
			Help: "Alerts newly observed as relevant to the home locality",
		}, []string{"backend"}),
		activeAlerts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orefalerts_active_alerts",
			Help: "Alerts in the latest published snapshot",
		}, []string{"backend", "scope"}),
		cycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orefalerts_cycle_duration_seconds",
			Help:    "Wall time of a polling cycle including the feed fetch",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		}, []string{"backend"}),
	}
}

// ObserveCycle records a finished cycle.
func (m *Metrics) ObserveCycle(backendName, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(backendName, outcome).Inc()
	m.cycleDuration.WithLabelValues(backendName).Observe(seconds)
}

// IncSkippedTick records a dropped tick.
func (m *Metrics) IncSkippedTick(backendName string) {
	if m == nil {
		return
	}
	m.skippedTicks.WithLabelValues(backendName).Inc()
}

// IncNotification records a notification dispatch attempt.
func (m *Metrics) IncNotification(backendName, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(backendName, result).Inc()
}

// IncHomeAlert records an alert newly relevant to the home locality.
func (m *Metrics) IncHomeAlert(backendName string) {
	if m == nil {
		return
	}
	m.homeAlerts.WithLabelValues(backendName).Inc()
}

// SetActiveAlerts records the size of the published snapshot.
func (m *Metrics) SetActiveAlerts(backendName string, all, relevant int) {
	if m == nil {
		return
	}
	m.activeAlerts.WithLabelValues(backendName, ScopeAll).Set(float64(all))
	m.activeAlerts.WithLabelValues(backendName, ScopeRelevant).Set(float64(relevant))
}

// Forget drops every series of a removed monitor.
func (m *Metrics) Forget(backendName string) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"backend": backendName}
	m.cycles.DeletePartialMatch(labels)
	m.skippedTicks.DeletePartialMatch(labels)
	m.notifications.DeletePartialMatch(labels)
	m.homeAlerts.DeletePartialMatch(labels)
	m.activeAlerts.DeletePartialMatch(labels)
	m.cycleDuration.DeletePartialMatch(labels)
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
