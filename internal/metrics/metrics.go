// Package metrics holds the Prometheus collectors for lesson, oracle and
// purchase activity and the optional HTTP endpoint that exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the application counters on a private registry.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	oracleFallbacks *prometheus.CounterVec
	lessonOutcomes  *prometheus.CounterVec
	purchases       *prometheus.CounterVec
}

// New creates the collectors and registers them along with the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		oracleFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_oracle_fallbacks_total",
			Help: "Content service calls that were answered by a local fallback.",
		}, []string{"call"}),
		lessonOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_lesson_outcomes_total",
			Help: "Answer outcomes by kind.",
		}, []string{"outcome"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lingua_purchases_total",
			Help: "Purchase attempts by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.oracleFallbacks,
		m.lessonOutcomes,
		m.purchases,
	)
	return m
}

// Registry exposes the underlying registry for serving and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// OracleFallback counts a content call that fell back locally.
func (m *Metrics) OracleFallback(call string) {
	if m == nil {
		return
	}
	m.oracleFallbacks.WithLabelValues(call).Inc()
}

// LessonOutcome counts one answer outcome.
func (m *Metrics) LessonOutcome(outcome string) {
	if m == nil {
		return
	}
	m.lessonOutcomes.WithLabelValues(outcome).Inc()
}

// Purchase counts one purchase attempt. result is "success", "cancelled"
// or the rejection reason.
func (m *Metrics) Purchase(result string) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(result).Inc()
}
