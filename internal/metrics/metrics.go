// Package metrics exposes prometheus instruments for the questionnaire service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every instrument the service records
type Metrics struct {
	SchemaLoads *prometheus.CounterVec
	PageEvents  *prometheus.CounterVec
	Scores      *prometheus.CounterVec
	ActivePages prometheus.Gauge
}

// New creates the instruments and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SchemaLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bigfive",
			Name:      "schema_loads_total",
			Help:      "Schema load attempts by result.",
		}, []string{"result"}),
		PageEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bigfive",
			Name:      "page_events_total",
			Help:      "UI events handled by type.",
		}, []string{"type"}),
		Scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bigfive",
			Name:      "score_computations_total",
			Help:      "Score computations by scope.",
		}, []string{"scope"}),
		ActivePages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bigfive",
			Name:      "active_pages",
			Help:      "Page sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.SchemaLoads, m.PageEvents, m.Scores, m.ActivePages)
	return m
}

// SchemaLoaded implements schema.Observer
func (m *Metrics) SchemaLoaded(result string) {
	m.SchemaLoads.WithLabelValues(result).Inc()
}

// Event counts one handled UI event
func (m *Metrics) Event(eventType string) {
	m.PageEvents.WithLabelValues(eventType).Inc()
}

// Scored counts one score computation
func (m *Metrics) Scored(scope string) {
	m.Scores.WithLabelValues(scope).Inc()
}
