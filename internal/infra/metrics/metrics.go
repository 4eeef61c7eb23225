// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Spok95/linetrack/internal/domain/production"
)

type Metrics struct {
	recomputes    prometheus.Counter
	driftSections prometheus.Counter
	driftFields   prometheus.Counter
	docWrites     *prometheus.CounterVec
	botUpdates    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	efficiency    *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linetrack",
			Name:      "section_recomputes_total",
			Help:      "Hourly sections recomputed and persisted.",
		}),
		driftSections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linetrack",
			Name:      "section_drift_total",
			Help:      "Stored sections whose derived fields differ from a fresh recomputation.",
		}),
		driftFields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linetrack",
			Name:      "section_drift_fields_total",
			Help:      "Derived fields found stale during verification.",
		}),
		docWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linetrack",
			Name:      "document_writes_total",
			Help:      "Document store writes by collection and operation.",
		}, []string{"collection", "op"}),
		botUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linetrack",
			Name:      "bot_updates_total",
			Help:      "Telegram updates handled by kind.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linetrack",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status code.",
		}, []string{"route", "code"}),
		efficiency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "linetrack",
			Name:      "line_efficiency_percent",
			Help:      "Efficiency of the most recently saved section per line.",
		}, []string{"line"}),
	}
	reg.MustRegister(m.recomputes, m.driftSections, m.driftFields,
		m.docWrites, m.botUpdates, m.httpRequests, m.efficiency)
	return m
}

func (m *Metrics) ObserveSection(s production.Section) {
	m.recomputes.Inc()
	eff, _ := s.Efficiency.Float64()
	m.efficiency.WithLabelValues(s.LineNumber).Set(eff)
}

func (m *Metrics) ObserveDrift(fields int) {
	m.driftSections.Inc()
	m.driftFields.Add(float64(fields))
}

// DocumentWrite matches docstore.Observer.
func (m *Metrics) DocumentWrite(collection, op string) {
	m.docWrites.WithLabelValues(collection, op).Inc()
}

func (m *Metrics) BotUpdate(kind string) {
	m.botUpdates.WithLabelValues(kind).Inc()
}

func (m *Metrics) HTTPRequest(route string, code int) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
