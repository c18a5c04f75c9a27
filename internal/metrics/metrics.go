// Package metrics exposes extraction counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/cltl/micro-portraits/pkg/portrait"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	documents   *prometheus.CounterVec
	portraits   prometheus.Counter
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
	messages    *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the
// process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "microportraits",
			Name:      "documents_total",
			Help:      "Documents processed, by outcome.",
		}, []string{"outcome"}),
		portraits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "microportraits",
			Name:      "portraits_total",
			Help:      "Portraits extracted after deduplication and merging.",
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "microportraits",
			Name:      "diagnostics_total",
			Help:      "Recovered extraction problems, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "microportraits",
			Name:      "extraction_duration_seconds",
			Help:      "Time spent extracting one document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "microportraits",
			Name:      "queue_messages_total",
			Help:      "Queue messages handled, by queue and result.",
		}, []string{"queue", "result"}),
	}

	m.registry.MustRegister(
		m.documents,
		m.portraits,
		m.diagnostics,
		m.duration,
		m.messages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveResult records a successful extraction.
func (m *Metrics) ObserveResult(res *portrait.Result, took time.Duration) {
	m.documents.WithLabelValues("ok").Inc()
	m.portraits.Add(float64(len(res.Portraits)))
	for _, d := range res.Diagnostics {
		m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
	m.duration.Observe(took.Seconds())
}

// ObserveFailure records a document that could not be extracted.
func (m *Metrics) ObserveFailure() {
	m.documents.WithLabelValues("failed").Inc()
}

// ObserveMessage records the outcome of a queue message: "ack", "retry"
// or "dead".
func (m *Metrics) ObserveMessage(queue, result string) {
	m.messages.WithLabelValues(queue, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
