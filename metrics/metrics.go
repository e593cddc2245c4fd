// Package metrics exposes prometheus collectors for the dispatch service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors observed by the dispatcher, pipeline and
// gateway.
type Metrics struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own prometheus registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aigate",
			Name:      "dispatch_total",
			Help:      "Agent dispatches by agent name and outcome.",
		}, []string{"agent", "outcome"}),
		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aigate",
			Name:      "dispatch_duration_seconds",
			Help:      "Agent dispatch latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"agent"}),
		pipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aigate",
			Name:      "pipeline_runs_total",
			Help:      "Multi-tier pipeline runs by outcome.",
		}, []string{"outcome"}),
		pipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aigate",
			Name:      "pipeline_duration_seconds",
			Help:      "Multi-tier pipeline run latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aigate",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
	}
}

// ObserveDispatch records one agent dispatch.
func (m *Metrics) ObserveDispatch(agent, outcome string, dur time.Duration) {
	m.dispatchTotal.WithLabelValues(agent, outcome).Inc()
	m.dispatchDuration.WithLabelValues(agent).Observe(dur.Seconds())
}

// ObservePipeline records one pipeline run.
func (m *Metrics) ObservePipeline(outcome string, dur time.Duration) {
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(dur.Seconds())
}

// ObserveHTTP records one gateway request.
func (m *Metrics) ObserveHTTP(route, status string) {
	m.httpRequests.WithLabelValues(route, status).Inc()
}

// Handler returns the /metrics endpoint handler for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
