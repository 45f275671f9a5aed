// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the service updates. A nil *Metrics is
// valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	datasetLoads    *prometheus.CounterVec
	datasetRecords  prometheus.Gauge
	datasetCache    *prometheus.CounterVec
	insightRuns     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{gatherer: reg}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stop_insights",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code",
	}, []string{"route", "method", "status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stop_insights",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	m.datasetLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stop_insights",
		Name:      "dataset_loads_total",
		Help:      "Full-table reloads of the traffic stop dataset by result",
	}, []string{"result"})
	m.datasetRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stop_insights",
		Name:      "dataset_records",
		Help:      "Number of records in the cached dataset",
	})
	m.datasetCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stop_insights",
		Name:      "dataset_cache_lookups_total",
		Help:      "Dataset cache lookups by outcome (hit or miss)",
	}, []string{"outcome"})
	m.insightRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stop_insights",
		Name:      "insight_runs_total",
		Help:      "Catalog query executions by status",
	}, []string{"status"})

	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.datasetLoads,
		m.datasetRecords,
		m.datasetCache,
		m.insightRuns,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, status).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// DatasetLoaded records a reload attempt; records is ignored on failure.
func (m *Metrics) DatasetLoaded(records int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.datasetLoads.WithLabelValues("error").Inc()
		return
	}
	m.datasetLoads.WithLabelValues("ok").Inc()
	m.datasetRecords.Set(float64(records))
}

// DatasetCache records whether a dataset read was served from cache.
func (m *Metrics) DatasetCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.datasetCache.WithLabelValues("hit").Inc()
		return
	}
	m.datasetCache.WithLabelValues("miss").Inc()
}

// InsightRun records one catalog query execution.
// status is "ok", "unknown_question" or "error".
func (m *Metrics) InsightRun(status string) {
	if m == nil {
		return
	}
	m.insightRuns.WithLabelValues(status).Inc()
}
