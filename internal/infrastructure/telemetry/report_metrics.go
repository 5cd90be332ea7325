package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ReportMetrics collects Prometheus metrics for report builds, exports and the dashboard cache.
type ReportMetrics struct {
	registry      *prometheus.Registry
	handler       http.Handler
	builds        *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	exports       *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// NewReportMetrics creates the collectors on a private registry together with
// the Go runtime and process collectors.
func NewReportMetrics() *ReportMetrics {
	registry := prometheus.NewRegistry()

	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_report_builds_total",
		Help: "Number of report builds by kind and outcome.",
	}, []string{"kind", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "learnhub_report_build_duration_seconds",
		Help:    "Time spent assembling a report, including its queries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_report_exports_total",
		Help: "Number of rendered report documents by kind, format and outcome.",
	}, []string{"kind", "format", "status"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_dashboard_cache_lookups_total",
		Help: "Dashboard cache lookups by result.",
	}, []string{"result"})

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "learnhub_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route"})

	registry.MustRegister(
		builds, duration, exports, cache, requests, latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &ReportMetrics{
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		builds:        builds,
		buildDuration: duration,
		exports:       exports,
		cacheLookups:  cache,
		requests:      requests,
		latency:       latency,
	}
}

// Handler serves the /metrics exposition
func (m *ReportMetrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry
func (m *ReportMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB exports the connection pool statistics of db
func (m *ReportMetrics) RegisterDB(db *sql.DB, dbName string) error {
	if m == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// ObserveBuild records one report build. A nil receiver is a no-op.
func (m *ReportMetrics) ObserveBuild(kind string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(kind, outcome(err)).Inc()
	m.buildDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveExport records one document render
func (m *ReportMetrics) ObserveExport(kind, format string, err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(kind, format, outcome(err)).Inc()
}

// ObserveCache records a dashboard cache hit or miss
func (m *ReportMetrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records one served HTTP request. route is the matched
// pattern, never the raw path.
func (m *ReportMetrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
