package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/resilience"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
)

const metricsNamespace = "nba_viewer"

// Metrics owns a private registry so tests and multiple servers never collide on
// the global default registerer. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	warehouseRequests *prometheus.CounterVec
	warehouseDuration *prometheus.HistogramVec
	viewCommits       *prometheus.CounterVec
	activeSessions    prometheus.Gauge
	rateLimited       prometheus.Counter
	breakerState      *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		warehouseRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "warehouse_requests_total",
			Help:      "Warehouse REST calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		warehouseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "warehouse_request_duration_seconds",
			Help:      "Latency of warehouse REST calls",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		viewCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "view_commits_total",
			Help:      "Resolved view slot fetches by slot and outcome",
		}, []string{"slot", "outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Viewer sessions currently holding a controller",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_limited_actions_total",
			Help:      "Actions rejected by the per-session limiter",
		}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "circuit_breaker_open",
			Help:      "1 while the named circuit breaker is open or half-open",
		}, []string{"name", "state"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.warehouseRequests,
		m.warehouseDuration,
		m.viewCommits,
		m.activeSessions,
		m.rateLimited,
		m.breakerState,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the private registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request. route is the mux pattern, never the raw path.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveWarehouse matches warehouse.RequestObserver.
func (m *Metrics) ObserveWarehouse(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.warehouseRequests.WithLabelValues(endpoint, outcome).Inc()
	m.warehouseDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveCommit matches usecase.CommitObserver.
func (m *Metrics) ObserveCommit(slot usecase.Slot, outcome usecase.Outcome) {
	if m == nil {
		return
	}
	m.viewCommits.WithLabelValues(string(slot), string(outcome)).Inc()
}

// ObserveBreaker matches resilience.StateListener.
func (m *Metrics) ObserveBreaker(name string, from, to resilience.CircuitState) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name, string(from)).Set(0)
	if to != resilience.CircuitStateClosed {
		m.breakerState.WithLabelValues(name, string(to)).Set(1)
	}
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
