// ABOUTME: Prometheus metrics for HTTP traffic, optimizer runs and the result cache
// ABOUTME: Uses a private registry so tests can build independent instances

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "panel_planner"

// Metrics is nil-safe: every method on a nil *Metrics is a no-op, which is
// how METRICS_ENABLED=false is wired.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	optimizeDuration    *prometheus.HistogramVec
	panelsTotal         *prometheus.CounterVec
	solutionsPerPanel   prometheus.Histogram
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	selectionsTotal     *prometheus.CounterVec
	catalogEntries      *prometheus.GaugeVec
	catalogReloadsTotal prometheus.Counter
	rateLimitedTotal    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		optimizeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimize_duration_seconds",
			Help:      "Time spent ranking solutions, by request scope.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"scope"}),
		panelsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panels_total",
			Help:      "Panels solved, by outcome status.",
		}, []string{"status"}),
		solutionsPerPanel: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solutions_per_panel",
			Help:      "Number of feasible solutions ranked for a panel.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total optimize cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total optimize cache misses observed.",
		}),
		selectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_published_total",
			Help:      "Accepted panel selections handed to the publisher, by result.",
		}, []string{"result"}),
		catalogEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      "Entries in the active catalog snapshot, by kind.",
		}, []string{"kind"}),
		catalogReloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog snapshots installed since start.",
		}),
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by limiter class.",
		}, []string{"class"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.optimizeDuration,
		m.panelsTotal,
		m.solutionsPerPanel,
		m.cacheHits,
		m.cacheMisses,
		m.selectionsTotal,
		m.catalogEntries,
		m.catalogReloadsTotal,
		m.rateLimitedTotal,
	)

	return m
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and latency under a fixed route label.
func (m *Metrics) WrapHandler(route string, next http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveOptimize records one optimize run. scope is "panel" or "project".
func (m *Metrics) ObserveOptimize(scope string, d time.Duration) {
	if m == nil {
		return
	}
	m.optimizeDuration.WithLabelValues(scope).Observe(d.Seconds())
}

// ObservePanel records a panel outcome and how many solutions it produced.
func (m *Metrics) ObservePanel(status string, solutions int) {
	if m == nil {
		return
	}
	m.panelsTotal.WithLabelValues(status).Inc()
	m.solutionsPerPanel.Observe(float64(solutions))
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// SelectionsPublished counts selections by result: "published", "skipped" or "failed".
func (m *Metrics) SelectionsPublished(result string, n int) {
	if m == nil {
		return
	}
	m.selectionsTotal.WithLabelValues(result).Add(float64(n))
}

// CatalogInstalled records the size of a newly installed catalog.
func (m *Metrics) CatalogInstalled(controllers, modularServers, fixedServers, modules, accessories int) {
	if m == nil {
		return
	}
	m.catalogReloadsTotal.Inc()
	m.catalogEntries.WithLabelValues("controller").Set(float64(controllers))
	m.catalogEntries.WithLabelValues("modular_server").Set(float64(modularServers))
	m.catalogEntries.WithLabelValues("fixed_server").Set(float64(fixedServers))
	m.catalogEntries.WithLabelValues("module").Set(float64(modules))
	m.catalogEntries.WithLabelValues("accessory").Set(float64(accessories))
}

// RateLimited counts a request rejected by the write or default limiter.
func (m *Metrics) RateLimited(class string) {
	if m == nil {
		return
	}
	m.rateLimitedTotal.WithLabelValues(class).Inc()
}
