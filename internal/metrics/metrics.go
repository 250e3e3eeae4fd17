// Package metrics holds the Prometheus instruments for upstream calls, the
// history cache, best-run reduction and the HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speedrun_pbs"

// Manager owns the instruments registered on one registry
type Manager struct {
	upstreamRequests    *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	historyCache        *prometheus.CounterVec
	runsCollapsed       prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Custom registry so /metrics only exposes what this service records.
var registry = prometheus.NewRegistry()

var defaultManager = NewManager(registry)

// NewManager registers every instrument on reg
func NewManager(reg prometheus.Registerer) *Manager {
	auto := promauto.With(reg)
	return &Manager{
		upstreamRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Requests sent to the speedrun.com API by endpoint and status code",
		}, []string{"endpoint", "code"}),
		upstreamDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of speedrun.com API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		historyCache: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history_cache",
			Name:      "lookups_total",
			Help:      "Run-history cache lookups by result",
		}, []string{"result"}),
		runsCollapsed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bestrun",
			Name:      "runs_collapsed_total",
			Help:      "Personal-best runs dropped because a faster run shared their category and combination",
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served by route and status code",
		}, []string{"route", "code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry returns the registry the default instruments live on
func Registry() *prometheus.Registry {
	return registry
}

// Default returns the manager bound to Registry()
func Default() *Manager {
	return defaultManager
}

// RecordUpstreamRequest counts one API request. code is 0 for transport errors.
func (m *Manager) RecordUpstreamRequest(endpoint string, code int, duration time.Duration) {
	m.upstreamRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHistoryCache counts a cache hit or miss
func (m *Manager) RecordHistoryCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.historyCache.WithLabelValues(result).Inc()
}

// RecordRunsCollapsed adds the number of runs the best-run reduction dropped
func (m *Manager) RecordRunsCollapsed(n int) {
	if n > 0 {
		m.runsCollapsed.Add(float64(n))
	}
}

// RecordHTTPRequest counts one served request
func (m *Manager) RecordHTTPRequest(route string, code int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
