// Package metrics exposes Prometheus instruments for admission control,
// caching and upstream calls.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Metrics holds the server's collectors. All methods are no-ops on a nil
// receiver so components can run without instrumentation.
//
// Metrics:
//   - yatra_ratelimit_decisions_total{route,decision}
//   - yatra_cache_requests_total{cache,result}
//   - yatra_cache_entries{cache}
//   - yatra_upstream_request_duration_seconds{provider,status}
type Metrics struct {
	RateLimitDecisions *prometheus.CounterVec
	CacheRequests      *prometheus.CounterVec
	CacheEntries       *prometheus.GaugeVec
	UpstreamDuration   *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLimitDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatra_ratelimit_decisions_total",
				Help: "Admission decisions made by rate limiters",
			},
			[]string{"route", "decision"},
		),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatra_cache_requests_total",
				Help: "Cache lookups by result",
			},
			[]string{"cache", "result"},
		),
		CacheEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "yatra_cache_entries",
				Help: "Entries currently held by an in-memory cache",
			},
			[]string{"cache"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yatra_upstream_request_duration_seconds",
				Help:    "Latency of calls to place providers",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "status"},
		),
		gatherer: reg,
	}
}

// Default returns process-wide metrics registered once on a dedicated registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		defaultMetrics = New(reg)
	})
	return defaultMetrics
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRateLimit(route string, allowed bool) {
	if m == nil {
		return
	}
	decision := "rejected"
	if allowed {
		decision = "allowed"
	}
	m.RateLimitDecisions.WithLabelValues(route, decision).Inc()
}

func (m *Metrics) ObserveCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) SetCacheEntries(cache string, n int) {
	if m == nil {
		return
	}
	m.CacheEntries.WithLabelValues(cache).Set(float64(n))
}

func (m *Metrics) ObserveUpstream(provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.UpstreamDuration.WithLabelValues(provider, status).Observe(d.Seconds())
}
