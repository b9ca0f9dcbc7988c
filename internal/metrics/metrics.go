// Package metrics exposes Prometheus instrumentation for catalog lookups,
// the lookup cache and path searches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reelpath"

// Recorder owns a private registry and every collector the service reports.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	CacheEntries    *prometheus.GaugeVec
	Searches        *prometheus.CounterVec
	SearchSteps     prometheus.Histogram
	SearchDuration  *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "calls_total",
			Help:      "Catalog lookups by operation and result (ok, empty, not_found, error).",
		}, []string{"operation", "result"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "call_duration_seconds",
			Help:      "Catalog lookup latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"operation"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Lookup cache requests by cache name and result (hit, miss).",
		}, []string{"cache", "result"}),
		CacheEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries held by each lookup cache.",
		}, []string{"cache"}),
		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Completed path searches by outcome.",
		}, []string{"outcome"}),
		SearchSteps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "expansion_steps",
			Help:      "Frontier expansion steps performed per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Wall time of path searches by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"outcome"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveProviderCall records one catalog lookup.
func (r *Recorder) ObserveProviderCall(operation, result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.ProviderCalls.WithLabelValues(operation, result).Inc()
	r.ProviderLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveCacheLookup records a hit or miss and the cache size after it.
func (r *Recorder) ObserveCacheLookup(cache string, hit bool, entries int) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookups.WithLabelValues(cache, result).Inc()
	r.CacheEntries.WithLabelValues(cache).Set(float64(entries))
}

// ObserveSearch records a finished search.
func (r *Recorder) ObserveSearch(outcome string, steps int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Searches.WithLabelValues(outcome).Inc()
	r.SearchSteps.Observe(float64(steps))
	r.SearchDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
