// Package metrics exposes Prometheus collectors for product resolution.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/contentdesk/affkit/internal/product"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors on a dedicated registry.
type Metrics struct {
	Registry         *prometheus.Registry
	AttemptsTotal    *prometheus.CounterVec
	AttemptDuration  *prometheus.HistogramVec
	ResolutionsTotal *prometheus.CounterVec
}

// New constructs and registers all metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affkit_strategy_attempts_total",
			Help: "Product strategy attempts by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "affkit_strategy_duration_seconds",
			Help:    "Time spent in each product strategy attempt.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)
	resolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affkit_resolutions_total",
			Help: "Product resolutions by result.",
		},
		[]string{"result"},
	)

	registry.MustRegister(attempts, duration, resolutions)

	return &Metrics{
		Registry:         registry,
		AttemptsTotal:    attempts,
		AttemptDuration:  duration,
		ResolutionsTotal: resolutions,
	}
}

// ObserveAttempt records one strategy attempt. Skipped attempts are counted
// but not timed.
func (m *Metrics) ObserveAttempt(strategy string, outcome product.Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.AttemptsTotal.WithLabelValues(strategy, string(outcome)).Inc()
	if outcome != product.OutcomeSkipped {
		m.AttemptDuration.WithLabelValues(strategy).Observe(d.Seconds())
	}
}

// ObserveResolution counts a finished resolution; result is "resolved",
// "exhausted", "unidentifiable" or "canceled".
func (m *Metrics) ObserveResolution(result string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(result).Inc()
}

// RegisterCacheStats exports hit and miss counters read from stats.
func (m *Metrics) RegisterCacheStats(stats func() (hits, misses uint64)) {
	if m == nil {
		return
	}
	m.Registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "affkit_search_cache_hits_total",
			Help: "Search responses served from cache.",
		}, func() float64 { h, _ := stats(); return float64(h) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "affkit_search_cache_misses_total",
			Help: "Search requests that reached the API.",
		}, func() float64 { _, miss := stats(); return float64(miss) }),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
