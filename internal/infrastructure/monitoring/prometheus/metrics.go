// Package prometheus defines the platform's metric instruments.  All metrics
// live on one registry owned by the Metrics value, so tests can construct
// isolated instances without global-registration collisions.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hscode"

// Metrics holds every instrument the platform emits.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP surface
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Classification pipeline
	ItemsClassified  *prometheus.CounterVec
	EvidenceScore    prometheus.Histogram
	NeedsReview      prometheus.Counter
	BatchDuration    prometheus.Histogram
	CacheHits        *prometheus.CounterVec
	ResearchRequests *prometheus.CounterVec

	// Catalog
	CatalogReloads prometheus.Counter
	CatalogSize    prometheus.Gauge
}

// NewMetrics builds a fully registered metric set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path template, and status code.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ItemsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_classified_total",
			Help:      "Classified items by outcome (done, failed, cached).",
		}, []string{"outcome"}),
		EvidenceScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evidence_score",
			Help:      "Distribution of evidence-match scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		NeedsReview: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "needs_review_total",
			Help:      "Items flagged for manual review.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time to classify a batch.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_events_total",
			Help:      "Result cache lookups by outcome (hit, miss).",
		}, []string{"outcome"}),
		ResearchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "research_requests_total",
			Help:      "Research provider calls by outcome (ok, error, quota).",
		}, []string{"outcome"}),
		CatalogReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Reference catalog cache reloads.",
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      "Reference catalog rows currently cached.",
		}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.ItemsClassified,
		m.EvidenceScore,
		m.NeedsReview,
		m.BatchDuration,
		m.CacheHits,
		m.ResearchRequests,
		m.CatalogReloads,
		m.CatalogSize,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

//Personal.AI order the ending
