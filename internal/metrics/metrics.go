// Package metrics provides Prometheus metrics for the search service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amaumene/animesearch/pkg/torrentsearch"
)

const (
	// Namespace for all animesearch metrics
	namespace = "animesearch"
)

// Metrics owns a registry and the collectors registered on it.
// It satisfies torrentsearch.Observer.
type Metrics struct {
	registry *prometheus.Registry

	// FeedFetches counts indexer fetches by host and outcome
	FeedFetches *prometheus.CounterVec
	// FeedFetchDuration tracks fetch latency by host
	FeedFetchDuration *prometheus.HistogramVec
	// ProviderFallbacks counts providers skipped by the chain
	ProviderFallbacks *prometheus.CounterVec
	// SearchResults tracks how many candidates each search returned
	SearchResults *prometheus.HistogramVec
	// ProviderUp is 1 when the last probe of a provider succeeded
	ProviderUp *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FeedFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_fetches_total",
				Help:      "Total number of indexer fetches",
			},
			[]string{"host", "outcome"},
		),
		FeedFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "feed_fetch_duration_seconds",
				Help:      "Duration of indexer fetches in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"host"},
		),
		ProviderFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fallbacks_total",
				Help:      "Total number of times a provider was skipped",
			},
			[]string{"provider", "reason"},
		),
		SearchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of candidates returned per search",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"kind"},
		),
		ProviderUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "provider_up",
				Help:      "Whether the last probe of a provider succeeded",
			},
			[]string{"provider"},
		),
	}

	m.registry.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.ProviderFallbacks,
		m.SearchResults,
		m.ProviderUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFetch records one fetch. Its signature matches httputil.FetchObserver.
func (m *Metrics) ObserveFetch(host, outcome string, elapsed time.Duration) {
	m.FeedFetches.WithLabelValues(host, outcome).Inc()
	m.FeedFetchDuration.WithLabelValues(host).Observe(elapsed.Seconds())
}

// ProviderSkipped implements torrentsearch.Observer.
func (m *Metrics) ProviderSkipped(provider, reason string) {
	m.ProviderFallbacks.WithLabelValues(provider, reason).Inc()
}

// ResultsReturned implements torrentsearch.Observer.
func (m *Metrics) ResultsReturned(kind torrentsearch.Kind, count int) {
	m.SearchResults.WithLabelValues(string(kind)).Observe(float64(count))
}

// SetProviderUp records the result of a provider probe.
func (m *Metrics) SetProviderUp(provider string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.ProviderUp.WithLabelValues(provider).Set(v)
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ torrentsearch.Observer = (*Metrics)(nil)
