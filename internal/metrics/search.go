package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "search_requests_total",
			Help:      "Total number of category searches by serving path",
		},
		[]string{"category", "source"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "search_duration_seconds",
			Help:      "Category search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"category", "source"},
	)

	SearchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "search_fallback_total",
			Help:      "Searches served by the relational store instead of the index",
		},
		[]string{"category", "reason"}, // "unavailable" / "error"
	)

	SnapshotCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "snapshot_cache_total",
			Help:      "Discovery snapshot cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "shared_hit" / "shared_miss"
	)

	IndexDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "index_documents_total",
			Help:      "Documents written to the search index",
		},
		[]string{"category"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchFallbackTotal)
	prometheus.MustRegister(SnapshotCacheTotal)
	prometheus.MustRegister(IndexDocumentsTotal)
	searchMetricsRegistered = true
}
