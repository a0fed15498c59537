package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding provider and cache metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Embedding API requests by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "request_duration_seconds",
			Help:      "Embedding API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "tokens_total",
			Help:      "Embedding tokens consumed while indexing CVs and queries",
		},
		[]string{"provider", "model", "type"}, // prompt / total
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "errors_total",
			Help:      "Embedding failures by error class",
		},
		[]string{"provider", "model", "error_type"},
	)

	// EmbeddingCacheTotal is passed to the cache decorator explicitly.
	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "cache_total",
			Help:      "Embedding cache lookups",
		},
		[]string{"result"}, // hit / miss
	)
)

var embeddingGroup = newGroup(
	EmbeddingRequestsTotal,
	EmbeddingRequestDuration,
	EmbeddingTokensTotal,
	EmbeddingErrorsTotal,
	EmbeddingCacheTotal,
)

// RegisterEmbeddingMetrics registers the embedding collectors. Safe to call repeatedly.
func RegisterEmbeddingMetrics() {
	embeddingGroup.register(prometheus.DefaultRegisterer)
}
