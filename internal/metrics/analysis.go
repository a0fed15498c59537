package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis and indexing Prometheus metrics.
var (
	AnalysisResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_results_total",
			Help:      "Per-file analysis results by status",
		},
		[]string{"status"}, // ok / empty / error
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Per-file analysis duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
	)

	AnalysisRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Total number of batch analysis runs",
		},
	)

	IndexChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_chunks_ingested_total",
			Help:      "Total number of chunks written to the chunk store",
		},
	)

	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_ensure_total",
			Help:      "Index ensure outcomes",
		},
		[]string{"outcome"}, // loaded / built / error
	)
)

var analysisGroup = newGroup(
	AnalysisResultsTotal,
	AnalysisDuration,
	AnalysisRunsTotal,
	IndexChunksTotal,
	IndexBuildsTotal,
)

// RegisterAnalysisMetrics registers the analysis and index collectors. Safe to call repeatedly.
func RegisterAnalysisMetrics() {
	analysisGroup.register(prometheus.DefaultRegisterer)
}
