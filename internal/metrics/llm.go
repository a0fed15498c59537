package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat completion metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Chat completion requests by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"provider", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Chat completion tokens consumed",
		},
		[]string{"provider", "model", "type"}, // prompt / completion / total
	)
)

var llmGroup = newGroup(LLMRequestsTotal, LLMRequestDuration, LLMTokensTotal)

// RegisterLLMMetrics registers the chat completion collectors. Safe to call repeatedly.
func RegisterLLMMetrics() {
	llmGroup.register(prometheus.DefaultRegisterer)
}
