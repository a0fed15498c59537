// Package metrics holds the Prometheus collectors of cvdex.
// Nothing registers itself: main calls the Register* functions.
package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cvdex"

// group registers a fixed set of collectors exactly once.
type group struct {
	once       sync.Once
	collectors []prometheus.Collector
}

func newGroup(cs ...prometheus.Collector) *group {
	return &group{collectors: cs}
}

func (g *group) register(reg prometheus.Registerer) {
	g.once.Do(func() {
		for _, c := range g.collectors {
			if err := reg.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if !errors.As(err, &are) {
					panic(err)
				}
			}
		}
	})
}

// RegisterAll registers every collector group on the default registry.
func RegisterAll() {
	RegisterEmbeddingMetrics()
	RegisterLLMMetrics()
	RegisterAnalysisMetrics()
	RegisterHTTPMetrics()
}
