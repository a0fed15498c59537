// Package health aggregates liveness probes of the store and both providers.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the aggregated outcome.
type Status string

const (
	// Healthy means every probe passed.
	Healthy Status = "ok"
	// Degraded means some probes failed.
	Degraded Status = "degraded"
	// Unhealthy means every probe failed.
	Unhealthy Status = "error"
)

// CheckResult is one probe outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentDatabase  = "database"
	ComponentEmbedding = "embedding"
	ComponentLLM       = "llm"
)

// DefaultProbeTimeout bounds each probe.
const DefaultProbeTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the probes.
type Service struct {
	probes  map[string]func(context.Context) error
	timeout time.Duration
}

// New creates a Service. embedding and llm can be nil, in which case they are not probed.
func New(store StorePinger, embedding, llm ProviderChecker) *Service {
	probes := map[string]func(context.Context) error{ComponentDatabase: store.Ping}
	if embedding != nil {
		probes[ComponentEmbedding] = embedding.HealthCheck
	}
	if llm != nil {
		probes[ComponentLLM] = llm.HealthCheck
	}
	return &Service{probes: probes, timeout: DefaultProbeTimeout}
}

// WithTimeout sets the per-probe deadline.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs all probes concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var mu sync.Mutex
	checks := make(map[string]CheckResult, len(s.probes))

	var g errgroup.Group
	for name, probe := range s.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			result := CheckOK
			if probe(pctx) != nil {
				result = CheckError
			}
			mu.Lock()
			checks[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: aggregate(checks), Checks: checks}
}

func aggregate(checks map[string]CheckResult) Status {
	failed := 0
	for _, r := range checks {
		if r == CheckError {
			failed++
		}
	}
	switch {
	case failed == 0:
		return Healthy
	case failed == len(checks):
		return Unhealthy
	default:
		return Degraded
	}
}
