package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/cvdex/internal/domain/batch"
	healthuc "github.com/kailas-cloud/cvdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/cvdex/internal/usecase/index"
)

// Indexer loads, builds and lists the chunk index.
type Indexer interface {
	Ensure(ctx context.Context) (indexuc.Outcome, error)
	Rebuild(ctx context.Context) (indexuc.Outcome, error)
	FileNames(ctx context.Context) ([]string, error)
}

// Orchestrator runs analyses.
type Orchestrator interface {
	RunAll(ctx context.Context, concurrency int) (*dombatch.Run, error)
	Analyze(ctx context.Context, fileName string) dombatch.Result
}

// ResultStore keeps the last analysis run.
type ResultStore interface {
	Replace(run *dombatch.Run)
	Last() (*dombatch.Run, bool)
	Find(fileName string) (dombatch.Result, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
