package analyzer

import (
	"context"

	"github.com/kailas-cloud/cvdex/internal/domain/search/filter"
	"github.com/kailas-cloud/cvdex/internal/domain/search/result"
)

// Retriever runs filtered KNN search over stored chunks.
type Retriever interface {
	Search(ctx context.Context, vector []float32, filters filter.Expression, topK int) ([]result.Hit, error)
}
