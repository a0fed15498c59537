package analyzer

import (
	"context"
	"time"

	"github.com/kailas-cloud/cvdex/internal/domain"
	"github.com/kailas-cloud/cvdex/internal/domain/search/filter"
	"github.com/kailas-cloud/cvdex/internal/domain/search/result"
)

// --- Mocks ---

type mockRetriever struct {
	hits      []result.Hit
	err       error
	calls     int
	gotFilter filter.Expression
	gotTopK   int
	gotVector []float32
}

func (m *mockRetriever) Search(
	_ context.Context, vector []float32, filters filter.Expression, topK int,
) ([]result.Hit, error) {
	m.calls++
	m.gotVector = vector
	m.gotFilter = filters
	m.gotTopK = topK
	return m.hits, m.err
}

type mockEmbedder struct {
	err      error
	gotTexts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.gotTexts = append(m.gotTexts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3, 0.4}, TotalTokens: 7}, nil
}

type mockCompleter struct {
	content     string
	err         error
	delay       time.Duration
	calls       int
	gotRequests []domain.CompletionRequest
	hadDeadline bool
}

func (m *mockCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	m.calls++
	m.gotRequests = append(m.gotRequests, req)
	_, m.hadDeadline = ctx.Deadline()
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return domain.CompletionResult{}, ctx.Err()
		}
	}
	if m.err != nil {
		return domain.CompletionResult{}, m.err
	}
	return domain.CompletionResult{Content: m.content, TotalTokens: 42}, nil
}

func twoHits(file string) []result.Hit {
	return []result.Hit{
		result.New("c1", file, "Senior Go engineer, 5 years.", 0.91),
		result.New("c2", file, "Skills: C++, Go.", 0.42),
	}
}
