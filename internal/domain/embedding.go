package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// EmbedAll vectorizes texts with a native batch call when e supports it,
// falling back to one Embed per text otherwise.
func EmbedAll(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return BatchEmbeddingResult{}, nil
	}
	if be, ok := e.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		if len(res.Embeddings) != len(texts) {
			return BatchEmbeddingResult{}, fmt.Errorf(
				"batch embed: got %d vectors for %d texts", len(res.Embeddings), len(texts))
		}
		return res, nil
	}

	out := BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		out.Embeddings[i] = res.Embedding
		out.PromptTokens += res.PromptTokens
		out.TotalTokens += res.TotalTokens
	}
	return out, nil
}

// QueryEmbedder prepends a retrieval instruction to query text before embedding.
// Models such as bge expect the prefix on queries only, never on stored passages.
type QueryEmbedder struct {
	inner       Embedder
	instruction string
}

// NewQueryEmbedder wraps inner with a query instruction prefix.
func NewQueryEmbedder(inner Embedder, instruction string) *QueryEmbedder {
	return &QueryEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends the instruction and delegates to the inner embedder.
func (e *QueryEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("query embed: %w", err)
	}
	return result, nil
}
