package openai

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain"
	"github.com/kailas-cloud/cvdex/internal/metrics"
)

// Config holds the provider settings shared by the embedder and the completer.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	User       string
	Provider   string
	Logger     *zap.Logger
}

func newClient(cfg *Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// Embedder calls an OpenAI-compatible /embeddings endpoint (Nebius, OpenAI, vLLM).
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	logger     *zap.Logger
}

// NewEmbedder creates an embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		client:     newClient(cfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		provider:   cfg.Provider,
		logger:     logger,
	}
}

// Embed implements domain.Embedder as a batch of one.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder with a single request.
// Vectors come back in input order whatever order the provider lists them in.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
		Dimensions:     max(e.dimensions, 0),
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		e.fail("api_error")
		return domain.BatchEmbeddingResult{}, parseAPIError(err, "embedding", domain.ErrEmbeddingProviderError)
	}
	if len(resp.Data) != len(texts) {
		e.fail("empty_response")
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embedding response has %d vectors for %d inputs: %w",
			len(resp.Data), len(texts), domain.ErrEmbeddingProviderError)
	}
	e.succeed(elapsed, resp.Usage)

	slices.SortFunc(resp.Data, func(a, b openai.Embedding) int { return cmp.Compare(a.Index, b.Index) })
	out := domain.BatchEmbeddingResult{
		Embeddings:   make([][]float32, len(resp.Data)),
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	for i := range resp.Data {
		out.Embeddings[i] = resp.Data[i].Embedding
	}

	e.logger.Debug("Embeddings created",
		zap.String("model", string(e.model)),
		zap.Int("inputs", len(texts)),
		zap.Duration("duration", elapsed),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return out, nil
}

func (e *Embedder) fail(reason string) {
	model := string(e.model)
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, model, reason).Inc()
}

func (e *Embedder) succeed(elapsed time.Duration, usage openai.Usage) {
	model := string(e.model)
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, model).Observe(elapsed.Seconds())
	if usage.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "prompt").Add(float64(usage.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "total").Add(float64(usage.TotalTokens))
	}
}

// HealthCheck lists models, which costs no tokens.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
