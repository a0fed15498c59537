package openai

import (
	"context"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain"
	"github.com/kailas-cloud/cvdex/internal/metrics"
)

// CompleterConfig holds the chat completion settings.
type CompleterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Provider    string
	Logger      *zap.Logger
}

// Completer is a chat LLM using the OpenAI-compatible chat completions API.
type Completer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	provider    string
	logger      *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat completion provider.
func NewCompleter(cfg *CompleterConfig) *Completer {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completer{
		client:      newClient(&Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Complete implements domain.Completer with exactly one chat completion request.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	temperature := c.temperature
	if temperature == 0 {
		// temperature is omitempty in the request struct; 0 would fall back to the server default
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
	if c.maxTokens > 0 {
		chatReq.MaxTokens = c.maxTokens
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return domain.CompletionResult{}, parseAPIError(err, "llm", domain.ErrLLMProviderError)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return domain.CompletionResult{}, fmt.Errorf("%w: %w", domain.ErrEmptyCompletion, domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.provider, c.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	c.logger.Debug("Chat completion finished",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)

	return domain.CompletionResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
