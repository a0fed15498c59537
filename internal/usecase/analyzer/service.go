package analyzer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain"
	domchunk "github.com/kailas-cloud/cvdex/internal/domain/chunk"
	"github.com/kailas-cloud/cvdex/internal/domain/search/filter"
)

const (
	// DefaultTopK is the number of chunks retrieved per file.
	DefaultTopK = 2
	// DefaultRequestTimeout bounds one chat completion call.
	DefaultRequestTimeout = 60 * time.Second
)

// Options tunes retrieval and the model call.
type Options struct {
	TopK             int
	SimilarityCutoff float64
	RequestTimeout   time.Duration
}

// Service analyses one stored CV with a single retrieval-augmented LLM call.
type Service struct {
	retriever Retriever
	embed     domain.Embedder
	llm       domain.Completer
	opts      Options
	logger    *zap.Logger
}

// New creates an analyzer. Zero options fall back to defaults.
func New(
	retriever Retriever, embed domain.Embedder, llm domain.Completer,
	opts Options, logger *zap.Logger,
) *Service {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: retriever, embed: embed, llm: llm, opts: opts, logger: logger}
}

// Analyze retrieves the chunks of fileName and returns the raw model answer.
// Every failure is a *FileError wrapping domain.ErrAnalysis.
func (s *Service) Analyze(ctx context.Context, fileName string) (string, error) {
	if fileName == "" {
		return "", fileError(fileName, domain.ErrInvalidFileName)
	}

	chunks, err := s.retrieve(ctx, fileName)
	if err != nil {
		return "", fileError(fileName, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.llm.Complete(callCtx, domain.CompletionRequest{
		System: SystemPrompt,
		Prompt: renderPrompt(chunks, ExtractionPrompt),
	})
	if err != nil {
		return "", fileError(fileName, fmt.Errorf("complete: %w", err))
	}

	s.logger.Debug("File analysed",
		zap.String("file_name", fileName),
		zap.Int("chunks", len(chunks)),
		zap.Duration("duration", time.Since(start)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res.Content, nil
}

func (s *Service) retrieve(ctx context.Context, fileName string) ([]string, error) {
	cond, err := filter.NewMatch(domchunk.FieldFileName, fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidFileName, err)
	}
	expr, err := filter.NewExpression(cond)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	query, err := s.embed.Embed(ctx, ExtractionPrompt)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.retriever.Search(ctx, query.Embedding, expr, s.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	chunks := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Score() < s.opts.SimilarityCutoff {
			continue
		}
		chunks = append(chunks, h.Content())
	}
	if len(chunks) == 0 {
		return nil, domain.ErrNoChunks
	}
	return chunks, nil
}
