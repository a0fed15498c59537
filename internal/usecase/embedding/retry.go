// Package embedding decorates providers with cross-cutting behaviour shared by
// indexing and querying.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain"
)

const (
	// DefaultAttempts is how many times a rate-limited request is tried.
	DefaultAttempts = 3
	// DefaultBackoff is the wait before the first retry; it doubles after each one.
	DefaultBackoff = 500 * time.Millisecond
)

// Retrying retries rate-limited embedding calls with exponential backoff.
// Only errors wrapping domain.ErrRateLimited are retried; everything else
// is returned at once. Transport metrics are recorded in transport/openai.
type Retrying struct {
	inner    domain.Embedder
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *zap.Logger
}

// NewRetrying wraps inner with DefaultAttempts and DefaultBackoff.
func NewRetrying(inner domain.Embedder, logger *zap.Logger) *Retrying {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{
		inner:    inner,
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
		sleep:    sleepCtx,
		logger:   logger,
	}
}

// WithAttempts sets the total number of tries; values below 1 are ignored.
func (r *Retrying) WithAttempts(n int) *Retrying {
	if n >= 1 {
		r.attempts = n
	}
	return r
}

// WithBackoff sets the first retry delay.
func (r *Retrying) WithBackoff(d time.Duration) *Retrying {
	if d > 0 {
		r.backoff = d
	}
	return r
}

// Embed implements domain.Embedder.
func (r *Retrying) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var res domain.EmbeddingResult
	err := r.do(ctx, "embed", 1, func() error {
		var err error
		res, err = r.inner.Embed(ctx, text)
		return err
	})
	return res, err
}

// BatchEmbed implements domain.BatchEmbedder, falling back to per-text calls
// when inner cannot batch.
func (r *Retrying) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	var res domain.BatchEmbeddingResult
	err := r.do(ctx, "batch embed", len(texts), func() error {
		var err error
		res, err = domain.EmbedAll(ctx, r.inner, texts)
		return err
	})
	return res, err
}

func (r *Retrying) do(ctx context.Context, op string, inputs int, call func() error) error {
	start := time.Now()
	wait := r.backoff
	for attempt := 1; ; attempt++ {
		err := call()
		if err == nil {
			r.logger.Debug("Embedding completed",
				zap.String("op", op),
				zap.Int("inputs", inputs),
				zap.Int("attempt", attempt),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
		if !errors.Is(err, domain.ErrRateLimited) || attempt >= r.attempts {
			r.logger.Error("Embedding failed",
				zap.String("op", op),
				zap.Int("inputs", inputs),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return fmt.Errorf("%s: %w", op, err)
		}

		r.logger.Warn("Embedding rate limited, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
		)
		if serr := r.sleep(ctx, wait); serr != nil {
			return fmt.Errorf("%s: %w", op, errors.Join(err, serr))
		}
		wait *= 2
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
