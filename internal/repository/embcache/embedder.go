// Package embcache memoises embeddings in Redis under <prefix>emb:<sha256(model, text)>.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/db"
	"github.com/kailas-cloud/cvdex/internal/domain"
)

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options tune cache keys and expiry.
type Options struct {
	KeyPrefix string
	// TTL of cached vectors; zero keeps them forever.
	TTL time.Duration
	// Model is part of the key so switching models never serves stale vectors.
	Model string
}

// CachedEmbedder serves repeated texts from the store. Store failures degrade
// to a miss and are only logged.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	opts       Options
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New wraps inner. cacheTotal, if set, is incremented with result="hit" or "miss".
func New(
	inner domain.Embedder,
	s store,
	opts Options,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		opts:       opts,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns the cached vector (with zero token usage) or embeds and stores it.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)
	if vec, ok := c.lookup(ctx, key); ok {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	res, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	c.save(ctx, key, res.Embedding)
	return res, nil
}

// BatchEmbed sends only the misses to inner, in one call, and keeps input order.
// Token usage covers the misses alone.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	keys := make([]string, len(texts))
	var misses []int
	for i, text := range texts {
		keys[i] = c.cacheKey(text)
		if vec, ok := c.lookup(ctx, keys[i]); ok {
			out.Embeddings[i] = vec
			continue
		}
		misses = append(misses, i)
	}
	if len(misses) == 0 {
		return out, nil
	}

	pending := make([]string, len(misses))
	for j, i := range misses {
		pending[j] = texts[i]
	}
	res, err := domain.EmbedAll(ctx, c.inner, pending)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embed %d misses: %w", len(pending), err)
	}
	for j, i := range misses {
		out.Embeddings[i] = res.Embeddings[j]
		c.save(ctx, keys[i], res.Embeddings[j])
	}
	out.PromptTokens = res.PromptTokens
	out.TotalTokens = res.TotalTokens
	return out, nil
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.Sum256([]byte(c.opts.Model + "\x00" + text))
	return c.opts.KeyPrefix + "emb:" + hex.EncodeToString(h[:])
}

// lookup reads key and records the hit or miss.
func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	vec, err := c.read(ctx, key)
	hit := err == nil && len(vec) > 0
	if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
	}
	if c.cacheTotal != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		c.cacheTotal.WithLabelValues(result).Inc()
	}
	return vec, hit
}

func (c *CachedEmbedder) read(ctx context.Context, key string) ([]float32, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return bytesToVector(data)
}

func (c *CachedEmbedder) save(ctx context.Context, key string, vec []float32) {
	if err := c.store.SetWithTTL(ctx, key, vectorToCacheBytes(vec), c.opts.TTL); err != nil {
		c.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// vectorToCacheBytes encodes v as little-endian float32, the FT vector layout.
func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("cached embedding has %d bytes, not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}
