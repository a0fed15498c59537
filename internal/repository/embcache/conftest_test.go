package embcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/cvdex/internal/db"
	"github.com/kailas-cloud/cvdex/internal/domain"
)

// stubEmbedder returns a one-element vector holding len(text), so hits and
// misses are distinguishable by value. tokens is charged per text.
type stubEmbedder struct {
	tokens   int
	err      error
	batchErr error
	embedded [][]string
}

func vecFor(text string) []float32 { return []float32{float32(len(text))} }

func (m *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	m.embedded = append(m.embedded, []string{text})
	return domain.EmbeddingResult{Embedding: vecFor(text), PromptTokens: m.tokens, TotalTokens: m.tokens}, nil
}

func (m *stubEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	m.embedded = append(m.embedded, texts)
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, text := range texts {
		out.Embeddings[i] = vecFor(text)
	}
	out.PromptTokens = m.tokens * len(texts)
	out.TotalTokens = m.tokens * len(texts)
	return out, nil
}

// memCache is an in-memory stand-in for the Redis string store.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memCache) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type fixture struct {
	ce    *CachedEmbedder
	inner *stubEmbedder
	cache *memCache
	total *prometheus.CounterVec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		inner: &stubEmbedder{tokens: 3},
		cache: newMemCache(),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"}),
	}
	f.ce = New(f.inner, f.cache, Options{KeyPrefix: "cvdex:", TTL: time.Hour, Model: "bge-m3"}, f.total, nil)
	return f
}

// seed stores vec under the key text would use.
func (f *fixture) seed(text string, vec []float32) {
	f.cache.data[f.ce.cacheKey(text)] = vectorToCacheBytes(vec)
}
