package index

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kailas-cloud/cvdex/internal/domain"
	domchunk "github.com/kailas-cloud/cvdex/internal/domain/chunk"
	"github.com/kailas-cloud/cvdex/internal/domain/document"
)

// --- Mocks ---

type mockChunkStore struct {
	mu        sync.Mutex
	names     []string
	namesErr  error
	ensureErr error
	dropErr   error
	addErr    error
	added     []domchunk.Chunk
	addCalls  int
	dropCalls int
	ensured   int
}

func (m *mockChunkStore) EnsureIndex(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured++
	return m.ensureErr
}

func (m *mockChunkStore) Drop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropCalls++
	if m.dropErr != nil {
		return m.dropErr
	}
	m.names = nil
	m.added = nil
	return nil
}

func (m *mockChunkStore) Add(_ context.Context, chunks []domchunk.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls++
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockChunkStore) FileNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.namesErr != nil {
		return nil, m.namesErr
	}
	if len(m.names) > 0 {
		return m.names, nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, c := range m.added {
		if _, ok := seen[c.FileName()]; !ok {
			seen[c.FileName()] = struct{}{}
			out = append(out, c.FileName())
		}
	}
	return out, nil
}

type mockLoader struct {
	docs  []document.Document
	err   error
	calls int
}

func (m *mockLoader) Load(_ context.Context) ([]document.Document, error) {
	m.calls++
	return m.docs, m.err
}

// wordSplitter cuts text into fixed groups of words.
type wordSplitter struct{ words int }

func (s wordSplitter) Split(text string) []string {
	fields := strings.Fields(text)
	var out []string
	for i := 0; i < len(fields); i += s.words {
		out = append(out, strings.Join(fields[i:min(i+s.words, len(fields))], " "))
	}
	return out
}

type mockEmbedder struct {
	mu         sync.Mutex
	err        error
	failOn     int // fail only the n-th BatchEmbed call when > 0
	batchCalls int
	batchSizes []int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1, 0, 0, 0}}, m.err
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.err != nil && (m.failOn == 0 || m.batchCalls == m.failOn) {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1, 0, 0}
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

func mustDoc(name, text string) document.Document {
	d, err := document.New(name, text)
	if err != nil {
		panic(err)
	}
	return d
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestService(store *mockChunkStore, loader *mockLoader, emb *mockEmbedder) *Service {
	svc := New(store, loader, wordSplitter{words: 3}, emb, nil)
	svc.newID = sequentialIDs()
	return svc
}
