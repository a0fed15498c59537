package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain"
	domchunk "github.com/kailas-cloud/cvdex/internal/domain/chunk"
	"github.com/kailas-cloud/cvdex/internal/domain/document"
	"github.com/kailas-cloud/cvdex/internal/metrics"
)

// DefaultBatchSize is the number of chunks embedded and written per round trip.
const DefaultBatchSize = 64

// discardTimeout bounds the cleanup of a half-written index.
const discardTimeout = 10 * time.Second

// Outcome describes what Ensure or Rebuild did.
type Outcome struct {
	Loaded    bool
	Built     bool
	Documents int
	Chunks    int
	FileNames []string
}

// Service loads the chunk index or builds it from the source directory.
type Service struct {
	mu        sync.Mutex
	store     ChunkStore
	loader    SourceLoader
	splitter  TextSplitter
	embed     domain.Embedder
	batchSize int
	newID     func() string
	logger    *zap.Logger
}

// New creates an index service.
func New(
	store ChunkStore, loader SourceLoader, splitter TextSplitter,
	embed domain.Embedder, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		loader:    loader,
		splitter:  splitter,
		embed:     embed,
		batchSize: DefaultBatchSize,
		newID:     uuid.NewString,
		logger:    logger,
	}
}

// WithBatchSize configures the embedding batch size.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Ensure loads the existing index when the store already holds chunks,
// otherwise builds it from the source directory.
func (s *Service) Ensure(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.store.FileNames(ctx)
	if err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		return Outcome{}, fmt.Errorf("list file names: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if len(names) > 0 {
		metrics.IndexBuildsTotal.WithLabelValues("loaded").Inc()
		s.logger.Info("Index loaded", zap.Int("files", len(names)))
		return Outcome{Loaded: true, Documents: len(names), FileNames: names}, nil
	}

	return s.build(ctx)
}

// Rebuild drops the index with its chunks and builds it again.
func (s *Service) Rebuild(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Drop(ctx); err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		return Outcome{}, fmt.Errorf("drop index: %w: %w", domain.ErrStoreUnavailable, err)
	}
	s.logger.Info("Index dropped")
	return s.build(ctx)
}

// FileNames returns the sorted distinct file names held by the store.
func (s *Service) FileNames(ctx context.Context) ([]string, error) {
	names, err := s.store.FileNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list file names: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return names, nil
}

func (s *Service) build(ctx context.Context) (Outcome, error) {
	out, err := s.buildLocked(ctx)
	if err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		return Outcome{}, err
	}
	metrics.IndexBuildsTotal.WithLabelValues("built").Inc()
	return out, nil
}

type pendingChunk struct {
	fileName string
	index    int
	content  string
}

func (s *Service) buildLocked(ctx context.Context) (Outcome, error) {
	if err := s.store.EnsureIndex(ctx); err != nil {
		return Outcome{}, fmt.Errorf("ensure index: %w: %w", domain.ErrStoreUnavailable, err)
	}

	docs, err := s.loader.Load(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return Outcome{}, domain.ErrNoDocuments
	}

	pending := s.split(docs)
	s.logger.Info(fmt.Sprintf("Split into %d chunks", len(pending)),
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(pending)),
	)

	for offset := 0; offset < len(pending); offset += s.batchSize {
		end := min(offset+s.batchSize, len(pending))
		if err := s.ingest(ctx, pending[offset:end]); err != nil {
			s.discard(ctx, offset)
			return Outcome{}, fmt.Errorf("ingest chunks [%d:%d]: %w", offset, end, err)
		}
	}

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.FileName())
	}

	s.logger.Info("Index built",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(pending)),
	)
	return Outcome{Built: true, Documents: len(docs), Chunks: len(pending), FileNames: names}, nil
}

// discard drops a partially ingested index so the next Ensure builds it
// again instead of loading a truncated file set.
func (s *Service) discard(ctx context.Context, written int) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()
	if err := s.store.Drop(dctx); err != nil {
		s.logger.Error("Failed to drop partial index, run a rebuild",
			zap.Int("chunks_written", written), zap.Error(err))
		return
	}
	s.logger.Warn("Dropped partial index", zap.Int("chunks_written", written))
}

func (s *Service) split(docs []document.Document) []pendingChunk {
	var pending []pendingChunk
	for _, d := range docs {
		for i, text := range s.splitter.Split(d.Text()) {
			pending = append(pending, pendingChunk{fileName: d.FileName(), index: i, content: text})
		}
	}
	return pending
}

// ingest embeds one batch and writes it with a single pipelined call.
func (s *Service) ingest(ctx context.Context, batch []pendingChunk) error {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.content
	}

	res, err := domain.EmbedAll(ctx, s.embed, texts)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	chunks := make([]domchunk.Chunk, 0, len(batch))
	for i, p := range batch {
		c, err := domchunk.New(s.newID(), p.fileName, p.index, p.content, res.Embeddings[i])
		if err != nil {
			return fmt.Errorf("build chunk: %w", err)
		}
		chunks = append(chunks, c)
	}

	if err := s.store.Add(ctx, chunks); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("store chunks: %w", err)
		}
		return fmt.Errorf("store chunks: %w: %w", domain.ErrStoreUnavailable, err)
	}
	metrics.IndexChunksTotal.Add(float64(len(chunks)))
	return nil
}
