package chunk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/cvdex/internal/db"
	domchunk "github.com/kailas-cloud/cvdex/internal/domain/chunk"
	"github.com/kailas-cloud/cvdex/internal/domain/search/filter"
	"github.com/kailas-cloud/cvdex/internal/domain/search/result"
)

// FieldFileName is the metadata tag every chunk is filtered by.
const FieldFileName = domchunk.FieldFileName

const (
	fieldContent = "__content"
	fieldIndex   = "chunk_index"
	fieldVector  = "__vector"
	vectorAttr   = "vector"
)

// maxDistinctFiles caps FT.AGGREGATE output when listing file names.
const maxDistinctFiles = 10000

// store is the consumer interface for chunk persistence (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	SearchDistinct(ctx context.Context, q *db.DistinctQuery) ([]string, error)
}

// HNSWConfig holds HNSW index parameters for FT.CREATE.
type HNSWConfig struct {
	M           int // max edges per node (0 = server default 16)
	EFConstruct int // build-time candidate list size (0 = server default 200)
}

// Config describes key layout and vector schema.
type Config struct {
	KeyPrefix string
	VectorDim int
	HNSW      HNSWConfig
}

// Repo implements the chunk store on top of Redis hashes and one FT index.
type Repo struct {
	store store
	cfg   Config
}

// New creates a chunk repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// IndexName returns the FT index name.
func (r *Repo) IndexName() string {
	return r.cfg.KeyPrefix + "chunks:idx"
}

func (r *Repo) keyPrefix() string {
	return r.cfg.KeyPrefix + "chunk:"
}

func (r *Repo) chunkKey(id string) string {
	return r.keyPrefix() + id
}

// EnsureIndex creates the FT index if it is missing.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.IndexName(), r.keyPrefix(), r.cfg.VectorDim, r.cfg.HNSW)
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Drop removes the index and every chunk hash it covers. A missing index is not an error.
func (r *Repo) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.IndexName(), true); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil
		}
		return fmt.Errorf("drop index %s: %w", r.IndexName(), err)
	}
	return nil
}

// Add stores chunks in a single pipelined round-trip.
func (r *Repo) Add(ctx context.Context, chunks []domchunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(chunks))
	for i := range chunks {
		items[i] = db.HashSetItem{
			Key:    r.chunkKey(chunks[i].ID()),
			Fields: buildHashFields(&chunks[i]),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d chunks: %w", len(chunks), err)
	}
	return nil
}

// FileNames lists the distinct file_name tags, sorted. A missing index yields nil.
func (r *Repo) FileNames(ctx context.Context) ([]string, error) {
	exists, err := r.store.IndexExists(ctx, r.IndexName())
	if err != nil {
		return nil, fmt.Errorf("index exists %s: %w", r.IndexName(), err)
	}
	if !exists {
		return nil, nil
	}

	names, err := r.store.SearchDistinct(ctx, &db.DistinctQuery{
		IndexName: r.IndexName(),
		Field:     FieldFileName,
		Limit:     maxDistinctFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", FieldFileName, err)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of stored chunks.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.IndexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("search count %s: %w", r.IndexName(), err)
	}
	return n, nil
}

// Search returns the topK chunks nearest to vector that satisfy filters.
func (r *Repo) Search(
	ctx context.Context, vector []float32, filters filter.Expression, topK int,
) ([]result.Hit, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.IndexName(),
		VectorField:  vectorAttr,
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{FieldFileName, fieldContent, fieldIndex},
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", r.IndexName(), err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id := strings.TrimPrefix(e.Key, r.keyPrefix())
		hits = append(hits, result.New(id, e.Fields[FieldFileName], e.Fields[fieldContent], e.Score))
	}
	return hits, nil
}
