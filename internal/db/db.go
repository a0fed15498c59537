package db

import (
	"context"
	"time"
)

// Store is everything the Redis backend offers. Consumers declare the narrow
// subset they need; the composite exists for the compile-time check.
type Store interface {
	Pinger
	ChunkWriter
	Cache
	IndexManager
	Searcher
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one hash written by HSetMulti.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// ChunkWriter writes chunk hashes in one pipelined round-trip.
type ChunkWriter interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
}

// Cache is the byte-value store behind the embedding cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	// DropIndex removes the index; with deleteDocs the indexed hashes are removed too.
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides queries over FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	SearchDistinct(ctx context.Context, q *DistinctQuery) ([]string, error)
}
