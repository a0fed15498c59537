package index

import (
	"context"

	domchunk "github.com/kailas-cloud/cvdex/internal/domain/chunk"
	"github.com/kailas-cloud/cvdex/internal/domain/document"
)

// ChunkStore persists chunks and manages the vector index.
type ChunkStore interface {
	EnsureIndex(ctx context.Context) error
	Drop(ctx context.Context) error
	Add(ctx context.Context, chunks []domchunk.Chunk) error
	FileNames(ctx context.Context) ([]string, error)
}

// SourceLoader reads source documents.
type SourceLoader interface {
	Load(ctx context.Context) ([]document.Document, error)
}

// TextSplitter cuts document text into chunks.
type TextSplitter interface {
	Split(text string) []string
}
