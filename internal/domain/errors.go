package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFileName signals an empty or malformed source file name.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrStoreUnavailable signals an unreachable or misconfigured chunk store.
	ErrStoreUnavailable = errors.New("chunk store unavailable")
	// ErrNoDocuments signals an empty source directory during an index build.
	ErrNoDocuments = errors.New("no source documents")
	// ErrNoChunks signals that retrieval returned nothing for a file.
	ErrNoChunks = errors.New("no chunks retrieved")
	// ErrAnalysis signals a recoverable per-file analysis failure.
	ErrAnalysis = errors.New("analysis failed")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals a chat completion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrEmptyCompletion signals a completion without choices.
	ErrEmptyCompletion = errors.New("empty completion")
)
