package db

import "github.com/kailas-cloud/cvdex/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName string
	// VectorField is the schema attribute holding embeddings; empty means "vector".
	VectorField  string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// DistinctQuery lists the unique values of one field across an index.
type DistinctQuery struct {
	IndexName string
	Field     string
	Limit     int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
