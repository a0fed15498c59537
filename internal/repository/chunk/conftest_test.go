package chunk

import (
	"context"
	"testing"

	"github.com/kailas-cloud/cvdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn      func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn    func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn      func(ctx context.Context, name string, deleteDocs bool) error
	indexExistsFn    func(ctx context.Context, name string) (bool, error)
	searchKNNFn      func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchCountFn    func(ctx context.Context, index, query string) (int, error)
	searchDistinctFn func(ctx context.Context, q *db.DistinctQuery) ([]string, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func (m *mockStore) SearchDistinct(ctx context.Context, q *db.DistinctQuery) ([]string, error) {
	if m.searchDistinctFn != nil {
		return m.searchDistinctFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, Config{KeyPrefix: "cvdex:", VectorDim: 4, HNSW: HNSWConfig{M: 16, EFConstruct: 200}}), ms
}
