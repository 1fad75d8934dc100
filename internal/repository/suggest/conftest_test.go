package suggest

import (
	"context"
	"testing"

	"github.com/openkart/searchd/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	suggestFn   func(ctx context.Context, q *db.SuggestQuery) ([]db.SuggestEntry, error)
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) Suggest(ctx context.Context, q *db.SuggestQuery) ([]db.SuggestEntry, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Config{DictPrefix: "suggest:", IndexName: "products:idx"})
	return repo, ms
}
