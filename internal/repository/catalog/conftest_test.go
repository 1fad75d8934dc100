package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/openkart/searchd/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchTextFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	aggregateFn  func(ctx context.Context, q *db.AggQuery) ([]db.AggBucket, error)
	hGetAllFn    func(ctx context.Context, key string) (map[string]string, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hGetAllFn != nil {
		return m.hGetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggQuery) ([]db.AggBucket, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Config{IndexName: "products:idx", KeyPrefix: "product:"})
	return repo, ms
}

// productEntries fabricates n hits with descending scores.
func productEntries(n int, prefix string) []db.SearchEntry {
	entries := make([]db.SearchEntry, 0, n)
	for i := 0; i < n; i++ {
		asin := fmt.Sprintf("%s%02d", prefix, i)
		entries = append(entries, db.SearchEntry{
			Key:   "product:" + asin,
			Score: float64(n - i),
			Fields: map[string]string{
				"title":       "Product " + asin,
				"brand":       "Acme",
				"department":  "Electronics",
				"rating":      "4.2",
				"final_price": "199.0",
			},
		})
	}
	return entries
}

func floatPtr(f float64) *float64 { return &f }
