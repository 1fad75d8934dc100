package search

import (
	"context"
	"testing"

	"github.com/openkart/searchd/internal/domain"
)

// mockRetriever implements Retriever for tests.
type mockRetriever struct {
	called   bool
	searchFn func(ctx context.Context, q domain.Query, topK int) ([]domain.Candidate, domain.Facets, error)
	getFn    func(ctx context.Context, asin string) (domain.Candidate, error)
}

func (m *mockRetriever) Search(ctx context.Context, q domain.Query, topK int) ([]domain.Candidate, domain.Facets, error) {
	m.called = true
	if m.searchFn != nil {
		return m.searchFn(ctx, q, topK)
	}
	return nil, domain.Facets{}, nil
}

func (m *mockRetriever) Get(ctx context.Context, asin string) (domain.Candidate, error) {
	if m.getFn != nil {
		return m.getFn(ctx, asin)
	}
	return domain.Candidate{}, domain.ErrProductNotFound
}

// mockRanker implements Ranker for tests.
type mockRanker struct {
	rankFn func(ctx context.Context, q domain.Query, cands []domain.Candidate) ([]domain.Ranked, error)
}

func (m *mockRanker) Rank(ctx context.Context, q domain.Query, cands []domain.Candidate) ([]domain.Ranked, error) {
	if m.rankFn != nil {
		return m.rankFn(ctx, q, cands)
	}
	ranked := make([]domain.Ranked, 0, len(cands))
	for _, c := range cands {
		ranked = append(ranked, domain.Ranked{Candidate: c})
	}
	return ranked, nil
}

// mockComposer implements Composer for tests; it records its inputs and
// returns a product-only page.
type mockComposer struct {
	gotRanked   []domain.Ranked
	gotPageSize int
}

func (m *mockComposer) Compose(ranked []domain.Ranked, facets domain.Facets, pageSize int) domain.Page {
	m.gotRanked = ranked
	m.gotPageSize = pageSize

	slots := make([]domain.Slot, 0, len(ranked))
	for i := range ranked {
		slots = append(slots, domain.Slot{Kind: domain.SlotProduct, Product: &ranked[i]})
	}
	return domain.Page{Slots: slots, Facets: facets, ViewPreference: domain.ViewGrid}
}

// mockEmbedder implements domain.Embedder for tests.
type mockEmbedder struct {
	called  bool
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type fixtures struct {
	retriever *mockRetriever
	ranker    *mockRanker
	composer  *mockComposer
	embedder  *mockEmbedder
}

func newTestService(t *testing.T) (*Service, *fixtures) {
	t.Helper()
	f := &fixtures{
		retriever: &mockRetriever{},
		ranker:    &mockRanker{},
		composer:  &mockComposer{},
		embedder:  &mockEmbedder{},
	}
	svc := New(f.retriever, f.ranker, f.composer, f.embedder, Config{
		Overfetch:       100,
		DefaultPageSize: 20,
		MaxPageSize:     50,
		RankerMode:      "semantic",
	})
	return svc, f
}
