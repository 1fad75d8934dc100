package suggest

import (
	"context"
	"testing"

	"github.com/openkart/searchd/internal/domain"
)

// mockSources implements Sources for tests.
type mockSources struct {
	queriesFn    func(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error)
	categoriesFn func(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error)
	brandsFn     func(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error)
	productsFn   func(ctx context.Context, vector []float32, lang domain.Language, max int) ([]domain.Suggestion, error)

	categoriesCalled bool
	brandsCalled     bool
}

func (m *mockSources) Queries(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error) {
	if m.queriesFn != nil {
		return m.queriesFn(ctx, prefix, lang, max)
	}
	return nil, nil
}

func (m *mockSources) Categories(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error) {
	m.categoriesCalled = true
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx, prefix, lang, max)
	}
	return nil, nil
}

func (m *mockSources) Brands(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error) {
	m.brandsCalled = true
	if m.brandsFn != nil {
		return m.brandsFn(ctx, prefix, lang, max)
	}
	return nil, nil
}

func (m *mockSources) Products(ctx context.Context, vector []float32, lang domain.Language, max int) ([]domain.Suggestion, error) {
	if m.productsFn != nil {
		return m.productsFn(ctx, vector, lang, max)
	}
	return nil, nil
}

// mockEmbedder implements domain.Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func newTestService(t *testing.T, mode string) (*Service, *mockSources, *mockEmbedder) {
	t.Helper()
	ms := &mockSources{}
	me := &mockEmbedder{}
	svc := New(ms, me, Config{
		Mode:        mode,
		Limit:       15,
		QueryCap:    4,
		ProductCap:  3,
		CategoryCap: 2,
		BrandCap:    1,
	})
	return svc, ms, me
}

func queriesOf(terms ...string) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, len(terms))
	for _, term := range terms {
		out = append(out, domain.Suggestion{Kind: domain.SuggestQuery, Display: term})
	}
	return out
}
