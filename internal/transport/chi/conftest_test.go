package chi

import (
	"context"
	"net/http/httptest"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openkart/searchd/internal/domain"
	healthuc "github.com/openkart/searchd/internal/usecase/health"
	searchuc "github.com/openkart/searchd/internal/usecase/search"
)

type mockSearcher struct {
	searchFn  func(ctx context.Context, p searchuc.Params) (domain.Page, error)
	productFn func(ctx context.Context, asin string) (domain.Candidate, error)
	called    bool
	lastP     searchuc.Params
}

func (m *mockSearcher) Search(ctx context.Context, p searchuc.Params) (domain.Page, error) {
	m.called = true
	m.lastP = p
	if m.searchFn != nil {
		return m.searchFn(ctx, p)
	}
	return domain.Page{ViewPreference: domain.ViewGrid}, nil
}

func (m *mockSearcher) Product(ctx context.Context, asin string) (domain.Candidate, error) {
	if m.productFn != nil {
		return m.productFn(ctx, asin)
	}
	return domain.Candidate{}, domain.ErrProductNotFound
}

type mockSuggester struct {
	suggestFn func(ctx context.Context, prefix string) ([]domain.Suggestion, error)
	called    bool
	lastQ     string
}

func (m *mockSuggester) Suggest(ctx context.Context, prefix string) ([]domain.Suggestion, error) {
	m.called = true
	m.lastQ = prefix
	if m.suggestFn != nil {
		return m.suggestFn(ctx, prefix)
	}
	return nil, nil
}

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

type fixtures struct {
	searcher  *mockSearcher
	suggester *mockSuggester
	pinger    *mockPinger
	server    *httptest.Server
}

func newTestServer() *fixtures {
	f := &fixtures{
		searcher:  &mockSearcher{},
		suggester: &mockSuggester{},
		pinger:    &mockPinger{},
	}

	srv := NewServer(f.searcher, f.suggester, healthuc.New(f.pinger, nil), zap.NewNop())
	r := chirouter.NewRouter()
	srv.Routes(r)
	f.server = httptest.NewServer(r)
	return f
}

func rankedProduct(asin, title, dept string) *domain.Ranked {
	return &domain.Ranked{
		Candidate: domain.Candidate{
			ASIN:       asin,
			Title:      title,
			Department: dept,
			FinalPrice: 99.5,
			Rating:     4.2,
		},
		SemanticSimilarity: 0.8,
	}
}
