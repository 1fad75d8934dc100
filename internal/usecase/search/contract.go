package search

import (
	"context"

	"github.com/openkart/searchd/internal/domain"
)

// Retriever pulls candidates and facets from the product index.
type Retriever interface {
	Search(ctx context.Context, q domain.Query, topK int) ([]domain.Candidate, domain.Facets, error)
	Get(ctx context.Context, asin string) (domain.Candidate, error)
}

// Ranker orders retrieved candidates.
type Ranker interface {
	Rank(ctx context.Context, q domain.Query, cands []domain.Candidate) ([]domain.Ranked, error)
}

// Composer assembles the final page from ranked products and facets.
type Composer interface {
	Compose(ranked []domain.Ranked, facets domain.Facets, pageSize int) domain.Page
}
