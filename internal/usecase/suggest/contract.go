package suggest

import (
	"context"

	"github.com/openkart/searchd/internal/domain"
)

// Sources is the per-source lookup contract served by the suggestion
// repository. Each method is independent; the service isolates failures.
type Sources interface {
	Queries(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error)
	Categories(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error)
	Brands(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error)
	Products(ctx context.Context, vector []float32, lang domain.Language, max int) ([]domain.Suggestion, error)
}
