// Package ranking implements the reranking stage: semantic ordering by
// embedding similarity and a learned relevance classifier with a fixed
// feature contract.
package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/openkart/searchd/internal/domain"
	"github.com/openkart/searchd/internal/logger"
)

// Cosine returns the cosine similarity of two vectors.
// Vectors of different lengths cannot be compared.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Semantic orders candidates by embedding similarity to the query vector.
// Candidates whose stored embedding does not match the query dimensionality
// are dropped individually; the batch always survives.
type Semantic struct{}

// NewSemantic creates the similarity ranker.
func NewSemantic() *Semantic {
	return &Semantic{}
}

// Rank scores and orders candidates. Without a query vector there is nothing
// to compare against, so the fused index order is preserved as-is.
// The sort is stable: equal scores keep their incoming relative order.
func (s *Semantic) Rank(ctx context.Context, q domain.Query, cands []domain.Candidate) ([]domain.Ranked, error) {
	ranked := make([]domain.Ranked, 0, len(cands))

	if len(q.Vector) == 0 {
		for _, c := range cands {
			ranked = append(ranked, domain.Ranked{Candidate: c})
		}
		return ranked, nil
	}

	log := logger.FromContext(ctx)
	for _, c := range cands {
		sim, err := Cosine(q.Vector, c.Embedding)
		if err != nil {
			log.Warn("dropping candidate with mismatched embedding",
				zap.String("asin", c.ASIN),
				zap.Int("candidate_dim", len(c.Embedding)),
				zap.Int("query_dim", len(q.Vector)))
			continue
		}
		ranked = append(ranked, domain.Ranked{Candidate: c, SemanticSimilarity: sim})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SemanticSimilarity > ranked[j].SemanticSimilarity
	})

	return ranked, nil
}
