package ranking

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/dmitryikh/leaves"
	"go.uber.org/zap"

	"github.com/openkart/searchd/internal/domain"
	"github.com/openkart/searchd/internal/logger"
)

// featureCount is the width of the classifier's feature vector. The order is
// fixed by training and must never be rearranged:
// text similarity, semantic similarity, query length, rating, rating count,
// quality score, discount percentage, bought past month.
const featureCount = 8

// LTR scores candidates with the pretrained purchase classifier and orders
// them by the positive-class probability.
type LTR struct {
	model *leaves.Ensemble
	vec   *Vectorizer
}

// NewLTR loads the classifier and vectorizer artifacts. A missing or
// unreadable artifact yields ErrClassifierUnavailable; the caller decides
// once, at startup, whether to fall back to semantic ordering.
func NewLTR(modelPath, vocabPath string) (*LTR, error) {
	if modelPath == "" || vocabPath == "" {
		return nil, fmt.Errorf("%w: artifact paths not configured", domain.ErrClassifierUnavailable)
	}

	model, err := leaves.LGEnsembleFromFile(modelPath, true)
	if err != nil {
		return nil, fmt.Errorf("%w: load model %s: %v", domain.ErrClassifierUnavailable, modelPath, err)
	}
	if model.NOutputGroups() != 1 {
		return nil, fmt.Errorf("%w: model %s is not a binary classifier (%d output groups)",
			domain.ErrClassifierUnavailable, modelPath, model.NOutputGroups())
	}

	vec, err := NewVectorizer(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}

	return &LTR{model: model, vec: vec}, nil
}

// Rank scores candidates and orders them by relevance probability, stable on
// ties. Candidates with a mismatched embedding are dropped individually.
// A missing query vector zeroes the semantic feature but never blocks
// classification.
func (l *LTR) Rank(ctx context.Context, q domain.Query, cands []domain.Candidate) ([]domain.Ranked, error) {
	log := logger.FromContext(ctx)
	ranked := make([]domain.Ranked, 0, len(cands))

	for _, c := range cands {
		var semantic float64
		if len(q.Vector) > 0 {
			sim, err := Cosine(q.Vector, c.Embedding)
			if err != nil {
				log.Warn("dropping candidate with mismatched embedding",
					zap.String("asin", c.ASIN),
					zap.Int("candidate_dim", len(c.Embedding)),
					zap.Int("query_dim", len(q.Vector)))
				continue
			}
			semantic = sim
		}

		text := l.vec.Similarity(q.Text, c.DisplayTitle(q.Language))
		prob := l.model.PredictSingle(features(q, c, text, semantic), 0)

		ranked = append(ranked, domain.Ranked{
			Candidate:          c,
			TextSimilarity:     text,
			SemanticSimilarity: semantic,
			RelevanceScore:     prob,
			HasRelevance:       true,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	return ranked, nil
}

// features assembles the classifier input in training order.
// Query length counts runes so Devanagari queries measure the same as they
// did at training time.
func features(q domain.Query, c domain.Candidate, textSim, semanticSim float64) []float64 {
	out := make([]float64, 0, featureCount)
	return append(out,
		textSim,
		semanticSim,
		float64(utf8.RuneCountInString(q.Text)),
		c.Rating,
		c.RatingCount,
		c.QualityScore,
		clip(c.DiscountPct, 0, 100),
		c.BoughtPastMonth,
	)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
