package catalog

import (
	"sort"

	"github.com/openkart/searchd/internal/domain"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRanks merges the vector and lexical legs via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// When a product appears in both legs, the vector hit is kept (its parsed
// fields include the embedding either way, but vector entries rank on
// similarity rather than BM25).
func fuseRanks(vector, lexical []domain.Candidate, topK int) []domain.Candidate {
	type scored struct {
		cand  domain.Candidate
		score float64
	}

	merged := make(map[string]*scored)

	for rank, c := range vector {
		s := 1.0 / float64(rrfK+rank+1)
		merged[c.ASIN] = &scored{cand: c, score: s}
	}

	for rank, c := range lexical {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[c.ASIN]; ok {
			existing.score += s
		} else {
			merged[c.ASIN] = &scored{cand: c, score: s}
		}
	}

	results := make([]domain.Candidate, 0, len(merged))
	for _, s := range merged {
		c := s.cand
		c.IndexScore = s.score
		results = append(results, c)
	}

	// Ties broken by ASIN so the fused order is deterministic.
	sort.Slice(results, func(i, j int) bool {
		if results[i].IndexScore != results[j].IndexScore {
			return results[i].IndexScore > results[j].IndexScore
		}
		return results[i].ASIN < results[j].ASIN
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results
}
