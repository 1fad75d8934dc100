package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/openkart/searchd/internal/db"
)

// SuggestAdd inserts a weighted term into a completion dictionary via FT.SUGADD.
func (s *Store) SuggestAdd(ctx context.Context, dict, term string, weight float64, payload string) error {
	if dict == "" {
		return fmt.Errorf("dict key is required")
	}
	if term == "" {
		return fmt.Errorf("term is required")
	}

	args := []string{dict, term, strconv.FormatFloat(weight, 'g', -1, 64)}
	if payload != "" {
		args = append(args, "PAYLOAD", payload)
	}

	cmd := s.b().Arbitrary("FT.SUGADD").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSuggestAdd, Err: err}
	}
	return nil
}

// Suggest runs a completion-dictionary prefix lookup via FT.SUGGET.
// Results come back weighted and deduplicated, highest weight first.
func (s *Store) Suggest(ctx context.Context, q *db.SuggestQuery) ([]db.SuggestEntry, error) {
	if q.Dict == "" {
		return nil, fmt.Errorf("dict key is required")
	}
	if q.Prefix == "" {
		return nil, fmt.Errorf("prefix is required")
	}
	maxN := q.Max
	if maxN <= 0 {
		maxN = 5
	}

	args := []string{q.Dict, q.Prefix}
	if q.Fuzzy {
		args = append(args, "FUZZY")
	}
	args = append(args, "WITHSCORES", "WITHPAYLOADS", "MAX", strconv.Itoa(maxN))

	cmd := s.b().Arbitrary("FT.SUGGET").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSuggestGet, Err: err}
	}

	// 3-stride: [term1, score1, payload1, term2, score2, payload2, ...]
	entries := make([]db.SuggestEntry, 0, len(raw)/3)
	for i := 0; i+2 < len(raw); i += 3 {
		term, err := raw[i].ToString()
		if err != nil {
			continue
		}

		var score float64
		if scoreStr, err := raw[i+1].ToString(); err == nil {
			score, _ = strconv.ParseFloat(scoreStr, 64)
		}

		payload, _ := raw[i+2].ToString()

		entries = append(entries, db.SuggestEntry{Term: term, Score: score, Payload: payload})
	}

	return entries, nil
}
