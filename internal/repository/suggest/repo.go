// Package suggest serves the autosuggest source lookups: completion
// dictionaries for queries, categories and brands, and a vector lookup over
// the product index for product suggestions.
package suggest

import (
	"context"
	"fmt"

	"github.com/openkart/searchd/internal/db"
	"github.com/openkart/searchd/internal/domain"
)

// store is the consumer interface for suggestion lookups (ISP).
type store interface {
	Suggest(ctx context.Context, q *db.SuggestQuery) ([]db.SuggestEntry, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config holds dictionary naming and the product index used for
// product suggestions.
type Config struct {
	// DictPrefix prefixes dictionary keys; full keys look like
	// "<prefix>queries:en".
	DictPrefix string
	IndexName  string
}

// Repo implements the per-source lookups consumed by usecase/suggest.
type Repo struct {
	store store
	cfg   Config
}

// New creates a suggestion repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Queries returns historical query completions, weighted by frequency.
func (r *Repo) Queries(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error) {
	entries, err := r.lookup(ctx, "queries", prefix, lang, max)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Suggestion, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Suggestion{
			Kind:    domain.SuggestQuery,
			Display: e.Term,
			Score:   e.Score,
		})
	}
	return out, nil
}

// Categories returns category completions. Display carries the
// "in <name>" rendering; Category carries the bare name.
func (r *Repo) Categories(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error) {
	entries, err := r.lookup(ctx, "categories", prefix, lang, max)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Suggestion, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Suggestion{
			Kind:     domain.SuggestCategory,
			Display:  "in " + e.Term,
			Category: e.Term,
			Score:    e.Score,
		})
	}
	return out, nil
}

// Brands returns brand completions.
func (r *Repo) Brands(ctx context.Context, prefix string, lang domain.Language, max int) ([]domain.Suggestion, error) {
	entries, err := r.lookup(ctx, "brands", prefix, lang, max)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Suggestion, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Suggestion{
			Kind:    domain.SuggestBrand,
			Display: e.Term,
			Score:   e.Score,
		})
	}
	return out, nil
}

// Products returns product suggestions by vector proximity to the prefix
// embedding, with the title localized for the requested language.
func (r *Repo) Products(ctx context.Context, vector []float32, lang domain.Language, max int) ([]domain.Suggestion, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		VectorField:  "embedding",
		Vector:       vector,
		K:            max,
		ReturnFields: []string{"title", "title_hi", "image_url"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: products: %v", domain.ErrSourceUnavailable, err)
	}
	if sr == nil {
		return nil, nil
	}

	out := make([]domain.Suggestion, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		title := e.Fields["title"]
		if lang == domain.LangHindi && e.Fields["title_hi"] != "" {
			title = e.Fields["title_hi"]
		}
		if title == "" {
			continue
		}
		out = append(out, domain.Suggestion{
			Kind:     domain.SuggestProduct,
			Display:  title,
			ImageURL: e.Fields["image_url"],
			Score:    e.Score,
		})
	}
	return out, nil
}

// lookup runs one FT.SUGGET against a language-routed dictionary.
func (r *Repo) lookup(ctx context.Context, source, prefix string, lang domain.Language, max int) ([]db.SuggestEntry, error) {
	entries, err := r.store.Suggest(ctx, &db.SuggestQuery{
		Dict:   Dict(r.cfg.DictPrefix, source, lang),
		Prefix: prefix,
		Max:    max,
		Fuzzy:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, source, err)
	}
	return entries, nil
}

// Dict returns the dictionary key for a source and language, e.g.
// "suggest:queries:en". Shared with the loader so write and read paths
// cannot drift.
func Dict(prefix, source string, lang domain.Language) string {
	return fmt.Sprintf("%s%s:%s", prefix, source, lang)
}
