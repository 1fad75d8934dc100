// Package suggest fuses the autosuggest sources into one deduplicated list.
package suggest

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openkart/searchd/internal/domain"
	"github.com/openkart/searchd/internal/logger"
	"github.com/openkart/searchd/internal/metrics"
)

// Mode names for Config.Mode.
const (
	ModeBlended = "blended"
	ModeBasic   = "basic"
)

// Config holds fusion caps and the pipeline mode.
type Config struct {
	// Mode is ModeBlended (queries, categories, products, brands) or
	// ModeBasic (queries and products only, exact-string dedupe).
	Mode        string
	Limit       int
	QueryCap    int
	ProductCap  int
	CategoryCap int
	BrandCap    int
}

// Service handles autosuggest requests.
type Service struct {
	sources Sources
	embed   domain.Embedder
	cfg     Config
}

// New creates a suggest service.
func New(sources Sources, embed domain.Embedder, cfg Config) *Service {
	return &Service{sources: sources, embed: embed, cfg: cfg}
}

// Suggest looks up every configured source concurrently and fuses the
// results in fixed priority order: queries, categories, products, brands.
// A failed source contributes nothing and is skipped; the request only
// fails when the caller's context does. Duplicate terms keep their first,
// highest-priority occurrence. The fused list never exceeds the limit.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]domain.Suggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}

	lang := domain.DetectLanguage(prefix)
	basic := s.cfg.Mode == ModeBasic

	var queries, categories, prods, brands []domain.Suggestion

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		queries = s.collect(gctx, "queries", func() ([]domain.Suggestion, error) {
			return s.sources.Queries(gctx, prefix, lang, s.cfg.QueryCap)
		})
		return nil
	})
	g.Go(func() error {
		prods = s.collect(gctx, "products", func() ([]domain.Suggestion, error) {
			res, err := s.embed.Embed(gctx, prefix)
			if err != nil {
				return nil, err
			}
			return s.sources.Products(gctx, res.Embedding, lang, s.cfg.ProductCap)
		})
		return nil
	})
	if !basic {
		g.Go(func() error {
			categories = s.collect(gctx, "categories", func() ([]domain.Suggestion, error) {
				return s.sources.Categories(gctx, prefix, lang, s.cfg.CategoryCap)
			})
			return nil
		})
		g.Go(func() error {
			brands = s.collect(gctx, "brands", func() ([]domain.Suggestion, error) {
				return s.sources.Brands(gctx, prefix, lang, s.cfg.BrandCap)
			})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fused := make([]domain.Suggestion, 0, s.cfg.Limit)
	seen := make(map[string]struct{})
	for _, batch := range [][]domain.Suggestion{queries, categories, prods, brands} {
		for _, sug := range batch {
			if len(fused) == s.cfg.Limit {
				return fused, nil
			}
			key := dedupeKey(sug, basic)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			fused = append(fused, sug)
		}
	}
	return fused, nil
}

// collect runs one source lookup, swallowing its failure: the source is
// logged, counted and skipped so the other sources still serve.
func (s *Service) collect(ctx context.Context, source string, fn func() ([]domain.Suggestion, error)) []domain.Suggestion {
	out, err := fn()
	if err != nil {
		logger.FromContext(ctx).Warn("suggest source failed",
			zap.String("source", source), zap.Error(err))
		metrics.SuggestSourceFailuresTotal.WithLabelValues(source).Inc()
		return nil
	}
	return out
}

// dedupeKey is the identity under which suggestions collide: the display
// string, case-folded in blended mode. A category "in Electronics" and a
// brand "Electronics" render differently and both survive.
func dedupeKey(sug domain.Suggestion, exact bool) string {
	if exact {
		return sug.Display
	}
	return strings.ToLower(sug.Display)
}
