// Package search orchestrates one query end to end: language detection,
// query embedding, retrieval, reranking and page composition.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/openkart/searchd/internal/domain"
	"github.com/openkart/searchd/internal/logger"
	"github.com/openkart/searchd/internal/metrics"
)

// Params is one search request after transport decoding.
type Params struct {
	Query       string
	Filters     domain.Filters
	UserContext string
	// Limit is the requested page size; 0 means the configured default.
	Limit int
}

// Config holds the orchestration knobs fixed at wiring time.
type Config struct {
	Overfetch       int
	DefaultPageSize int
	MaxPageSize     int
	// RankerMode labels metrics with the wired ranker ("ltr" or "semantic").
	RankerMode string
}

// Service handles search requests.
type Service struct {
	retriever Retriever
	ranker    Ranker
	composer  Composer
	embed     domain.Embedder
	cfg       Config
}

// New creates a search service.
func New(retriever Retriever, ranker Ranker, composer Composer, embed domain.Embedder, cfg Config) *Service {
	return &Service{retriever: retriever, ranker: ranker, composer: composer, embed: embed, cfg: cfg}
}

// Search runs the full pipeline. An embedding failure degrades the request
// to lexical-only retrieval and never fails it; a retrieval failure aborts.
// A blank query short-circuits to an empty page without touching the index.
func (s *Service) Search(ctx context.Context, p Params) (domain.Page, error) {
	text := strings.TrimSpace(p.Query)
	if text == "" {
		return domain.Page{ViewPreference: domain.ViewGrid}, nil
	}

	limit := s.pageSize(p.Limit)
	q := domain.NewQuery(text, p.Filters, p.UserContext)
	log := logger.FromContext(ctx)

	if res, err := s.embed.Embed(ctx, text); err != nil {
		log.Warn("query embedding failed, retrieving lexical-only", zap.Error(err))
		metrics.SearchDegradedTotal.WithLabelValues("lexical_only").Inc()
	} else {
		q.Vector = res.Embedding
	}

	cands, facets, err := s.retriever.Search(ctx, q, s.cfg.Overfetch)
	if err != nil {
		return domain.Page{}, fmt.Errorf("retrieve: %w", err)
	}
	metrics.SearchCandidates.Observe(float64(len(cands)))

	ranked, err := s.ranker.Rank(ctx, q, cands)
	if err != nil {
		return domain.Page{}, fmt.Errorf("rank: %w", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(q.Language), s.cfg.RankerMode).Inc()

	return s.composer.Compose(ranked, facets, limit), nil
}

// Product looks up one catalog entry by ASIN.
func (s *Service) Product(ctx context.Context, asin string) (domain.Candidate, error) {
	c, err := s.retriever.Get(ctx, asin)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("get product: %w", err)
	}
	return c, nil
}

func (s *Service) pageSize(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultPageSize
	}
	if requested > s.cfg.MaxPageSize {
		return s.cfg.MaxPageSize
	}
	return requested
}
