package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/openkart/searchd/internal/db"
	"github.com/openkart/searchd/internal/domain"
)

// facetSize is how many buckets each facet aggregation returns.
const facetSize = 10

// vectorField is the schema name of the stored product embedding.
const vectorField = "embedding"

// candidateFields lists the hash fields retrieval pulls for every hit.
var candidateFields = []string{
	"asin", "title", "title_hi", "description", "description_hi",
	"brand", "department", "rating", "rating_count",
	"final_price", "initial_price", "quality_score",
	"discount_percentage", "bought_past_month", "image_url", vectorField,
}

// store is the consumer interface for catalog retrieval (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggQuery) ([]db.AggBucket, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Config holds index naming and retrieval depth.
type Config struct {
	IndexName string
	KeyPrefix string
}

// Repo implements usecase/search.Retriever over the product index.
type Repo struct {
	store store
	cfg   Config
}

// New creates a catalog repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Search runs one retrieval pass over the product index: a lexical leg, a
// vector leg when the query carries an embedding, and the two facet
// aggregations, all concurrently against the same filter scope. The legs are
// fused by reciprocal rank so either signal alone still yields an ordering.
func (r *Repo) Search(ctx context.Context, q domain.Query, topK int) ([]domain.Candidate, domain.Facets, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, domain.Facets{}, nil
	}

	fields := searchFields(q.Language)
	filter := buildFilter(q.Filters)

	var (
		lexical []domain.Candidate
		vector  []domain.Candidate
		facets  domain.Facets
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sr, err := r.store.SearchText(gctx, &db.TextQuery{
			IndexName:    r.cfg.IndexName,
			Fields:       fields,
			Query:        q.Text,
			Fuzzy:        true,
			Filter:       filter,
			TopK:         topK,
			ReturnFields: candidateFields,
		})
		if err != nil {
			return fmt.Errorf("lexical: %w", err)
		}
		lexical = r.parseEntries(sr)
		return nil
	})

	if len(q.Vector) > 0 {
		g.Go(func() error {
			sr, err := r.store.SearchKNN(gctx, &db.KNNQuery{
				IndexName:    r.cfg.IndexName,
				VectorField:  vectorField,
				Vector:       q.Vector,
				K:            topK,
				Filter:       filter,
				ReturnFields: candidateFields,
			})
			if err != nil {
				return fmt.Errorf("vector: %w", err)
			}
			vector = r.parseEntries(sr)
			return nil
		})
	}

	for _, groupBy := range []string{"brand", "department"} {
		g.Go(func() error {
			buckets, err := r.store.Aggregate(gctx, &db.AggQuery{
				IndexName: r.cfg.IndexName,
				Fields:    fields,
				Query:     q.Text,
				Fuzzy:     true,
				Filter:    filter,
				GroupBy:   groupBy,
				TopN:      facetSize,
			})
			if err != nil {
				return fmt.Errorf("facet %s: %w", groupBy, err)
			}
			fb := make([]domain.FacetBucket, 0, len(buckets))
			for _, b := range buckets {
				fb = append(fb, domain.FacetBucket{Value: b.Value, Count: b.Count})
			}
			if groupBy == "brand" {
				facets.Brands = fb
			} else {
				facets.Departments = fb
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.Facets{}, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}

	return fuseRanks(vector, lexical, topK), facets, nil
}

// Get returns a single product by ASIN, straight from its hash.
func (r *Repo) Get(ctx context.Context, asin string) (domain.Candidate, error) {
	asin = strings.TrimSpace(asin)
	if asin == "" {
		return domain.Candidate{}, domain.ErrProductNotFound
	}

	key := r.cfg.KeyPrefix + asin
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}
	// HGETALL on an absent key returns an empty map, not an error.
	if len(fields) == 0 {
		return domain.Candidate{}, domain.ErrProductNotFound
	}

	return r.parseCandidate(db.SearchEntry{Key: key, Fields: fields}), nil
}

// searchFields returns the TEXT fields the lexical leg matches against.
// Per-field weights (title boosted over description) are set in the index schema.
func searchFields(lang domain.Language) []string {
	if lang == domain.LangHindi {
		return []string{"title_hi", "description_hi"}
	}
	return []string{"title", "description", "brand"}
}

// buildFilter translates request filters into index predicates.
// Absent constraints are omitted entirely, never defaulted.
func buildFilter(f domain.Filters) db.Filter {
	var out db.Filter
	if f.MinDiscount != nil {
		out.Ranges = append(out.Ranges, db.NumericRange{Field: "discount_percentage", Min: f.MinDiscount})
	}
	if f.PriceLow != nil || f.PriceHigh != nil {
		out.Ranges = append(out.Ranges, db.NumericRange{Field: "final_price", Min: f.PriceLow, Max: f.PriceHigh})
	}
	if f.MinRating != nil {
		out.Ranges = append(out.Ranges, db.NumericRange{Field: "rating", Min: f.MinRating})
	}
	return out
}

// parseEntries converts db.SearchResult into candidates.
func (r *Repo) parseEntries(sr *db.SearchResult) []domain.Candidate {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		out = append(out, r.parseCandidate(entry))
	}
	return out
}

// parseCandidate parses one hit from flat hash fields.
func (r *Repo) parseCandidate(entry db.SearchEntry) domain.Candidate {
	c := domain.Candidate{
		ASIN:       strings.TrimPrefix(entry.Key, r.cfg.KeyPrefix),
		IndexScore: entry.Score,
	}

	for k, v := range entry.Fields {
		switch k {
		case "asin":
			c.ASIN = v
		case "title":
			c.Title = v
		case "title_hi":
			c.TitleHindi = v
		case "description":
			c.Description = v
		case "description_hi":
			c.DescriptionHindi = v
		case "brand":
			c.Brand = v
		case "department":
			c.Department = v
		case "image_url":
			c.ImageURL = v
		case "rating":
			c.Rating = parseFloat(v)
		case "rating_count":
			c.RatingCount = parseFloat(v)
		case "final_price":
			c.FinalPrice = parseFloat(v)
		case "initial_price":
			c.InitialPrice = parseFloat(v)
		case "quality_score":
			c.QualityScore = parseFloat(v)
		case "discount_percentage":
			c.DiscountPct = parseFloat(v)
		case "bought_past_month":
			c.BoughtPastMonth = parseFloat(v)
		case vectorField:
			c.Embedding = db.BytesToVector(v)
		}
	}

	return c
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
