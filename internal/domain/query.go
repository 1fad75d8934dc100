package domain

// Filters holds optional numeric constraints on a search. A nil field means
// the constraint was not supplied and must be omitted from the index query,
// not defaulted to a permissive range. All supplied filters are AND-combined.
type Filters struct {
	MinDiscount *float64
	PriceLow    *float64
	PriceHigh   *float64
	MinRating   *float64
}

// IsEmpty reports whether no constraint was supplied.
func (f Filters) IsEmpty() bool {
	return f.MinDiscount == nil && f.PriceLow == nil && f.PriceHigh == nil && f.MinRating == nil
}

// Query is one search request. Immutable once constructed; lives for one request.
type Query struct {
	Text        string
	Language    Language
	Filters     Filters
	UserContext string
	// Vector is the query embedding. Empty when the embedding service is
	// degraded; retrieval then runs lexical-only.
	Vector []float32
}

// NewQuery constructs a Query with its language tag derived from the text.
func NewQuery(text string, filters Filters, userContext string) Query {
	return Query{
		Text:        text,
		Language:    DetectLanguage(text),
		Filters:     filters,
		UserContext: userContext,
	}
}
