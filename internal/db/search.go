package db

// NumericRange constrains a numeric field to [Min, Max]. Nil bounds are open.
type NumericRange struct {
	Field string
	Min   *float64
	Max   *float64
}

// TagMatch constrains a tag field to an exact value.
type TagMatch struct {
	Field string
	Value string
}

// Filter is the AND-combined set of predicates applied to a search.
// Absent constraints are simply not present in the slices.
type Filter struct {
	Ranges []NumericRange
	Tags   []TagMatch
}

// IsEmpty reports whether the filter carries no predicates.
func (f Filter) IsEmpty() bool {
	return len(f.Ranges) == 0 && len(f.Tags) == 0
}

// TextQuery is the input for a lexical multi-field search.
type TextQuery struct {
	IndexName string
	// Fields routes the match to specific TEXT fields; empty means all.
	// Per-field weights are fixed at index creation time.
	Fields       []string
	Query        string
	Fuzzy        bool
	Filter       Filter
	TopK         int
	ReturnFields []string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	Filter       Filter
	ReturnFields []string
}

// AggQuery is the input for a terms aggregation (FT.AGGREGATE GROUPBY).
// The lexical clause mirrors TextQuery so the aggregation is computed over
// the same filtered candidate set as the search itself.
type AggQuery struct {
	IndexName string
	Fields    []string
	Query     string
	Fuzzy     bool
	Filter    Filter
	GroupBy   string
	TopN      int
}

// AggBucket is one value+count pair from a terms aggregation.
type AggBucket struct {
	Value string
	Count int64
}

// SuggestQuery is the input for a completion-dictionary lookup (FT.SUGGET).
type SuggestQuery struct {
	Dict   string
	Prefix string
	Max    int
	Fuzzy  bool
}

// SuggestEntry is one weighted completion with its optional payload.
type SuggestEntry struct {
	Term    string
	Score   float64
	Payload string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
