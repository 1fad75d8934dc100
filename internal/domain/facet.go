package domain

// FacetBucket is one aggregated value+count pair, computed by the index
// over the full filtered candidate set, independent of ranking.
type FacetBucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Facets holds the navigational refinement aggregates for one search.
type Facets struct {
	Brands      []FacetBucket `json:"brands"`
	Departments []FacetBucket `json:"departments"`
}
