package searchd

// Product is one product card in a composed page.
type Product struct {
	ASIN           string   `json:"asin"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Department     string   `json:"department,omitempty"`
	FinalPrice     float64  `json:"final_price"`
	InitialPrice   float64  `json:"initial_price,omitempty"`
	Rating         float64  `json:"rating"`
	RatingCount    float64  `json:"rating_count"`
	DiscountPct    float64  `json:"discount_percentage"`
	ImageURL       string   `json:"image_url,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	SemanticScore  float64  `json:"semantic_similarity"`
}

// Ad is a sponsored card blended into the page.
type Ad struct {
	Name        string `json:"ad_name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Banner is a category hero image at the top of the page.
type Banner struct {
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
}

// Slot is one positioned unit of the page. Exactly one of Banner, Ad,
// Product is set, per Type.
type Slot struct {
	Type    string   `json:"type"`
	Banner  *Banner  `json:"banner,omitempty"`
	Ad      *Ad      `json:"ad,omitempty"`
	Product *Product `json:"product,omitempty"`
}

// Slot types.
const (
	SlotBanner  = "banner"
	SlotAd      = "ad"
	SlotProduct = "product"
)

// FacetBucket is one aggregated value+count refinement.
type FacetBucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Facets holds the navigational refinements for one search.
type Facets struct {
	Brands      []FacetBucket `json:"brands"`
	Departments []FacetBucket `json:"departments"`
}

// Page is one composed search results page.
type Page struct {
	Query          string `json:"query"`
	Language       string `json:"language"`
	Slots          []Slot `json:"slots"`
	Facets         Facets `json:"facets"`
	ViewPreference string `json:"view_preference"`
}

// Products returns the product cards of the page in rank order, skipping
// banner and ad slots.
func (p Page) Products() []Product {
	out := make([]Product, 0, len(p.Slots))
	for _, s := range p.Slots {
		if s.Type == SlotProduct && s.Product != nil {
			out = append(out, *s.Product)
		}
	}
	return out
}

// Suggestion is one autosuggest entry.
type Suggestion struct {
	Type       string  `json:"type"`
	Suggestion string  `json:"suggestion"`
	Category   string  `json:"category,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
