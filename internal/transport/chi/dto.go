package chi

import "github.com/openkart/searchd/internal/domain"

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// productItem is one product card in the composed page.
type productItem struct {
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

// slotItem is one positioned unit of the page. Exactly one of the payload
// fields is set, per Type.
type slotItem struct {
	Type    string         `json:"type"`
	Banner  *domain.Banner `json:"banner,omitempty"`
	Ad      *domain.Ad     `json:"ad,omitempty"`
	Product *productItem   `json:"product,omitempty"`
}

// searchResponse is the GET /search payload.
type searchResponse struct {
	Query          string        `json:"query"`
	Language       string        `json:"language"`
	Slots          []slotItem    `json:"slots"`
	Facets         domain.Facets `json:"facets"`
	ViewPreference string        `json:"view_preference"`
}

// suggestResponse is the GET /suggest payload.
type suggestResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// pageToResponse converts a composed page, localizing product titles and
// descriptions for the detected language.
func pageToResponse(query string, lang domain.Language, page domain.Page) searchResponse {
	slots := make([]slotItem, 0, len(page.Slots))
	for _, s := range page.Slots {
		switch s.Kind {
		case domain.SlotBanner:
			slots = append(slots, slotItem{Type: string(domain.SlotBanner), Banner: s.Banner})
		case domain.SlotAd:
			slots = append(slots, slotItem{Type: string(domain.SlotAd), Ad: s.Ad})
		case domain.SlotProduct:
			p := productToItem(s.Product, lang)
			slots = append(slots, slotItem{Type: string(domain.SlotProduct), Product: &p})
		}
	}

	facets := page.Facets
	if facets.Brands == nil {
		facets.Brands = []domain.FacetBucket{}
	}
	if facets.Departments == nil {
		facets.Departments = []domain.FacetBucket{}
	}

	return searchResponse{
		Query:          query,
		Language:       string(lang),
		Slots:          slots,
		Facets:         facets,
		ViewPreference: string(page.ViewPreference),
	}
}

func productToItem(r *domain.Ranked, lang domain.Language) productItem {
	desc := r.Description
	if lang == domain.LangHindi && r.DescriptionHindi != "" {
		desc = r.DescriptionHindi
	}

	item := productItem{
		ASIN:          r.ASIN,
		Title:         r.DisplayTitle(lang),
		Description:   desc,
		Brand:         r.Brand,
		Department:    r.Department,
		FinalPrice:    r.FinalPrice,
		InitialPrice:  r.InitialPrice,
		Rating:        r.Rating,
		RatingCount:   r.RatingCount,
		DiscountPct:   r.DiscountPct,
		ImageURL:      r.ImageURL,
		SemanticScore: r.SemanticSimilarity,
	}
	if r.HasRelevance {
		score := r.RelevanceScore
		item.RelevanceScore = &score
	}
	return item
}
