package domain

// SuggestionKind discriminates the Suggestion tagged union.
type SuggestionKind string

// Suggestion kinds, in fusion priority order.
const (
	SuggestQuery    SuggestionKind = "query"
	SuggestCategory SuggestionKind = "category"
	SuggestProduct  SuggestionKind = "product"
	SuggestBrand    SuggestionKind = "brand"
)

// Suggestion is one autosuggest entry.
type Suggestion struct {
	Kind    SuggestionKind `json:"type"`
	Display string         `json:"suggestion"`
	// Category carries the bare category name for category suggestions,
	// whose Display is rendered as "in <name>".
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
	Score    float64 `json:"score,omitempty"`
}
