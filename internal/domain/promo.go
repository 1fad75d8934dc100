package domain

// Ad is a category-targeted promotional card blended into the results page.
type Ad struct {
	Name        string `json:"ad_name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Banner is a category-targeted hero image shown at the top of the page.
type Banner struct {
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
}
