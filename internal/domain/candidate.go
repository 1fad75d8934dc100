package domain

// Candidate is a product record surfaced by retrieval, pre-ranking.
// Owned by the pipeline for one request; never mutated across requests.
type Candidate struct {
	ASIN             string
	Title            string
	TitleHindi       string
	Description      string
	DescriptionHindi string
	Brand            string
	Department       string
	FinalPrice       float64
	InitialPrice     float64
	Rating           float64
	RatingCount      float64
	QualityScore     float64
	DiscountPct      float64
	BoughtPastMonth  float64
	ImageURL         string
	// Embedding is the stored product vector, same dimensionality as the
	// query embedding.
	Embedding []float32
	// IndexScore is the raw fused relevance score from the index.
	IndexScore float64
}

// DisplayTitle returns the localized title for the given language,
// falling back to the English title when no Hindi variant is stored.
func (c Candidate) DisplayTitle(lang Language) string {
	if lang == LangHindi && c.TitleHindi != "" {
		return c.TitleHindi
	}
	return c.Title
}

// Ranked is a Candidate with reranking-derived fields attached.
type Ranked struct {
	Candidate
	TextSimilarity     float64
	SemanticSimilarity float64
	// RelevanceScore is the classifier's positive-class probability.
	// Only meaningful when HasRelevance is true.
	RelevanceScore float64
	HasRelevance   bool
}
