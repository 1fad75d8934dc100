package ranking

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// tokenPattern mirrors the fitted vectorizer: runs of two or more word
// characters, matched after lower-casing.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer scores lexical query/title similarity with the vocabulary and
// idf weights exported from the fitted training vectorizer. Both vectors are
// l2-normalized, so the dot product is a [0,1] cosine.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// vectorizerArtifact is the JSON exported alongside the classifier.
type vectorizerArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// NewVectorizer loads the vocabulary artifact.
func NewVectorizer(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var art vectorizerArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(art.Vocabulary) == 0 {
		return nil, fmt.Errorf("vocabulary %s is empty", path)
	}
	for term, idx := range art.Vocabulary {
		if idx < 0 || idx >= len(art.IDF) {
			return nil, fmt.Errorf("vocabulary term %q maps to index %d outside idf table (%d)", term, idx, len(art.IDF))
		}
	}

	return &Vectorizer{vocab: art.Vocabulary, idf: art.IDF}, nil
}

// Similarity returns the tf-idf cosine of two texts. Texts sharing no
// vocabulary terms score zero.
func (v *Vectorizer) Similarity(a, b string) float64 {
	va := v.vectorize(a)
	vb := v.vectorize(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	var dot float64
	for idx, wa := range va {
		if wb, ok := vb[idx]; ok {
			dot += wa * wb
		}
	}
	return dot
}

// vectorize produces the l2-normalized sparse tf-idf vector of a text.
func (v *Vectorizer) vectorize(text string) map[int]float64 {
	counts := make(map[int]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if idx, ok := v.vocab[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	vec := make(map[int]float64, len(counts))
	var norm float64
	for idx, tf := range counts {
		w := float64(tf) * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}
