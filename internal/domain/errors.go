package domain

import "errors"

var (
	// ErrRetrievalUnavailable signals the search index is unreachable or timed out.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrEmbeddingUnavailable signals an embedding service failure.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrDimensionMismatch signals a stored embedding whose length differs from the query embedding.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrClassifierUnavailable signals a missing or unreadable ranking model artifact.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrSourceUnavailable signals a failed autosuggest source.
	ErrSourceUnavailable = errors.New("suggest source unavailable")
	// ErrProductNotFound signals a lookup for an ASIN the catalog does not hold.
	ErrProductNotFound = errors.New("product not found")
)
