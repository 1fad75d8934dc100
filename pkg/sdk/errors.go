package searchd

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from service error codes.
// Use errors.Is() to check.
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrServiceUnhealthy     = errors.New("service unhealthy")
)

// APIError is the error envelope returned by the service.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("searchd: %s (http %d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps the error code onto a sentinel so callers can use errors.Is
// without inspecting codes.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "validation_failed":
		return ErrInvalidRequest
	case "retrieval_unavailable":
		return ErrRetrievalUnavailable
	case "embedding_unavailable":
		return ErrEmbeddingUnavailable
	default:
		return nil
	}
}
