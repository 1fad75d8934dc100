// Package chi exposes the search API over HTTP using the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openkart/searchd/internal/domain"
	healthuc "github.com/openkart/searchd/internal/usecase/health"
	searchuc "github.com/openkart/searchd/internal/usecase/search"
)

// Error codes returned in the error envelope.
const (
	codeValidationFailed     = "validation_failed"
	codeRetrievalUnavailable = "retrieval_unavailable"
	codeEmbeddingUnavailable = "embedding_unavailable"
	codeProductNotFound      = "product_not_found"
	codeInternalError        = "internal_error"
)

// Searcher runs the full search pipeline for one query and serves
// single-product lookups.
type Searcher interface {
	Search(ctx context.Context, p searchuc.Params) (domain.Page, error)
	Product(ctx context.Context, asin string) (domain.Candidate, error)
}

// Suggester produces autosuggest completions for a typed prefix.
type Suggester interface {
	Suggest(ctx context.Context, prefix string) ([]domain.Suggestion, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server handles the HTTP API.
type Server struct {
	search        Searcher
	suggest       Suggester
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, suggest Suggester, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		suggest: suggest,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusServiceUnavailable, codeRetrievalUnavailable),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeEmbeddingUnavailable),
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, codeProductNotFound),
	}
	return s
}

// Routes registers the API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/products/{asin}", s.Product)
	r.Get("/suggest", s.Suggest)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := searchParamsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	lang := domain.DetectLanguage(params.Query)
	writeJSON(w, http.StatusOK, pageToResponse(params.Query, lang, page))
}

// Product handles GET /products/{asin}. An optional lang=hi query parameter
// localizes the title and description.
func (s *Server) Product(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")

	c, err := s.search.Product(r.Context(), asin)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	lang := domain.LangEnglish
	if r.URL.Query().Get("lang") == string(domain.LangHindi) {
		lang = domain.LangHindi
	}
	item := productToItem(&domain.Ranked{Candidate: c}, lang)
	writeJSON(w, http.StatusOK, item)
}

// Suggest handles GET /suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")

	suggestions, err := s.suggest.Suggest(r.Context(), prefix)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchParamsFromQuery(r *http.Request) (searchuc.Params, error) {
	q := r.URL.Query()

	filters := domain.Filters{}
	var err error
	if filters.MinDiscount, err = floatParam(q.Get("min_discount"), "min_discount"); err != nil {
		return searchuc.Params{}, err
	}
	if filters.PriceLow, err = floatParam(q.Get("price_min"), "price_min"); err != nil {
		return searchuc.Params{}, err
	}
	if filters.PriceHigh, err = floatParam(q.Get("price_max"), "price_max"); err != nil {
		return searchuc.Params{}, err
	}
	if filters.MinRating, err = floatParam(q.Get("min_rating"), "min_rating"); err != nil {
		return searchuc.Params{}, err
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return searchuc.Params{}, fmt.Errorf("limit must be a non-negative integer, got %q", raw)
		}
	}

	return searchuc.Params{
		Query:       q.Get("q"),
		Filters:     filters,
		UserContext: q.Get("context"),
		Limit:       limit,
	}, nil
}

func floatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRetrievalUnavailable,
		domain.ErrEmbeddingUnavailable,
		domain.ErrSourceUnavailable,
		domain.ErrProductNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
