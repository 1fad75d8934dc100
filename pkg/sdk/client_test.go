package searchd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestSearchBuildsQuery(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(Page{Query: "earbuds", ViewPreference: "grid"})
	})

	page, err := c.Search(context.Background(), "earbuds",
		WithMinDiscount(25),
		WithPriceRange(500, 3000),
		WithMinRating(4),
		WithLimit(10),
		WithUserContext("diwali"),
	)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.ViewPreference != "grid" {
		t.Errorf("view = %q", page.ViewPreference)
	}

	want := map[string]string{
		"q":            "earbuds",
		"min_discount": "25",
		"price_min":    "500",
		"price_max":    "3000",
		"min_rating":   "4",
		"limit":        "10",
		"context":      "diwali",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("param %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		sentinel error
	}{
		{"validation", http.StatusBadRequest, "validation_failed", ErrInvalidRequest},
		{"retrieval", http.StatusServiceUnavailable, "retrieval_unavailable", ErrRetrievalUnavailable},
		{"embedding", http.StatusBadGateway, "embedding_unavailable", ErrEmbeddingUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    tt.code,
					"message": "nope",
				})
			})

			_, err := c.Search(context.Background(), "tv")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want %v", err, tt.sentinel)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.status {
				t.Errorf("apiErr = %+v", apiErr)
			}
		})
	}
}

func TestPageProducts(t *testing.T) {
	page := Page{
		Slots: []Slot{
			{Type: SlotBanner, Banner: &Banner{Category: "Home"}},
			{Type: SlotProduct, Product: &Product{ASIN: "A1"}},
			{Type: SlotAd, Ad: &Ad{Name: "sponsored"}},
			{Type: SlotProduct, Product: &Product{ASIN: "A2"}},
		},
	}

	products := page.Products()
	if len(products) != 2 {
		t.Fatalf("len = %d, want 2", len(products))
	}
	if products[0].ASIN != "A1" || products[1].ASIN != "A2" {
		t.Errorf("products = %+v", products)
	}
}

func TestSuggest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/suggest" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "mob" {
			t.Errorf("q = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"suggestions": []Suggestion{
				{Type: "query", Suggestion: "mobile phone"},
				{Type: "category", Suggestion: "in Electronics", Category: "Electronics"},
			},
		})
	})

	suggestions, err := c.Suggest(context.Background(), "mob")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("len = %d, want 2", len(suggestions))
	}
	if suggestions[0].Suggestion != "mobile phone" {
		t.Errorf("first = %+v", suggestions[0])
	}
}

func TestHealthDegraded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(Health{
			Status: "degraded",
			Checks: map[string]string{"database": "error"},
		})
	})

	h, err := c.Health(context.Background())
	if !errors.Is(err, ErrServiceUnhealthy) {
		t.Fatalf("err = %v, want ErrServiceUnhealthy", err)
	}
	if h.Checks["database"] != "error" {
		t.Errorf("checks = %+v", h.Checks)
	}
}
