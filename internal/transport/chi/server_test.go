package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/openkart/searchd/internal/domain"
	searchuc "github.com/openkart/searchd/internal/usecase/search"
)

func getJSON(t *testing.T, f *fixtures, path string, out any) int {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestSearchParams(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	q := url.Values{}
	q.Set("q", "wireless earbuds")
	q.Set("min_discount", "25")
	q.Set("price_min", "100")
	q.Set("price_max", "500")
	q.Set("min_rating", "4")
	q.Set("limit", "10")
	q.Set("context", "diwali")

	status := getJSON(t, f, "/search?"+q.Encode(), nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !f.searcher.called {
		t.Fatal("searcher not called")
	}

	p := f.searcher.lastP
	if p.Query != "wireless earbuds" {
		t.Errorf("Query = %q", p.Query)
	}
	if p.Limit != 10 {
		t.Errorf("Limit = %d, want 10", p.Limit)
	}
	if p.UserContext != "diwali" {
		t.Errorf("UserContext = %q", p.UserContext)
	}
	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"min_discount", p.Filters.MinDiscount, 25},
		{"price_min", p.Filters.PriceLow, 100},
		{"price_max", p.Filters.PriceHigh, 500},
		{"min_rating", p.Filters.MinRating, 4},
	}
	for _, c := range checks {
		if c.got == nil || *c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSearchOmittedFiltersStayNil(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	status := getJSON(t, f, "/search?q=laptop", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !f.searcher.lastP.Filters.IsEmpty() {
		t.Errorf("filters = %+v, want all nil", f.searcher.lastP.Filters)
	}
}

func TestSearchBadParams(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	paths := []string{
		"/search?q=tv&min_discount=lots",
		"/search?q=tv&price_min=abc",
		"/search?q=tv&min_rating=four",
		"/search?q=tv&limit=-1",
		"/search?q=tv&limit=ten",
	}
	for _, path := range paths {
		var resp errorResponse
		status := getJSON(t, f, path, &resp)
		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, status)
		}
		if resp.Code != codeValidationFailed {
			t.Errorf("%s: code = %q", path, resp.Code)
		}
	}
	if f.searcher.called {
		t.Error("searcher called on invalid params")
	}
}

func TestSearchResponseShape(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	banner := &domain.Banner{Category: "Home", ImageURL: "https://cdn.example.com/home.png"}
	ad := &domain.Ad{Name: "Sponsored Lamp", Category: "Home"}
	f.searcher.searchFn = func(ctx context.Context, p searchuc.Params) (domain.Page, error) {
		return domain.Page{
			Slots: []domain.Slot{
				{Kind: domain.SlotBanner, Banner: banner},
				{Kind: domain.SlotProduct, Product: rankedProduct("B001", "Diya Set", "Home")},
				{Kind: domain.SlotAd, Ad: ad},
			},
			Facets: domain.Facets{
				Departments: []domain.FacetBucket{{Value: "Home", Count: 12}},
			},
			ViewPreference: domain.ViewList,
		}, nil
	}

	var resp searchResponse
	status := getJSON(t, f, "/search?q=diya", &resp)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp.ViewPreference != "list" {
		t.Errorf("view_preference = %q, want list", resp.ViewPreference)
	}
	if len(resp.Slots) != 3 {
		t.Fatalf("len(slots) = %d, want 3", len(resp.Slots))
	}
	wantTypes := []string{"banner", "product", "ad"}
	for i, s := range resp.Slots {
		if s.Type != wantTypes[i] {
			t.Errorf("slot %d type = %q, want %q", i, s.Type, wantTypes[i])
		}
	}
	if resp.Slots[1].Product == nil || resp.Slots[1].Product.ASIN != "B001" {
		t.Errorf("slot 1 product = %+v", resp.Slots[1].Product)
	}
	if resp.Slots[1].Product.RelevanceScore != nil {
		t.Error("relevance_score set without classifier score")
	}
	if len(resp.Facets.Departments) != 1 || resp.Facets.Departments[0].Value != "Home" {
		t.Errorf("facets = %+v", resp.Facets)
	}
	if resp.Facets.Brands == nil {
		t.Error("brands facet should be an empty array, not null")
	}
	if resp.Language != "en" {
		t.Errorf("language = %q, want en", resp.Language)
	}
}

func TestSearchHindiLocalization(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	f.searcher.searchFn = func(ctx context.Context, p searchuc.Params) (domain.Page, error) {
		prod := rankedProduct("B002", "Mobile Phone", "Electronics")
		prod.TitleHindi = "मोबाइल फोन"
		return domain.Page{
			Slots:          []domain.Slot{{Kind: domain.SlotProduct, Product: prod}},
			ViewPreference: domain.ViewGrid,
		}, nil
	}

	var resp searchResponse
	status := getJSON(t, f, "/search?q="+url.QueryEscape("मोबाइल"), &resp)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp.Language != "hi" {
		t.Errorf("language = %q, want hi", resp.Language)
	}
	if got := resp.Slots[0].Product.Title; got != "मोबाइल फोन" {
		t.Errorf("title = %q, want localized", got)
	}
}

func TestProductByASIN(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	f.searcher.productFn = func(ctx context.Context, asin string) (domain.Candidate, error) {
		if asin != "B09XYZ" {
			t.Errorf("asin = %q, want B09XYZ", asin)
		}
		return domain.Candidate{
			ASIN:       "B09XYZ",
			Title:      "Ceiling Fan",
			TitleHindi: "सीलिंग पंखा",
			Brand:      "Orient",
			FinalPrice: 2499,
		}, nil
	}

	var resp productItem
	status := getJSON(t, f, "/products/B09XYZ", &resp)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp.ASIN != "B09XYZ" || resp.Title != "Ceiling Fan" || resp.FinalPrice != 2499 {
		t.Errorf("item = %+v", resp)
	}

	var hiResp productItem
	if status := getJSON(t, f, "/products/B09XYZ?lang=hi", &hiResp); status != http.StatusOK {
		t.Fatalf("lang=hi status = %d, want 200", status)
	}
	if hiResp.Title != "सीलिंग पंखा" {
		t.Errorf("lang=hi title = %q, want localized", hiResp.Title)
	}
}

func TestProductNotFound(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	var resp errorResponse
	status := getJSON(t, f, "/products/NOPE", &resp)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if resp.Code != codeProductNotFound {
		t.Errorf("code = %q, want %q", resp.Code, codeProductNotFound)
	}
}

func TestSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "retrieval down",
			err:        fmt.Errorf("retrieve: %w", domain.ErrRetrievalUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   codeRetrievalUnavailable,
		},
		{
			name:       "embedding down",
			err:        fmt.Errorf("embed: %w", domain.ErrEmbeddingUnavailable),
			wantStatus: http.StatusBadGateway,
			wantCode:   codeEmbeddingUnavailable,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   codeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestServer()
			defer f.server.Close()

			f.searcher.searchFn = func(ctx context.Context, p searchuc.Params) (domain.Page, error) {
				return domain.Page{}, tt.err
			}

			var resp errorResponse
			status := getJSON(t, f, "/search?q=tv", &resp)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Message == "boom" {
				t.Error("internal error text leaked to client")
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	f.suggester.suggestFn = func(ctx context.Context, prefix string) ([]domain.Suggestion, error) {
		return []domain.Suggestion{
			{Kind: domain.SuggestQuery, Display: "mobile phone"},
			{Kind: domain.SuggestCategory, Display: "in Electronics", Category: "Electronics"},
		}, nil
	}

	var resp suggestResponse
	status := getJSON(t, f, "/suggest?q=mob", &resp)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if f.suggester.lastQ != "mob" {
		t.Errorf("prefix = %q", f.suggester.lastQ)
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("len = %d, want 2", len(resp.Suggestions))
	}
	if resp.Suggestions[1].Display != "in Electronics" {
		t.Errorf("display = %q", resp.Suggestions[1].Display)
	}
}

func TestSuggestEmptyResult(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	var raw map[string]json.RawMessage
	status := getJSON(t, f, "/suggest?q=", &raw)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if string(raw["suggestions"]) != "[]" {
		t.Errorf("suggestions = %s, want []", raw["suggestions"])
	}
}

func TestHealthCheck(t *testing.T) {
	f := newTestServer()
	defer f.server.Close()

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	status := getJSON(t, f, "/healthz", &resp)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}

	f.pinger.pingFn = func(ctx context.Context) error { return errors.New("down") }
	status = getJSON(t, f, "/healthz", &resp)
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	if resp.Checks["database"] != "error" {
		t.Errorf("checks = %+v", resp.Checks)
	}
}
