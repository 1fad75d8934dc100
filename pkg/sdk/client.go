package searchd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is the searchd SDK entry point.
type Client struct {
	baseURL    string
	httpClient *http.Client
	obs        *observer
}

// New creates a searchd Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("searchd: base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("searchd: invalid base URL: %w", err)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		obs:        obs,
	}, nil
}

// Search runs one catalog search and returns the composed page.
// A blank query returns an empty page without an index round trip on the
// service side.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (page Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	p := searchParams{}
	for _, o := range opts {
		o.apply(&p)
	}

	q := url.Values{}
	q.Set("q", query)
	setFloat(q, "min_discount", p.minDiscount)
	setFloat(q, "price_min", p.priceMin)
	setFloat(q, "price_max", p.priceMax)
	setFloat(q, "min_rating", p.minRating)
	if p.limit > 0 {
		q.Set("limit", strconv.Itoa(p.limit))
	}
	if p.userContext != "" {
		q.Set("context", p.userContext)
	}

	err = c.get(ctx, "/search", q, &page)
	return page, err
}

// Suggest returns autosuggest completions for a typed prefix.
func (c *Client) Suggest(ctx context.Context, prefix string) (suggestions []Suggestion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	q := url.Values{}
	q.Set("q", prefix)

	var resp struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err = c.get(ctx, "/suggest", q, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Health fetches the service health report. A degraded service returns the
// report together with ErrServiceUnhealthy.
func (c *Client) Health(ctx context.Context) (h Health, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return Health{}, fmt.Errorf("searchd: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("searchd: health: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("searchd: decode health: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return h, fmt.Errorf("%w: %s", ErrServiceUnhealthy, h.Status)
	}
	return h, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("searchd: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("searchd: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if derr := json.NewDecoder(resp.Body).Decode(apiErr); derr != nil {
			apiErr.Code = "internal_error"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("searchd: decode %s response: %w", path, err)
	}
	return nil
}

func setFloat(q url.Values, key string, v *float64) {
	if v != nil {
		q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}
