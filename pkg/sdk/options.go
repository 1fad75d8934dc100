package searchd

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithHTTPClient supplies a custom HTTP client, for proxies or custom
// transports. Overrides WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) { c.httpClient = hc })
}

// WithTimeout sets the per-request timeout for the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) { c.timeout = d })
}

// WithLogger enables structured logging of client operations.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) { c.logger = l })
}

// WithMetrics registers client operation metrics on the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) { c.metricsReg = reg })
}

// SearchOption narrows one search request.
type SearchOption interface {
	apply(*searchParams)
}

type searchOptionFunc func(*searchParams)

func (f searchOptionFunc) apply(p *searchParams) { f(p) }

type searchParams struct {
	minDiscount *float64
	priceMin    *float64
	priceMax    *float64
	minRating   *float64
	limit       int
	userContext string
}

// WithMinDiscount keeps only products discounted at least pct percent.
func WithMinDiscount(pct float64) SearchOption {
	return searchOptionFunc(func(p *searchParams) { p.minDiscount = &pct })
}

// WithPriceRange keeps only products priced within [low, high].
func WithPriceRange(low, high float64) SearchOption {
	return searchOptionFunc(func(p *searchParams) {
		p.priceMin = &low
		p.priceMax = &high
	})
}

// WithMinRating keeps only products rated at least r stars.
func WithMinRating(r float64) SearchOption {
	return searchOptionFunc(func(p *searchParams) { p.minRating = &r })
}

// WithLimit sets the page size. The service clamps it to its configured
// maximum.
func WithLimit(n int) SearchOption {
	return searchOptionFunc(func(p *searchParams) { p.limit = n })
}

// WithUserContext passes a personalization hint, e.g. a campaign tag.
func WithUserContext(uc string) SearchOption {
	return searchOptionFunc(func(p *searchParams) { p.userContext = uc })
}
