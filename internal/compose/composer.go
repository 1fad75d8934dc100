// Package compose assembles the final results page: ranked products blended
// with a category banner and sampled ads at fixed slots, plus a layout hint
// derived from the dominant department.
package compose

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openkart/searchd/internal/domain"
)

// dominantWindow is how many top-ranked products vote for the page's
// dominant department.
const dominantWindow = 10

// promoStore is the consumer interface over the promotional inventory (ISP).
type promoStore interface {
	AdsFor(category string) []domain.Ad
	BannerFor(category string) (domain.Banner, bool)
}

// Composer builds pages. Ad slot positions and the category layout map are
// fixed at construction.
type Composer struct {
	promo   promoStore
	adSlots []int
	layouts map[string]domain.ViewPreference

	mu  sync.Mutex // guards rng; pages compose concurrently
	rng *rand.Rand
}

// Option customizes a Composer.
type Option func(*Composer)

// WithRand replaces the ad-sampling source. Tests use this for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(c *Composer) { c.rng = rng }
}

// New creates a Composer. adSlots are 0-indexed positions in the final slot
// list; layouts maps department names to "grid" or "list".
func New(promo promoStore, adSlots []int, layouts map[string]string, opts ...Option) *Composer {
	slots := make([]int, len(adSlots))
	copy(slots, adSlots)
	sort.Ints(slots)

	lm := make(map[string]domain.ViewPreference, len(layouts))
	for dept, layout := range layouts {
		if layout == string(domain.ViewList) {
			lm[strings.ToLower(dept)] = domain.ViewList
		} else {
			lm[strings.ToLower(dept)] = domain.ViewGrid
		}
	}

	c := &Composer{
		promo:   promo,
		adSlots: slots,
		layouts: lm,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose blends ranked products with promotional content. The banner, when
// the dominant department has one, always occupies slot 0; sampled ads take
// their configured positions and never displace the banner; products fill
// every other slot in rank order. No products means no page furniture either.
//
// pageSize bounds the number of products, not the slot sequence: a full page
// carries pageSize product slots plus up to a banner and len(adSlots) ads on
// top, so clients paginate by product count.
func (c *Composer) Compose(ranked []domain.Ranked, facets domain.Facets, pageSize int) domain.Page {
	page := domain.Page{Facets: facets, ViewPreference: domain.ViewGrid}

	if len(ranked) == 0 {
		return page
	}
	if pageSize > 0 && len(ranked) > pageSize {
		ranked = ranked[:pageSize]
	}

	dept := dominantDepartment(ranked)
	page.ViewPreference = c.viewFor(dept)

	var bannerSlot *domain.Slot
	if b, ok := c.promo.BannerFor(dept); ok {
		bannerSlot = &domain.Slot{Kind: domain.SlotBanner, Banner: &b}
	}
	ads := c.sampleAds(dept)

	slots := make([]domain.Slot, 0, len(ranked)+len(ads)+1)
	if bannerSlot != nil {
		slots = append(slots, *bannerSlot)
	}

	adAt := make(map[int]domain.Ad, len(ads))
	for i, slot := range c.adSlots {
		if i >= len(ads) {
			break
		}
		adAt[slot] = ads[i]
	}

	next := 0
	for next < len(ranked) {
		if ad, ok := adAt[len(slots)]; ok {
			ad := ad
			slots = append(slots, domain.Slot{Kind: domain.SlotAd, Ad: &ad})
			continue
		}
		p := ranked[next]
		slots = append(slots, domain.Slot{Kind: domain.SlotProduct, Product: &p})
		next++
	}

	page.Slots = slots
	return page
}

// dominantDepartment returns the most frequent non-empty department among
// the top-ranked window. Ties break toward the department seen first.
func dominantDepartment(ranked []domain.Ranked) string {
	window := ranked
	if len(window) > dominantWindow {
		window = window[:dominantWindow]
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	best, bestCount := "", 0

	for i, r := range window {
		dept := r.Department
		if dept == "" {
			continue
		}
		if _, ok := firstSeen[dept]; !ok {
			firstSeen[dept] = i
		}
		counts[dept]++
		if counts[dept] > bestCount ||
			(counts[dept] == bestCount && firstSeen[dept] < firstSeen[best]) {
			best, bestCount = dept, counts[dept]
		}
	}

	return best
}

// sampleAds picks up to len(adSlots) ads for the department, uniformly
// without replacement when more are available.
func (c *Composer) sampleAds(dept string) []domain.Ad {
	if dept == "" || len(c.adSlots) == 0 {
		return nil
	}

	pool := c.promo.AdsFor(dept)
	if len(pool) == 0 {
		return nil
	}
	if len(pool) <= len(c.adSlots) {
		return pool
	}

	c.mu.Lock()
	idx := c.rng.Perm(len(pool))[:len(c.adSlots)]
	c.mu.Unlock()
	out := make([]domain.Ad, 0, len(idx))
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

func (c *Composer) viewFor(dept string) domain.ViewPreference {
	if v, ok := c.layouts[strings.ToLower(dept)]; ok {
		return v
	}
	return domain.ViewGrid
}
