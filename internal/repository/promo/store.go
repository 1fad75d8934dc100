// Package promo serves the promotional inventory: category-targeted ads and
// hero banners, loaded once at startup from JSON artifacts.
package promo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkart/searchd/internal/domain"
)

// Store holds the promotional inventory keyed by lower-cased category.
type Store struct {
	ads     map[string][]domain.Ad
	banners map[string]domain.Banner
}

// New loads ads and banners from their JSON artifacts. Either path may be
// empty, which leaves that inventory empty rather than failing.
func New(adsPath, bannersPath string) (*Store, error) {
	s := &Store{
		ads:     make(map[string][]domain.Ad),
		banners: make(map[string]domain.Banner),
	}

	if adsPath != "" {
		var ads []domain.Ad
		if err := loadJSON(adsPath, &ads); err != nil {
			return nil, fmt.Errorf("load ads: %w", err)
		}
		for _, ad := range ads {
			key := categoryKey(ad.Category)
			s.ads[key] = append(s.ads[key], ad)
		}
	}

	if bannersPath != "" {
		var banners []domain.Banner
		if err := loadJSON(bannersPath, &banners); err != nil {
			return nil, fmt.Errorf("load banners: %w", err)
		}
		for _, b := range banners {
			s.banners[categoryKey(b.Category)] = b
		}
	}

	return s, nil
}

// AdsFor returns all ads targeting the given category.
// The returned slice is shared; callers must not mutate it.
func (s *Store) AdsFor(category string) []domain.Ad {
	return s.ads[categoryKey(category)]
}

// BannerFor returns the banner targeting the given category, if any.
func (s *Store) BannerFor(category string) (domain.Banner, bool) {
	b, ok := s.banners[categoryKey(category)]
	return b, ok
}

func categoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
