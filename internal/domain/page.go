package domain

// SlotKind discriminates the Slot tagged union.
type SlotKind string

// Slot kinds.
const (
	SlotBanner  SlotKind = "banner"
	SlotAd      SlotKind = "ad"
	SlotProduct SlotKind = "product"
)

// Slot is one positioned unit of the composed results page. Exactly one of
// Banner, Ad, Product is set, per Kind.
type Slot struct {
	Kind    SlotKind
	Banner  *Banner
	Ad      *Ad
	Product *Ranked
}

// ViewPreference is the layout hint derived from the dominant category.
type ViewPreference string

// Layout hints.
const (
	ViewGrid ViewPreference = "grid"
	ViewList ViewPreference = "list"
)

// Page is the final composed results page.
// A Banner, if present, occupies slot 0; ads occupy fixed slots and never
// displace the banner; all remaining slots are products in ranked order.
type Page struct {
	Slots          []Slot
	Facets         Facets
	ViewPreference ViewPreference
}
