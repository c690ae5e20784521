package catalog

import (
	"fmt"
	"strings"
)

// PriceRange is one row of the price filter table. A nil Max means the range
// is open ended.
type PriceRange struct {
	ID    string   `json:"id"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"`
	Label string   `json:"label"`
}

// Contains reports whether price lies within the inclusive bounds of r.
func (r PriceRange) Contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return r.Max == nil || price <= *r.Max
}

// Bound returns a pointer to v, for building PriceRange.Max.
func Bound(v float64) *float64 { return &v }

// DefaultPriceRanges returns the built-in price filter table.
func DefaultPriceRanges() []PriceRange {
	return []PriceRange{
		{ID: "free", Min: 0, Max: Bound(0), Label: "Free"},
		{ID: "under-50", Min: 0, Max: Bound(50), Label: "Under 50"},
		{ID: "50-100", Min: 50, Max: Bound(100), Label: "50 to 100"},
		{ID: "100-200", Min: 100, Max: Bound(200), Label: "100 to 200"},
		{ID: "200-plus", Min: 200, Label: "200 and above"},
	}
}

// FindPriceRange looks up a range by id, case-insensitively.
func FindPriceRange(ranges []PriceRange, id string) (PriceRange, error) {
	id = strings.TrimSpace(id)
	for _, r := range ranges {
		if strings.EqualFold(r.ID, id) {
			return r, nil
		}
	}
	return PriceRange{}, fmt.Errorf("%w: %q", ErrUnknownPriceRange, id)
}

// ValidatePriceRanges checks ids are unique and bounds are ordered.
func ValidatePriceRanges(ranges []PriceRange) error {
	seen := make(map[string]struct{}, len(ranges))
	for _, r := range ranges {
		id := strings.ToLower(strings.TrimSpace(r.ID))
		if id == "" {
			return fmt.Errorf("price range %q: empty id", r.Label)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("price range %q: duplicate id", r.ID)
		}
		seen[id] = struct{}{}
		if r.Min < 0 {
			return fmt.Errorf("price range %q: negative min", r.ID)
		}
		if r.Max != nil && *r.Max < r.Min {
			return fmt.Errorf("price range %q: max %.2f below min %.2f", r.ID, *r.Max, r.Min)
		}
	}
	return nil
}
