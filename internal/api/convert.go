package api

import (
	"strings"
	"time"

	"github.com/tayloree/storefront-catalog/internal/catalog"
)

// ToCatalog converts upstream items into normalized catalog items. Missing
// numbers become zero, missing collections become empty and ratings are
// clamped to 0..5.
func ToCatalog(items []CatalogItem) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
	for _, raw := range items {
		item := catalog.Item{
			ID:              raw.ID,
			Title:           deref(raw.Title),
			Price:           derefFloat(raw.Price),
			Genres:          raw.Genres,
			Tags:            raw.Tags,
			Aliases:         raw.Aliases,
			PhoneticAliases: raw.PhoneticAliases,
			Rating:          min(max(derefFloat(raw.Rating), 0), 5),
			Popularity:      derefFloat(raw.Popularity),
		}
		if t, ok := ParseReleaseDate(deref(raw.ReleaseDate)); ok {
			item.ReleaseDate = t
		}
		out = append(out, catalog.Normalize(item))
	}
	return out
}

// ParseReleaseDate accepts the date layouts seen in storefront feeds.
func ParseReleaseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"1/2/2006",
		"01/02/2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan, 2006",
		"2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
