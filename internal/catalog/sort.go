package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey selects the ordering of the final result list.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNewest     SortKey = "newest"
	SortRating     SortKey = "rating"
)

// SortKeys lists every supported key, default first.
var SortKeys = []SortKey{SortPopularity, SortPriceAsc, SortPriceDesc, SortNewest, SortRating}

// ParseSortKey accepts canonical keys and common aliases. Blank input is
// the default popularity key.
func ParseSortKey(raw string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "popularity", "popular", "default", "relevance":
		return SortPopularity, nil
	case "price-asc", "price", "cheapest", "low-high":
		return SortPriceAsc, nil
	case "price-desc", "priciest", "high-low":
		return SortPriceDesc, nil
	case "newest", "release", "release-date", "date", "new":
		return SortNewest, nil
	case "rating", "top-rated", "rated", "stars":
		return SortRating, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, raw)
	}
}

// Field is a sortable item attribute.
type Field int

const (
	FieldPopularity Field = iota
	FieldPrice
	FieldReleaseDate
	FieldRating
)

// Direction is the order applied to a Field.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// Comparator is either relevance ordering or a field ordering. Build one
// with Relevance, ByField or ComparatorFor.
type Comparator struct {
	relevance bool
	field     Field
	dir       Direction
}

// Relevance orders by descending match score.
func Relevance() Comparator { return Comparator{relevance: true} }

// ByField orders by f in direction dir.
func ByField(f Field, dir Direction) Comparator { return Comparator{field: f, dir: dir} }

// IsRelevance reports whether c orders by match score.
func (c Comparator) IsRelevance() bool { return c.relevance }

func (c Comparator) String() string {
	if c.relevance {
		return "relevance"
	}
	names := map[Field]string{
		FieldPopularity:  "popularity",
		FieldPrice:       "price",
		FieldReleaseDate: "release-date",
		FieldRating:      "rating",
	}
	if c.dir == Ascending {
		return names[c.field] + " asc"
	}
	return names[c.field] + " desc"
}

// ComparatorFor maps a sort key to a comparator. The default popularity key
// turns into relevance ordering while a search is active.
func ComparatorFor(key SortKey, searchActive bool) Comparator {
	switch key {
	case SortPriceAsc:
		return ByField(FieldPrice, Ascending)
	case SortPriceDesc:
		return ByField(FieldPrice, Descending)
	case SortNewest:
		return ByField(FieldReleaseDate, Descending)
	case SortRating:
		return ByField(FieldRating, Descending)
	default:
		if searchActive {
			return Relevance()
		}
		return ByField(FieldPopularity, Descending)
	}
}

// Sort returns a stably sorted copy of items. Equal keys keep their input order.
func Sort(items []Scored, c Comparator) []Scored {
	out := append([]Scored(nil), items...)
	less := c.less
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// SortByKey sorts by key, preferring relevance over popularity when every
// item carries a match score.
func SortByKey(items []Scored, key SortKey) []Scored {
	return Sort(items, ComparatorFor(key, allScored(items)))
}

func allScored(items []Scored) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.HasScore {
			return false
		}
	}
	return true
}

func (c Comparator) less(a, b Scored) bool {
	if c.relevance {
		return a.MatchScore > b.MatchScore
	}
	var x, y float64
	switch c.field {
	case FieldPrice:
		x, y = a.Price, b.Price
	case FieldRating:
		x, y = a.Rating, b.Rating
	case FieldReleaseDate:
		if c.dir == Ascending {
			return a.ReleaseDate.Before(b.ReleaseDate)
		}
		return a.ReleaseDate.After(b.ReleaseDate)
	default:
		x, y = a.Popularity, b.Popularity
	}
	if c.dir == Ascending {
		return x < y
	}
	return x > y
}
