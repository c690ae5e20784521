package catalog

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// FacetCounts holds per-option result counts for the filter controls. Keys
// are lower-cased.
type FacetCounts struct {
	PriceRanges map[string]int `json:"priceRanges"`
	Genres      map[string]int `json:"genres"`
	Tags        map[string]int `json:"tags"`
}

// FacetBucket is one facet option with its count.
type FacetBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Facets runs the search for term over the catalog and counts the options
// of the matching items. Applied filters are never considered.
func Facets(items []Item, term string, opts Options) FacetCounts {
	return FacetsOf(Search(items, term, opts), opts)
}

// FacetsOf counts filter options across an already searched set. Every
// configured price range appears in the result, possibly with 0. Each item
// counts at most once per key. A failure yields zeroed counts.
func FacetsOf(items []Scored, opts Options) (counts FacetCounts) {
	ranges := opts.priceRanges()
	defer func() {
		if r := recover(); r != nil {
			opts.logger().Error("facet aggregation failed",
				zap.String("stage", "facets"),
				zap.Any("panic", r))
			counts = zeroFacets(ranges)
		}
	}()

	counts = zeroFacets(ranges)
	for _, item := range items {
		for _, r := range ranges {
			if rangeContains(r, item.Price) {
				counts.PriceRanges[strings.ToLower(r.ID)]++
			}
		}
		countDistinct(counts.Genres, item.Genres)
		countDistinct(counts.Tags, item.Tags)
	}
	return counts
}

func zeroFacets(ranges []PriceRange) FacetCounts {
	counts := FacetCounts{
		PriceRanges: make(map[string]int, len(ranges)),
		Genres:      map[string]int{},
		Tags:        map[string]int{},
	}
	for _, r := range ranges {
		counts.PriceRanges[strings.ToLower(r.ID)] = 0
	}
	return counts
}

func countDistinct(into map[string]int, values []string) {
	var seen map[string]struct{}
	if len(values) > 1 {
		seen = make(map[string]struct{}, len(values))
	}
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if seen != nil {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		into[key]++
	}
}

// Sorted returns the buckets of m by descending count, then key.
func Sorted(m map[string]int) []FacetBucket {
	out := make([]FacetBucket, 0, len(m))
	for k, v := range m {
		out = append(out, FacetBucket{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
