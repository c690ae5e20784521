package catalog

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Filter applies the price, genre and tag predicates of state to items and
// returns a new slice. The predicates are ANDed:
//
//   - price: the item lies inside the selected range; no range selected passes.
//   - genre: any selected genre equals one of the item's genres (case-insensitive).
//   - tag: every selected tag is a substring of some item tag (case-insensitive).
//
// Any failure, including an unknown price range id, yields an empty result
// and a log entry instead of partial output.
func Filter(items []Scored, state FilterState, opts Options) (result []Scored) {
	log := opts.logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error("filter stage failed",
				zap.String("stage", "filter"),
				zap.Any("panic", r))
			result = []Scored{}
		}
	}()

	pred, err := newPredicate(state, opts.priceRanges())
	if err != nil {
		log.Warn("filter stage failed",
			zap.String("stage", "filter"),
			zap.String("price_range", state.PriceRangeID),
			zap.Error(err))
		return []Scored{}
	}
	if pred.passAll() {
		return append(make([]Scored, 0, len(items)), items...)
	}

	result = make([]Scored, 0, len(items))
	for _, item := range items {
		if pred.matches(item.Item) {
			result = append(result, item)
		}
	}
	return result
}

// rangeContains is the price membership test shared by filtering and facets.
var rangeContains = PriceRange.Contains

// predicate is the compiled form of a FilterState.
type predicate struct {
	price  *PriceRange
	genres []string
	tags   []string
}

func newPredicate(state FilterState, ranges []PriceRange) (predicate, error) {
	var p predicate
	if id := strings.TrimSpace(state.PriceRangeID); id != "" {
		r, err := FindPriceRange(ranges, id)
		if err != nil {
			return predicate{}, fmt.Errorf("resolving price filter: %w", err)
		}
		p.price = &r
	}
	p.genres = cleanList(state.Genres)
	for _, tag := range cleanList(state.Tags) {
		p.tags = append(p.tags, strings.ToLower(tag))
	}
	return p, nil
}

func (p predicate) passAll() bool {
	return p.price == nil && len(p.genres) == 0 && len(p.tags) == 0
}

func (p predicate) matches(item Item) bool {
	return p.matchesPrice(item) && p.matchesGenre(item) && p.matchesTags(item)
}

func (p predicate) matchesPrice(item Item) bool {
	return p.price == nil || rangeContains(*p.price, item.Price)
}

// matchesGenre is any-of.
func (p predicate) matchesGenre(item Item) bool {
	if len(p.genres) == 0 {
		return true
	}
	for _, g := range p.genres {
		if ContainsIgnoreCase(item.Genres, g) {
			return true
		}
	}
	return false
}

// matchesTags is all-of, deliberately stricter than genres.
func (p predicate) matchesTags(item Item) bool {
	for _, tag := range p.tags {
		if !AnyContains(item.Tags, tag) {
			return false
		}
	}
	return true
}

// MatchesFilter reports whether a single item passes state.
func MatchesFilter(item Item, state FilterState, ranges []PriceRange) (bool, error) {
	pred, err := newPredicate(state, ranges)
	if err != nil {
		return false, err
	}
	return pred.matches(item), nil
}
