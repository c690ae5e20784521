package catalog

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrMalformedItem is returned when an item cannot be scored.
	ErrMalformedItem = errors.New("malformed catalog item")
	// ErrUnknownPriceRange is returned when a filter references a price range id
	// that is not in the configured table.
	ErrUnknownPriceRange = errors.New("unknown price range")
	// ErrUnknownSortKey is returned by ParseSortKey for unrecognized input.
	ErrUnknownSortKey = errors.New("unknown sort key")
)

// Item is a single catalog entry. Items are treated as immutable for the
// duration of a pipeline run.
type Item struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Price           float64   `json:"price"`
	Genres          []string  `json:"genres"`
	Tags            []string  `json:"tags"`
	Aliases         []string  `json:"aliases"`
	PhoneticAliases []string  `json:"phoneticAliases"`
	Rating          float64   `json:"rating"`
	ReleaseDate     time.Time `json:"releaseDate"`
	Popularity      float64   `json:"popularity"`
}

// Normalize returns a copy of item with a trimmed title and every optional
// collection replaced by a non-nil slice without blank entries.
func Normalize(item Item) Item {
	item.ID = strings.TrimSpace(item.ID)
	item.Title = CleanText(item.Title)
	item.Genres = cleanList(item.Genres)
	item.Tags = cleanList(item.Tags)
	item.Aliases = cleanList(item.Aliases)
	item.PhoneticAliases = cleanList(item.PhoneticAliases)
	return item
}

// NormalizeAll applies Normalize to every item and returns a new slice.
func NormalizeAll(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}

// Scored pairs an item with the match score of the current search pass.
// HasScore is false when no search term was active.
type Scored struct {
	Item
	MatchScore float64 `json:"matchScore,omitempty"`
	Signal     Signal  `json:"signal,omitempty"`
	HasScore   bool    `json:"-"`
}

// Unscored wraps items without attaching any match score.
func Unscored(items []Item) []Scored {
	out := make([]Scored, len(items))
	for i, item := range items {
		out[i] = Scored{Item: item}
	}
	return out
}

// Items strips the scores and returns the bare catalog items.
func Items(scored []Scored) []Item {
	out := make([]Item, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}

// FilterState is the user-controlled filter selection. It is replaced
// wholesale on every change and never mutated by the pipeline.
type FilterState struct {
	PriceRangeID string   `json:"priceRange,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	SearchTerm   string   `json:"searchTerm,omitempty"`
}

// SearchActive reports whether the state carries a non-blank search term.
func (s FilterState) SearchActive() bool {
	return foldTerm(s.SearchTerm) != ""
}

// Options configures the pipeline stages.
type Options struct {
	Logger      *zap.Logger
	PriceRanges []PriceRange
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) priceRanges() []PriceRange {
	if o.PriceRanges == nil {
		return DefaultPriceRanges()
	}
	return o.PriceRanges
}
