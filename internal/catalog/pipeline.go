package catalog

import (
	"strconv"
	"strings"
)

// Results is the output of one pipeline run.
type Results struct {
	Items      []Scored    `json:"items"`
	Facets     FacetCounts `json:"facets"`
	Comparator Comparator  `json:"-"`
}

// GetResults runs search, filter and sort over the catalog and computes facet
// counts from the searched but unfiltered set. It has no side effects other
// than logging.
func GetResults(items []Item, state FilterState, key SortKey, opts Options) Results {
	searched := Search(items, state.SearchTerm, opts)
	facets := FacetsOf(searched, opts)
	filtered := Filter(searched, state, opts)
	cmp := ComparatorFor(key, state.SearchActive())
	return Results{
		Items:      Sort(filtered, cmp),
		Facets:     facets,
		Comparator: cmp,
	}
}

// Controller memoizes GetResults on the identity of the catalog slice, the
// value of the filter state and the sort key. Replacing the catalog with a
// new slice invalidates the cache. A Controller is not safe for concurrent
// use; the returned slices are shared between calls and must not be modified.
type Controller struct {
	opts    Options
	last    memoKey
	valid   bool
	results Results
	runs    int
}

// NewController returns a memoizing pipeline runner.
func NewController(opts Options) *Controller {
	return &Controller{opts: opts}
}

// Results returns the pipeline output, recomputing only when an input changed.
func (c *Controller) Results(items []Item, state FilterState, key SortKey) Results {
	k := newMemoKey(items, state, key)
	if c.valid && k == c.last {
		return c.results
	}
	c.results = GetResults(items, state, key, c.opts)
	c.last = k
	c.valid = true
	c.runs++
	return c.results
}

// Invalidate drops the cached result.
func (c *Controller) Invalidate() {
	c.valid = false
	c.results = Results{}
}

// Runs reports how many times the pipeline actually executed.
func (c *Controller) Runs() int { return c.runs }

type memoKey struct {
	head  *Item
	len   int
	state string
	key   SortKey
}

func newMemoKey(items []Item, state FilterState, key SortKey) memoKey {
	k := memoKey{len: len(items), state: stateFingerprint(state), key: key}
	if len(items) > 0 {
		k.head = &items[0]
	}
	return k
}

// stateFingerprint encodes every field length-prefixed, so no choice of
// genre or tag text can make two different states collide.
func stateFingerprint(s FilterState) string {
	var b strings.Builder
	field := func(v string) {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	list := func(vs []string) {
		b.WriteString(strconv.Itoa(len(vs)))
		b.WriteByte('#')
		for _, v := range vs {
			field(v)
		}
	}
	field(s.PriceRangeID)
	list(s.Genres)
	list(s.Tags)
	field(s.SearchTerm)
	return b.String()
}
