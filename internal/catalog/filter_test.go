package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func twoItemCatalog() []catalog.Scored {
	return catalog.Unscored([]catalog.Item{
		{ID: "1", Title: "Quest", Price: 10, Genres: []string{"rpg"}, Tags: []string{"coop"}},
		{ID: "2", Title: "Shooter", Price: 60, Genres: []string{"fps"}, Tags: []string{"coop"}},
	})
}

func TestFilter_NoFilters(t *testing.T) {
	items := catalog.Unscored(sampleCatalog())
	got := catalog.Filter(items, catalog.FilterState{}, catalog.Options{})
	assert.Equal(t, items, got)
}

func TestFilter_PriceRange(t *testing.T) {
	got := catalog.Filter(twoItemCatalog(), catalog.FilterState{PriceRangeID: "under-50"}, catalog.Options{})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilter_PriceAndGenreAreANDed(t *testing.T) {
	got := catalog.Filter(twoItemCatalog(), catalog.FilterState{
		PriceRangeID: "under-50",
		Genres:       []string{"fps"},
	}, catalog.Options{})
	assert.Empty(t, got)
}

func TestFilter_PriceBoundsAreInclusive(t *testing.T) {
	items := catalog.Unscored([]catalog.Item{
		{ID: "a", Title: "A", Price: 50},
		{ID: "b", Title: "B", Price: 100},
		{ID: "c", Title: "C", Price: 100.01},
	})
	got := catalog.Filter(items, catalog.FilterState{PriceRangeID: "50-100"}, catalog.Options{})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilter_OpenEndedPriceRange(t *testing.T) {
	items := catalog.Unscored([]catalog.Item{
		{ID: "a", Title: "A", Price: 199.99},
		{ID: "b", Title: "B", Price: 200},
		{ID: "c", Title: "C", Price: 9999},
	})
	got := catalog.Filter(items, catalog.FilterState{PriceRangeID: "200-plus"}, catalog.Options{})
	assert.Equal(t, []string{"b", "c"}, ids(got))
}

func TestFilter_CustomPriceRanges(t *testing.T) {
	opts := catalog.Options{PriceRanges: []catalog.PriceRange{
		{ID: "budget", Min: 0, Max: catalog.Bound(20), Label: "Budget"},
	}}
	got := catalog.Filter(catalog.Unscored(sampleCatalog()), catalog.FilterState{PriceRangeID: "BUDGET"}, opts)
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestFilter_GenresAreAnyOfAndCaseInsensitive(t *testing.T) {
	items := catalog.Unscored(sampleCatalog())

	got := catalog.Filter(items, catalog.FilterState{Genres: []string{"rpg"}}, catalog.Options{})
	assert.Equal(t, []string{"1", "2", "5"}, ids(got))

	got = catalog.Filter(items, catalog.FilterState{Genres: []string{"simulation", "FPS"}}, catalog.Options{})
	assert.Equal(t, []string{"3", "4"}, ids(got))
}

func TestFilter_GenreMustMatchWholeName(t *testing.T) {
	got := catalog.Filter(catalog.Unscored(sampleCatalog()), catalog.FilterState{Genres: []string{"rp"}}, catalog.Options{})
	assert.Empty(t, got)
}

func TestFilter_TagsAreAllOfSubstrings(t *testing.T) {
	items := catalog.Unscored(sampleCatalog())

	got := catalog.Filter(items, catalog.FilterState{Tags: []string{"SOULS"}}, catalog.Options{})
	assert.Equal(t, []string{"1", "5"}, ids(got))

	got = catalog.Filter(items, catalog.FilterState{Tags: []string{"souls", "co-op"}}, catalog.Options{})
	assert.Equal(t, []string{"5"}, ids(got))

	got = catalog.Filter(items, catalog.FilterState{Tags: []string{"souls", "farming"}}, catalog.Options{})
	assert.Empty(t, got)
}

func TestFilter_BlankSelectionsAreIgnored(t *testing.T) {
	items := catalog.Unscored(sampleCatalog())
	got := catalog.Filter(items, catalog.FilterState{Genres: []string{" "}, Tags: []string{""}}, catalog.Options{})
	assert.Len(t, got, len(items))
}

func TestFilter_UnknownPriceRangeFailsSoft(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	got := catalog.Filter(
		catalog.Unscored(sampleCatalog()),
		catalog.FilterState{PriceRangeID: "under-5"},
		catalog.Options{Logger: zap.New(core)},
	)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	entries := logs.FilterField(zap.String("stage", "filter")).All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "under-5")
}

func TestFilter_PreservesScoresAndOrder(t *testing.T) {
	searched := catalog.Search(sampleCatalog(), "dark", catalog.Options{})
	got := catalog.Filter(searched, catalog.FilterState{Genres: []string{"rpg"}}, catalog.Options{})

	require.NotEmpty(t, got)
	for _, item := range got {
		assert.True(t, item.HasScore)
	}
	assert.Equal(t, ids(searched)[:len(got)], ids(got))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	items := catalog.Unscored(sampleCatalog())
	before := append([]catalog.Scored(nil), items...)

	_ = catalog.Filter(items, catalog.FilterState{Genres: []string{"rpg"}, Tags: []string{"souls"}}, catalog.Options{})

	assert.Equal(t, before, items)
}

func TestMatchesFilter(t *testing.T) {
	item := sampleCatalog()[0]
	ok, err := catalog.MatchesFilter(item, catalog.FilterState{Genres: []string{"action"}}, catalog.DefaultPriceRanges())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = catalog.MatchesFilter(item, catalog.FilterState{PriceRangeID: "nope"}, catalog.DefaultPriceRanges())
	assert.ErrorIs(t, err, catalog.ErrUnknownPriceRange)
}

func TestValidatePriceRanges(t *testing.T) {
	assert.NoError(t, catalog.ValidatePriceRanges(catalog.DefaultPriceRanges()))

	err := catalog.ValidatePriceRanges([]catalog.PriceRange{
		{ID: "a", Min: 0, Max: catalog.Bound(10)},
		{ID: "A", Min: 10},
	})
	assert.ErrorContains(t, err, "duplicate")

	err = catalog.ValidatePriceRanges([]catalog.PriceRange{{ID: "bad", Min: 20, Max: catalog.Bound(10)}})
	assert.ErrorContains(t, err, "below min")
}
