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

func panicOnPrice(t *testing.T) {
	t.Helper()
	restore := catalog.SetRangeContains(func(catalog.PriceRange, float64) bool {
		panic("range table corrupted")
	})
	t.Cleanup(restore)
}

func TestFilter_PanicYieldsEmptyResultAndLog(t *testing.T) {
	panicOnPrice(t)
	core, logs := observer.New(zapcore.ErrorLevel)

	got := catalog.Filter(
		catalog.Unscored(sampleCatalog()),
		catalog.FilterState{PriceRangeID: "under-50"},
		catalog.Options{Logger: zap.New(core)},
	)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	entries := logs.FilterField(zap.String("stage", "filter")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "range table corrupted", entries[0].ContextMap()["panic"])
}

func TestFacetsOf_PanicYieldsZeroedCounts(t *testing.T) {
	panicOnPrice(t)
	core, logs := observer.New(zapcore.ErrorLevel)

	got := catalog.FacetsOf(
		catalog.Unscored(sampleCatalog()),
		catalog.Options{Logger: zap.New(core)},
	)

	require.Len(t, got.PriceRanges, len(catalog.DefaultPriceRanges()))
	for id, n := range got.PriceRanges {
		assert.Zero(t, n, id)
	}
	assert.Empty(t, got.Genres)
	assert.Empty(t, got.Tags)
	assert.Len(t, logs.FilterField(zap.String("stage", "facets")).All(), 1)
}
