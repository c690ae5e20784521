package catalog

// SetRangeContains replaces the price membership test until restore is called.
func SetRangeContains(f func(PriceRange, float64) bool) (restore func()) {
	prev := rangeContains
	rangeContains = f
	return func() { rangeContains = prev }
}
