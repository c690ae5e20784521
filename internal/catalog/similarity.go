package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity returns a normalized case-insensitive similarity in [0,1].
//
// Equal strings score 1. When one string contains the other the result is
// 0.9 if a contains b and 0.8 if b contains a, so the comparison is not
// symmetric. Otherwise the score is derived from the Levenshtein distance
// relative to the longer string. Empty input scores 0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) {
		return 0.9
	}
	if strings.Contains(b, a) {
		return 0.8
	}

	return editRatio(a, b)
}

// editRatio is 1 minus the Levenshtein distance over the longer rune length.
// Callers pass lower-cased input.
func editRatio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	d := edlib.LevenshteinDistance(a, b)
	return float64(longest-d) / float64(longest)
}
