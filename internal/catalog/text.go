package catalog

import (
	"html"
	"strings"
)

// CleanText unescapes HTML entities and normalizes whitespace.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// ContainsIgnoreCase reports whether any element in slice matches val case-insensitively.
func ContainsIgnoreCase(slice []string, val string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, val) {
			return true
		}
	}
	return false
}

// AnyContains reports whether any element of slice contains the already
// case-folded needle.
func AnyContains(slice []string, needle string) bool {
	for _, s := range slice {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func foldTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// cleanList trims every entry, drops blanks and never returns nil.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
