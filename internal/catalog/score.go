package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// Signal names the match rule that produced an item's score.
type Signal string

const (
	SignalNone     Signal = ""
	SignalExact    Signal = "exact"
	SignalTitle    Signal = "title"
	SignalNumeric  Signal = "numeric"
	SignalTag      Signal = "tag"
	SignalAlias    Signal = "alias"
	SignalPhonetic Signal = "phonetic"
	SignalFuzzy    Signal = "fuzzy"
)

const (
	scoreExactTitle        = 100.0
	scoreTitleSubstring    = 80.0
	scoreNumericToken      = 70.0
	scoreTagSubstring      = 60.0
	scoreAliasSubstring    = 50.0
	scorePhoneticSubstring = 40.0
	fuzzyWeight            = 30.0
)

var reDigitRun = regexp.MustCompile(`\d+`)

// Match is the strongest signal found for one item and term.
type Match struct {
	Score  float64
	Signal Signal
}

// Evaluate scores item against term and reports which signal won. Signals
// are not summed: the strongest one is the score. On equal values the
// earlier rule in the table wins.
//
// An empty term yields a zero Match. An item without a title cannot be
// scored and returns ErrMalformedItem.
func Evaluate(item Item, term string) (Match, error) {
	term = foldTerm(term)
	if term == "" {
		return Match{}, nil
	}
	title := strings.ToLower(CleanText(item.Title))
	if title == "" {
		return Match{}, fmt.Errorf("%w: item %q has no title", ErrMalformedItem, item.ID)
	}

	best := Match{}
	consider := func(score float64, sig Signal) {
		if score > best.Score {
			best = Match{Score: score, Signal: sig}
		}
	}

	if title == term {
		consider(scoreExactTitle, SignalExact)
	}
	if strings.Contains(title, term) {
		consider(scoreTitleSubstring, SignalTitle)
	}
	if numericTokenMatch(title, term) {
		consider(scoreNumericToken, SignalNumeric)
	}
	if AnyContains(item.Tags, term) {
		consider(scoreTagSubstring, SignalTag)
	}
	if AnyContains(item.Aliases, term) {
		consider(scoreAliasSubstring, SignalAlias)
	}
	if AnyContains(item.PhoneticAliases, term) {
		consider(scorePhoneticSubstring, SignalPhonetic)
	}
	consider(fuzzyTitleScore(title, term), SignalFuzzy)

	return best, nil
}

// Score returns only the numeric relevance of item for term.
func Score(item Item, term string) (float64, error) {
	m, err := Evaluate(item, term)
	return m.Score, err
}

// numericTokenMatch reports whether term carries a digit and any digit run of
// the title appears verbatim in term, so "2077" finds "Cyberpunk 2077".
func numericTokenMatch(title, term string) bool {
	if !strings.ContainsAny(term, "0123456789") {
		return false
	}
	for _, run := range reDigitRun.FindAllString(title, -1) {
		if strings.Contains(term, run) {
			return true
		}
	}
	return false
}

// fuzzyTitleScore compares term to the whole title and, for single-word
// terms, to each title word, keeping the best similarity so a typo in one
// word of a long title still registers. Words are compared by edit distance
// only; a short word such as "a" sitting inside the term is not a match.
func fuzzyTitleScore(title, term string) float64 {
	best := Similarity(title, term)
	if strings.ContainsAny(term, " \t") {
		return best * fuzzyWeight
	}
	for _, word := range strings.Fields(title) {
		if s := editRatio(word, term); s > best {
			best = s
		}
	}
	return best * fuzzyWeight
}
