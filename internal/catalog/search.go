package catalog

import (
	"sort"

	"go.uber.org/zap"
)

// NoiseThreshold is the score at or below which a search match is dropped.
const NoiseThreshold = 20.0

// Search scores every item against term and keeps those above
// NoiseThreshold, ordered by descending score. Ties keep catalog order.
//
// A blank term returns every item without a score. Items that cannot be
// scored are logged and excluded rather than failing the pass.
func Search(items []Item, term string, opts Options) []Scored {
	term = foldTerm(term)
	if term == "" {
		return Unscored(items)
	}

	log := opts.logger()
	out := make([]Scored, 0, len(items))
	for _, item := range items {
		m, err := Evaluate(item, term)
		if err != nil {
			log.Warn("excluding item from search",
				zap.String("stage", "search"),
				zap.String("item_id", item.ID),
				zap.Error(err))
			continue
		}
		if m.Score <= NoiseThreshold {
			continue
		}
		out = append(out, Scored{Item: item, MatchScore: m.Score, Signal: m.Signal, HasScore: true})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}
