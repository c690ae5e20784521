package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Key is the store key holding the search history.
const Key = "search-history"

// ErrCorrupt reports a stored history value that is not a JSON list of terms.
var ErrCorrupt = errors.New("corrupt search history")

// Recorder maintains a bounded, most-recent-first list of search terms.
type Recorder struct {
	store Store
	limit int
}

// NewRecorder returns a Recorder keeping at most limit terms.
func NewRecorder(store Store, limit int) *Recorder {
	if limit <= 0 {
		limit = 20
	}
	return &Recorder{store: store, limit: limit}
}

// Terms returns the recorded terms, newest first.
func (r *Recorder) Terms() ([]string, error) {
	raw, ok, err := r.store.Get(Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return terms, nil
}

// Record moves term to the front of the history. Blank terms are ignored
// and duplicates are matched case-insensitively. A corrupt history is left
// untouched and its error returned.
func (r *Recorder) Record(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	terms, err := r.Terms()
	if err != nil {
		return err
	}

	out := make([]string, 0, len(terms)+1)
	out = append(out, term)
	for _, t := range terms {
		if strings.EqualFold(t, term) {
			continue
		}
		out = append(out, t)
	}
	if len(out) > r.limit {
		out = out[:r.limit]
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return r.store.Set(Key, encoded)
}

// Clear removes every recorded term.
func (r *Recorder) Clear() error {
	return r.store.Delete(Key)
}
