// Package suggest serves per-keystroke course-code suggestions over the
// latest known candidate set.
package suggest

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/match"
)

// Suggestion is one matched course code with its 1-based position in
// the result list.
type Suggestion struct {
	Code string
	Rank int
}

// CandidateSource supplies the current course-code list. The store
// implements this; tests supply fakes.
type CandidateSource interface {
	Courses(ctx context.Context) ([]string, error)
}

// Suggester holds the candidate codes for the currently selected
// schedule and answers typeahead queries against them. The filter
// itself is stateless per call; the Suggester only caches the
// candidate list between Refresh calls, since that list changes on
// selector changes rather than on keystrokes.
type Suggester struct {
	mu          sync.RWMutex
	codes       []string
	trie        *patricia.Trie
	maxDistance int
	limit       int
}

// NewSuggester creates a Suggester with the given edit-distance budget
// and result cap. A negative distance or a non-positive limit falls
// back to the defaults (3, 24); a zero distance is a valid exact-match
// budget and is kept.
func NewSuggester(maxDistance, limit int) *Suggester {
	if maxDistance < 0 {
		maxDistance = 3
	}
	if limit <= 0 {
		limit = 24
	}
	return &Suggester{
		trie:        patricia.NewTrie(),
		maxDistance: maxDistance,
		limit:       limit,
	}
}

// SetCandidates replaces the candidate set wholesale.
func (s *Suggester) SetCandidates(codes []string) {
	// Duplicate codes share one trie node, so each node carries every
	// candidate index for its key. Suggest preserves duplicates by
	// scanning the list; Complete must match that.
	trie := patricia.NewTrie()
	for i, code := range codes {
		p := patricia.Prefix(strings.ToLower(code))
		if item := trie.Get(p); item != nil {
			trie.Set(p, append(item.([]int), i))
		} else {
			trie.Insert(p, []int{i})
		}
	}

	s.mu.Lock()
	s.codes = append([]string(nil), codes...)
	s.trie = trie
	s.mu.Unlock()

	log.Debugf("candidate set replaced: %d course codes", len(codes))
}

// Refresh pulls a fresh candidate list from the source. Called when
// the semester or exam-type selection changes.
func (s *Suggester) Refresh(ctx context.Context, source CandidateSource) error {
	codes, err := source.Courses(ctx)
	if err != nil {
		return err
	}
	s.SetCandidates(codes)
	return nil
}

// Suggest filters the current candidates against the raw query,
// bounded by the configured limit. Result order follows candidate
// order; an empty query always yields no suggestions.
func (s *Suggester) Suggest(rawQuery string) []Suggestion {
	s.mu.RLock()
	codes := s.codes
	s.mu.RUnlock()

	matched := match.FilterCodes(rawQuery, codes, s.maxDistance)
	if len(matched) > s.limit {
		matched = matched[:s.limit]
	}

	suggestions := make([]Suggestion, len(matched))
	for i, code := range matched {
		suggestions[i] = Suggestion{Code: code, Rank: i + 1}
	}
	return suggestions
}

// Complete returns candidates whose lowercased code starts with the
// given prefix, walking the trie instead of scanning the whole list.
// This is the cheap path for plain prefix lookups; Suggest handles the
// tolerant matching.
func (s *Suggester) Complete(prefix string, limit int) []Suggestion {
	if prefix == "" {
		return nil
	}
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var suggestions []Suggestion
	lower := strings.ToLower(prefix)
	err := s.trie.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, item patricia.Item) error {
		for _, idx := range item.([]int) {
			if len(suggestions) >= limit {
				return nil
			}
			suggestions = append(suggestions, Suggestion{
				Code: s.codes[idx],
				Rank: len(suggestions) + 1,
			})
		}
		return nil
	})
	if err != nil {
		log.Errorf("visiting code trie: %v", err)
		return nil
	}
	return suggestions
}

// Candidates returns a copy of the current candidate codes.
func (s *Suggester) Candidates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.codes...)
}

// MaxDistance reports the configured edit-distance budget.
func (s *Suggester) MaxDistance() int { return s.maxDistance }

// Limit reports the configured result cap.
func (s *Suggester) Limit() int { return s.limit }
