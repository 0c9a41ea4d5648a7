// Package match is the core, providing query sanitization and the
// edit-distance typeahead filter over course-code candidates.
package match

import "strings"

// Candidate is anything that exposes a course code to match against.
// Everything else on the implementing type is opaque payload.
type Candidate interface {
	MatchKey() string
}

// Sanitize strips every character that is not an ASCII letter, digit,
// space, hyphen or underscore, then trims surrounding whitespace.
// Case is left alone; lowering happens in Filter.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Distance returns the Levenshtein edit distance between a and b:
// the minimum number of single-character inserts, deletes and
// substitutions to turn one into the other. All edits cost 1, so the
// result is symmetric in its arguments. Neither input is case-folded;
// callers wanting case-insensitive distance lower both sides first.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	la, lb := len(ra), len(rb)

	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Two-row DP over the (la+1) x (lb+1) grid.
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j-1], curr[j-1], prev[j])
			}
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Filter returns the candidates whose code matches rawQuery, in their
// original relative order. A candidate matches when its lowercased code
// contains the lowercased, sanitized query as a substring and, for
// queries longer than one character, the edit distance between query
// and code is at most maxDistance. Single-character keys match on
// containment alone; distance would over-filter them.
//
// The empty raw query yields an empty result, never the full set.
// No deduplication and no re-ranking happens here: this is a stable
// filter, and every call is independent of the last.
func Filter[C Candidate](rawQuery string, candidates []C, maxDistance int) []C {
	if rawQuery == "" {
		return nil
	}
	key := strings.ToLower(Sanitize(rawQuery))

	var matched []C
	for _, c := range candidates {
		// Candidate codes are assumed already clean, so only the
		// query side is sanitized.
		candidateKey := strings.ToLower(c.MatchKey())
		if !strings.Contains(candidateKey, key) {
			continue
		}
		if len(key) > 1 && Distance(key, candidateKey) > maxDistance {
			continue
		}
		matched = append(matched, c)
	}
	return matched
}

// code adapts a bare course-code string to the Candidate interface.
type code string

func (c code) MatchKey() string { return string(c) }

// FilterCodes is Filter over plain course-code strings.
func FilterCodes(rawQuery string, codes []string, maxDistance int) []string {
	wrapped := make([]code, len(codes))
	for i, s := range codes {
		wrapped[i] = code(s)
	}
	matched := Filter(rawQuery, wrapped, maxDistance)
	out := make([]string, len(matched))
	for i, c := range matched {
		out[i] = string(c)
	}
	return out
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
