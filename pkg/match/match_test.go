package match

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type course struct {
	Code     string
	Date     string
	Location string
}

func (c course) MatchKey() string { return c.Code }

func TestSanitize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		desc     string
	}{
		{"CS2110", "CS2110", "already clean"},
		{"cs 2110", "cs 2110", "interior space kept"},
		{"  CS2110  ", "CS2110", "surrounding whitespace trimmed"},
		{"CS-2110_A", "CS-2110_A", "hyphen and underscore kept"},
		{"CS@2110!", "CS2110", "symbols stripped"},
		{"über2110", "ber2110", "non-ASCII letters stripped"},
		{"!!!", "", "only disallowed characters"},
		{"", "", "empty input"},
		{"  ", "", "whitespace only"},
		{"a\tb", "ab", "tab stripped, not kept as space"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := Sanitize(tc.input)
			if got != tc.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSanitizeCharset(t *testing.T) {
	inputs := []string{"CS 2110", "math_1920!", "  a-b@c  ", "日本語ABC", "%^&*()"}
	for _, in := range inputs {
		out := Sanitize(in)
		for _, r := range out {
			ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || r == ' ' || r == '-' || r == '_'
			if !ok {
				t.Errorf("Sanitize(%q) produced disallowed rune %q", in, r)
			}
		}
		if out != strings.TrimSpace(out) {
			t.Errorf("Sanitize(%q) = %q has surrounding whitespace", in, out)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"CS2110", "  cs 21-10!  ", "!!!", "", "a_b-c d"}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestDistance(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"book", "back", 2},
		{"book", "books", 1},
		{"cs2110", "cs2110", 0},
		{"cs2", "cs2110", 3},
		{"cs2800", "cs2110", 3},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s→%s", tc.a, tc.b), func(t *testing.T) {
			if got := Distance(tc.a, tc.b); got != tc.expected {
				t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestDistanceProperties(t *testing.T) {
	pairs := [][2]string{
		{"cs2110", "cs2800"},
		{"math1920", "cs2"},
		{"", "phys2213"},
		{"engrd2700", "engrd2700"},
		{"a", "aaaa"},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]

		if Distance(a, b) != Distance(b, a) {
			t.Errorf("Distance(%q, %q) not symmetric", a, b)
		}
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%q, %q) = %d, want 0", a, a, d)
		}
		if d := Distance(a, ""); d != len(a) {
			t.Errorf("Distance(%q, \"\") = %d, want %d", a, d, len(a))
		}

		d := Distance(a, b)
		lower := len(a) - len(b)
		if lower < 0 {
			lower = -lower
		}
		upper := len(a)
		if len(b) > upper {
			upper = len(b)
		}
		if d < lower || d > upper {
			t.Errorf("Distance(%q, %q) = %d outside [%d, %d]", a, b, d, lower, upper)
		}
	}
}

// Cross-check against an independent implementation.
func TestDistanceAgainstFuzzysearch(t *testing.T) {
	pairs := [][2]string{
		{"cs2110", "cs2800"},
		{"kitten", "sitting"},
		{"math1920", "math2930"},
		{"", "cs2"},
		{"aep3620", "aep3630"},
		{"btry3010", "stsci2150"},
	}
	for _, p := range pairs {
		want := fuzzy.LevenshteinDistance(p[0], p[1])
		if got := Distance(p[0], p[1]); got != want {
			t.Errorf("Distance(%q, %q) = %d, fuzzysearch says %d", p[0], p[1], got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	candidates := []course{
		{Code: "CS2110", Date: "Mar 12", Location: "Barton Hall"},
		{Code: "CS2800", Date: "Mar 14", Location: "Statler Aud"},
		{Code: "MATH1920", Date: "Mar 10", Location: "Malott 228"},
	}

	testCases := []struct {
		query       string
		maxDistance int
		expected    []string
		desc        string
	}{
		{"cs2", 3, []string{"CS2110", "CS2800"}, "prefix query within distance"},
		{"CS2", 3, []string{"CS2110", "CS2800"}, "case insensitive"},
		{" cs2! ", 3, []string{"CS2110", "CS2800"}, "query sanitized first"},
		{"2", 3, []string{"CS2110", "CS2800", "MATH1920"}, "single char matches on containment alone"},
		{"2", 0, []string{"CS2110", "CS2800", "MATH1920"}, "single char ignores distance budget"},
		{"cs2110", 3, []string{"CS2110"}, "exact code always matches"},
		{"cs21100000", 3, nil, "no containment, distance never reached"},
		{"math1920", 3, []string{"MATH1920"}, "full different code"},
		{"cs2", 0, nil, "distance budget too small for partial query"},
		{"", 3, nil, "empty query yields empty result"},
		{"!!!", 3, []string{"CS2110", "CS2800", "MATH1920"}, "key sanitizes to empty, matches everything"},
		{"   ", 3, []string{"CS2110", "CS2800", "MATH1920"}, "whitespace-only query matches everything"},
		{"@#$", 0, []string{"CS2110", "CS2800", "MATH1920"}, "empty key ignores distance budget"},
		{"zz", 3, nil, "no candidate contains the key"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := Filter(tc.query, candidates, tc.maxDistance)
			if len(got) != len(tc.expected) {
				t.Fatalf("Filter(%q) returned %d candidates, want %d: %v",
					tc.query, len(got), len(tc.expected), got)
			}
			for i, c := range got {
				if c.Code != tc.expected[i] {
					t.Errorf("Filter(%q)[%d] = %s, want %s", tc.query, i, c.Code, tc.expected[i])
				}
			}
		})
	}
}

func TestFilterPreservesOrderAndDuplicates(t *testing.T) {
	candidates := []course{
		{Code: "CS2800"},
		{Code: "CS2110"},
		{Code: "CS2110"},
	}
	got := Filter("cs2", candidates, 3)
	want := []string{"CS2800", "CS2110", "CS2110"}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Code != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i].Code, want[i])
		}
	}
}

func TestFilterEmptyCandidates(t *testing.T) {
	if got := Filter[course]("cs2", nil, 3); len(got) != 0 {
		t.Errorf("Filter over empty candidates returned %v", got)
	}
}

func TestFilterCodes(t *testing.T) {
	codes := []string{"CS2110", "CS2800", "MATH1920"}
	got := FilterCodes("cs2", codes, 3)
	want := []string{"CS2110", "CS2800"}
	if len(got) != len(want) {
		t.Fatalf("FilterCodes returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func BenchmarkFilter(b *testing.B) {
	codes := make([]string, 1000)
	for i := range codes {
		codes[i] = fmt.Sprintf("CS%04d", i)
	}
	queries := []string{"cs1", "cs01", "cs0100", "c", "cs99"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FilterCodes(queries[i%len(queries)], codes, 3)
	}
}
