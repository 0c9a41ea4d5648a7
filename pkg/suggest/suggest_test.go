package suggest

import (
	"context"
	"errors"
	"testing"
)

var testCodes = []string{"CS 2110", "CS 2800", "MATH 1920", "PHYS 2213"}

type fakeSource struct {
	codes []string
	err   error
}

func (f fakeSource) Courses(ctx context.Context) ([]string, error) {
	return f.codes, f.err
}

func TestSuggest(t *testing.T) {
	s := NewSuggester(3, 24)
	s.SetCandidates(testCodes)

	testCases := []struct {
		query    string
		expected []string
		desc     string
	}{
		{"cs 2", []string{"CS 2110", "CS 2800"}, "partial code"},
		{"cs 2110", []string{"CS 2110"}, "exact code"},
		{"", nil, "empty query"},
		{"zz", nil, "no match"},
		{"2", []string{"CS 2110", "CS 2800", "MATH 1920", "PHYS 2213"}, "single char containment"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := s.Suggest(tc.query)
			if len(got) != len(tc.expected) {
				t.Fatalf("Suggest(%q) = %v, want codes %v", tc.query, got, tc.expected)
			}
			for i, sug := range got {
				if sug.Code != tc.expected[i] {
					t.Errorf("Suggest(%q)[%d] = %s, want %s", tc.query, i, sug.Code, tc.expected[i])
				}
				if sug.Rank != i+1 {
					t.Errorf("Suggest(%q)[%d].Rank = %d, want %d", tc.query, i, sug.Rank, i+1)
				}
			}
		})
	}
}

func TestSuggestLimit(t *testing.T) {
	s := NewSuggester(3, 2)
	s.SetCandidates(testCodes)

	got := s.Suggest("2")
	if len(got) != 2 {
		t.Fatalf("limit not applied: got %d suggestions", len(got))
	}
	if got[0].Code != "CS 2110" || got[1].Code != "CS 2800" {
		t.Errorf("truncation changed order: %v", got)
	}
}

func TestComplete(t *testing.T) {
	s := NewSuggester(3, 24)
	s.SetCandidates(testCodes)

	got := s.Complete("cs", 10)
	if len(got) != 2 {
		t.Fatalf("Complete(cs) = %v", got)
	}
	for _, sug := range got {
		if sug.Code != "CS 2110" && sug.Code != "CS 2800" {
			t.Errorf("unexpected completion %q", sug.Code)
		}
	}

	if got := s.Complete("", 10); got != nil {
		t.Errorf("Complete with empty prefix = %v", got)
	}
	if got := s.Complete("math 19", 10); len(got) != 1 || got[0].Code != "MATH 1920" {
		t.Errorf("Complete(math 19) = %v", got)
	}
}

func TestCompleteDuplicates(t *testing.T) {
	s := NewSuggester(3, 24)
	s.SetCandidates([]string{"CS 2110", "CS 2110", "CS 2800"})

	// Completion keeps duplicate codes, same as the filter path.
	got := s.Complete("cs 2110", 10)
	if len(got) != 2 {
		t.Fatalf("Complete(cs 2110) = %v, want both occurrences", got)
	}
	for i, sug := range got {
		if sug.Code != "CS 2110" {
			t.Errorf("completion %d = %q, want CS 2110", i, sug.Code)
		}
		if sug.Rank != i+1 {
			t.Errorf("completion %d rank = %d, want %d", i, sug.Rank, i+1)
		}
	}

	if got := s.Complete("cs", 10); len(got) != 3 {
		t.Errorf("Complete(cs) over duplicates = %v, want 3", got)
	}
}

func TestCompleteLimit(t *testing.T) {
	s := NewSuggester(3, 24)
	s.SetCandidates([]string{"CS 2110", "CS 2800", "CS 3110", "CS 4410"})

	if got := s.Complete("cs", 2); len(got) != 2 {
		t.Errorf("Complete limit not applied: %v", got)
	}
}

func TestRefresh(t *testing.T) {
	s := NewSuggester(3, 24)

	if err := s.Refresh(context.Background(), fakeSource{codes: testCodes}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := s.Candidates(); len(got) != len(testCodes) {
		t.Errorf("Candidates after refresh = %v", got)
	}

	wantErr := errors.New("db gone")
	if err := s.Refresh(context.Background(), fakeSource{err: wantErr}); !errors.Is(err, wantErr) {
		t.Errorf("Refresh error = %v, want %v", err, wantErr)
	}
	// Failed refresh keeps the previous candidates.
	if got := s.Candidates(); len(got) != len(testCodes) {
		t.Errorf("Candidates after failed refresh = %v", got)
	}
}

func TestDefaults(t *testing.T) {
	s := NewSuggester(-1, 0)
	if s.MaxDistance() != 3 {
		t.Errorf("MaxDistance default = %d", s.MaxDistance())
	}
	if s.Limit() != 24 {
		t.Errorf("Limit default = %d", s.Limit())
	}

	// Zero is a legitimate distance budget, not a missing one.
	s = NewSuggester(0, 5)
	if s.MaxDistance() != 0 {
		t.Errorf("MaxDistance(0) = %d", s.MaxDistance())
	}
}
