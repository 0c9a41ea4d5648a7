// Package cli handles interactive course-code queries for testing the
// typeahead behavior from a terminal.
package cli

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Dwain-Anderson/cu-prelim-planner/internal/logger"
	"github.com/Dwain-Anderson/cu-prelim-planner/internal/store"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/suggest"
)

var (
	codeStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#9ccfd8"})
	detailStyle = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"})
)

// InputHandler reads course-code queries from stdin and prints the
// matching suggestions, resolving a unique match to its full exam
// record.
type InputHandler struct {
	suggester   *suggest.Suggester
	store       store.Store
	log         *log.Logger
	maxQueryLen int
	limit       int
	requestN    int
}

// NewInputHandler handles initialization of the InputHandler
func NewInputHandler(suggester *suggest.Suggester, st store.Store, maxQueryLen, limit int) *InputHandler {
	if limit < 1 {
		limit = 24
	}
	return &InputHandler{
		suggester:   suggester,
		store:       st,
		log:         logger.New("cli"),
		maxQueryLen: maxQueryLen,
		limit:       limit,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and
// passes the trimmed query to handleQuery. The loop terminates when
// stdin closes or a read fails.
func (h *InputHandler) Start(ctx context.Context) error {
	h.log.Print("prelim-planner CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a partial course code and press Enter (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleQuery(ctx, query)
	}
}

func (h *InputHandler) handleQuery(ctx context.Context, query string) {
	h.requestN++

	if len(query) > h.maxQueryLen {
		h.log.Errorf("Query too long: %s", query)
		return
	}

	start := time.Now()
	suggestions := h.suggester.Suggest(query)
	if len(suggestions) > h.limit {
		suggestions = suggestions[:h.limit]
	}
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(suggestions) == 0 {
		h.log.Warnf("No matching courses for '%s'", query)
		return
	}

	h.log.Printf("Found %d matching courses for '%s':", len(suggestions), query)
	for _, s := range suggestions {
		h.log.Printf("%2d. %s", s.Rank, codeStyle.Render(s.Code))
	}

	// A single match is treated as a selection and looked up in full.
	if len(suggestions) == 1 {
		h.showExam(ctx, suggestions[0].Code)
	}
}

func (h *InputHandler) showExam(ctx context.Context, code string) {
	exams, err := h.store.ExamsByCourse(ctx, code)
	if err != nil {
		h.log.Errorf("Looking up %s: %v", code, err)
		return
	}
	for _, e := range exams {
		line := e.Date
		if e.Time != "" {
			line += " " + e.Time
		}
		if e.TestType != "" {
			line += " (" + e.TestType + ")"
		}
		line += " @ " + e.Locations
		h.log.Printf("    %s", detailStyle.Render(line))
	}
}
