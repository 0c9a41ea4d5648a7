// Package registrar fetches the published exam schedule pages and
// extracts the raw schedule text they carry in a <pre> block.
package registrar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/exam"
)

// DefaultBaseURL is the registrar's exam schedule index.
const DefaultBaseURL = "https://registrar.cornell.edu/exams"

// Schedule is one scraped schedule page: the header line from the
// <pre> block, the body text below it, and the year pulled from the
// page's semester heading.
type Schedule struct {
	Semester string
	Type     exam.Type
	Year     string
	Header   string
	Body     string
}

// Client fetches schedule pages for one semester and exam type.
type Client struct {
	baseURL  string
	semester string
	examType exam.Type
	httpc    *http.Client
}

// NewClient builds a client for the given semester ("Fall 2024") and
// exam type. An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, semester string, typ exam.Type) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		semester: semester,
		examType: typ,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// URL returns the schedule page address, e.g.
// <base>/fall-2024-prelim-exam-schedule.
func (c *Client) URL() string {
	return fmt.Sprintf("%s/%s-%s-exam-schedule", c.baseURL, exam.SemesterSlug(c.semester), c.examType)
}

// Fetch downloads and parses the schedule page.
func (c *Client) Fetch(ctx context.Context) (*Schedule, error) {
	url := c.URL()
	log.Debugf("fetching schedule from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	return c.parsePage(resp.Body)
}

func (c *Client) parsePage(r io.Reader) (*Schedule, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule page: %w", err)
	}

	pre := findElement(doc, "pre")
	if pre == nil {
		return nil, fmt.Errorf("schedule page has no <pre> block")
	}

	sched := &Schedule{
		Semester: c.semester,
		Type:     c.examType,
	}

	// The <pre> opens with a <strong> header line; everything after it
	// is the schedule body.
	if strong := findElement(pre, "strong"); strong != nil {
		sched.Header = strings.TrimSpace(textContent(strong))
		body := strings.Replace(textContent(pre), textContent(strong), "", 1)
		sched.Body = strings.TrimSpace(body)
	} else {
		sched.Body = strings.TrimSpace(textContent(pre))
	}

	if h2 := findElement(doc, "h2"); h2 != nil {
		heading := strings.TrimSpace(textContent(h2))
		if fields := strings.Fields(heading); len(fields) >= 2 {
			sched.Year = fields[1]
		}
	}
	if sched.Year == "" {
		sched.Year = exam.SemesterYear(c.semester)
	}
	return sched, nil
}

// Exams parses the schedule body into exam records.
func (s *Schedule) Exams() ([]exam.Exam, error) {
	return exam.ParseSchedule(strings.NewReader(s.Body), s.Type, s.Semester)
}

// SnapshotName is the on-disk name for a raw schedule snapshot,
// e.g. "fall-2024-prelim-exams.txt".
func (s *Schedule) SnapshotName() string {
	season := strings.ToLower(strings.TrimSpace(s.Semester))
	if fields := strings.Fields(season); len(fields) > 0 {
		season = fields[0]
	}
	return fmt.Sprintf("%s-%s-%s-exams.txt", season, s.Year, s.Type)
}

// Save writes the raw schedule text under dir so a scrape can be
// inspected or re-parsed later without hitting the registrar again.
func (s *Schedule) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := filepath.Join(dir, s.SnapshotName())
	content := s.Body
	if s.Header != "" {
		content = s.Header + "\n" + content
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	log.Debugf("saved schedule snapshot to %s", path)
	return path, nil
}

// findElement walks the node tree depth-first for the first element
// with the given tag.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
