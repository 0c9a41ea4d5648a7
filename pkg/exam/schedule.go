package exam

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseSchedule reads the plain-text schedule body the registrar
// publishes inside its <pre> block and returns one Exam per line.
//
// Each line is whitespace-separated. The course code is normally two
// tokens ("CS 2110") but gains a third when the row names a lecture
// section ("CS 2110 LEC"); section tokens are always three characters,
// which is the check the scraper has always relied on. Prelim rows
// follow with a date and the remaining tokens as locations. Final rows
// follow with a date, a two-token time, a two-token test type, then
// locations.
//
// The semester header line and blank lines are skipped. Lines with too
// few tokens to split are skipped with a warning rather than failing
// the whole schedule.
func ParseSchedule(r io.Reader, typ Type, semester string) ([]Exam, error) {
	if typ != Prelim && typ != Final {
		return nil, fmt.Errorf("unknown exam type %q", typ)
	}

	var exams []Exam
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, semester) {
			continue
		}

		parts := strings.Fields(line)
		e, ok := parseLine(parts, typ)
		if !ok {
			log.Warnf("skipping malformed schedule line %d: %q", lineNo, line)
			continue
		}
		exams = append(exams, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	return exams, nil
}

func parseLine(parts []string, typ Type) (Exam, bool) {
	minLen := 4
	if typ == Final {
		minLen = 8
	}
	if len(parts) < minLen {
		return Exam{}, false
	}

	// Course codes with a lecture section carry a 3-char third token.
	codeTokens := 2
	if len(parts[2]) == 3 {
		codeTokens = 3
		if len(parts) < minLen+1 {
			return Exam{}, false
		}
	}

	e := Exam{
		CourseCode: strings.Join(parts[:codeTokens], " "),
		Date:       parts[codeTokens],
	}
	rest := parts[codeTokens+1:]

	if typ == Final {
		e.Time = strings.Join(rest[:2], " ")
		e.TestType = strings.Join(rest[2:4], " ")
		rest = rest[4:]
	}
	e.Locations = strings.Join(rest, " ")
	return e, true
}
