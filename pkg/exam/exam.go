// Package exam defines the course exam records the planner works with
// and parsing for the registrar's published schedule text.
package exam

import (
	"fmt"
	"strings"
)

// Type is the kind of exam schedule being handled.
type Type string

const (
	Prelim Type = "prelim"
	Final  Type = "final"
)

// ParseType validates a raw exam type string.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Prelim:
		return Prelim, nil
	case Final:
		return Final, nil
	default:
		return "", fmt.Errorf("unknown exam type %q", s)
	}
}

// Exam is one scheduled exam record. Time and TestType are only set
// for final exams; prelim rows carry code, date and locations.
type Exam struct {
	CourseCode string `json:"course_code"`
	Date       string `json:"exam_date"`
	Time       string `json:"exam_time,omitempty"`
	TestType   string `json:"test_type,omitempty"`
	Locations  string `json:"exam_locations"`
}

// MatchKey exposes the course code for typeahead filtering.
func (e Exam) MatchKey() string { return e.CourseCode }

// SemesterSlug turns "Fall 2024" into "fall-2024", the form the
// registrar uses in its schedule URLs.
func SemesterSlug(semester string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(semester)), " ", "-")
}

// SemesterYear pulls the year out of a "Fall 2024" style semester
// string. Returns an empty string when there is no second field.
func SemesterYear(semester string) string {
	fields := strings.Fields(semester)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// TableName builds the per-schedule table name, e.g.
// "fall_2024_prelim_exams".
func TableName(semester, year string, typ Type) string {
	season := strings.ToLower(strings.TrimSpace(semester))
	if fields := strings.Fields(season); len(fields) > 0 {
		season = fields[0]
	}
	return fmt.Sprintf("%s_%s_%s_exams", season, year, typ)
}
