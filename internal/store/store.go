// Package store persists scraped exam schedules. Each (semester, year,
// exam type) combination gets its own table, mirroring how the
// registrar publishes one schedule per term.
package store

import (
	"context"

	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/exam"
)

// Store is the persistence surface the servers and the scrape path use.
type Store interface {
	// EnsureTable creates the schedule's table if it does not exist.
	EnsureTable(ctx context.Context) error

	// ReplaceAll drops the current rows and inserts the given exams in
	// one transaction. Used after a fresh scrape.
	ReplaceAll(ctx context.Context, exams []exam.Exam) error

	// InsertExam adds a single exam record.
	InsertExam(ctx context.Context, e exam.Exam) error

	// ExamsByCourse returns all records for one course code.
	ExamsByCourse(ctx context.Context, courseCode string) ([]exam.Exam, error)

	// ExamsByCourses returns the first record for each given code,
	// skipping codes with no record.
	ExamsByCourses(ctx context.Context, courseCodes []string) ([]exam.Exam, error)

	// Courses returns the distinct course codes, in insertion order.
	Courses(ctx context.Context) ([]string, error)

	// UpdateExam rewrites the record(s) for a course code.
	UpdateExam(ctx context.Context, courseCode string, e exam.Exam) error

	// DeleteExam removes the record(s) for a course code.
	DeleteExam(ctx context.Context, courseCode string) error

	// DeleteAll clears the table.
	DeleteAll(ctx context.Context) error

	Close() error
}
