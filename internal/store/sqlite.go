package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/exam"
)

// table names are derived from user-facing semester strings, so they
// get validated before being spliced into SQL.
var tableNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// SQLite implements Store on a single sqlite database file. One SQLite
// value is scoped to one schedule table; open another for a different
// semester or exam type on the same file.
type SQLite struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (creating if needed) the database at path and
// scopes the store to the schedule table for semester/year/type.
// Use path ":memory:" for an ephemeral database.
func OpenSQLite(path, semester, year string, typ exam.Type) (*SQLite, error) {
	table := exam.TableName(semester, year, typ)
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid schedule table name %q", table)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	log.Debugf("opened sqlite store %s (table %s)", path, table)
	return &SQLite{db: db, table: table}, nil
}

// Table returns the schedule table this store is scoped to.
func (s *SQLite) Table() string { return s.table }

func (s *SQLite) EnsureTable(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		course_code    TEXT NOT NULL,
		exam_date      TEXT NOT NULL,
		exam_time      TEXT NOT NULL DEFAULT '',
		test_type      TEXT NOT NULL DEFAULT '',
		exam_locations TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%s_course ON %s(course_code);`, s.table, s.table, s.table)

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLite) ReplaceAll(ctx context.Context, exams []exam.Exam) error {
	if err := s.EnsureTable(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("clearing table %s: %w", s.table, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (course_code, exam_date, exam_time, test_type, exam_locations)
		 VALUES (?, ?, ?, ?, ?)`, s.table))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range exams {
		if _, err := stmt.ExecContext(ctx, e.CourseCode, e.Date, e.Time, e.TestType, e.Locations); err != nil {
			return fmt.Errorf("inserting exam %s: %w", e.CourseCode, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing exams: %w", err)
	}
	log.Debugf("stored %d exams in %s", len(exams), s.table)
	return nil
}

func (s *SQLite) InsertExam(ctx context.Context, e exam.Exam) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (course_code, exam_date, exam_time, test_type, exam_locations)
		 VALUES (?, ?, ?, ?, ?)`, s.table),
		e.CourseCode, e.Date, e.Time, e.TestType, e.Locations)
	if err != nil {
		return fmt.Errorf("inserting exam %s: %w", e.CourseCode, err)
	}
	return nil
}

func (s *SQLite) ExamsByCourse(ctx context.Context, courseCode string) ([]exam.Exam, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT course_code, exam_date, exam_time, test_type, exam_locations
		 FROM %s WHERE course_code = ?`, s.table), courseCode)
	if err != nil {
		return nil, fmt.Errorf("fetching exams for %s: %w", courseCode, err)
	}
	defer rows.Close()
	return scanExams(rows)
}

func (s *SQLite) ExamsByCourses(ctx context.Context, courseCodes []string) ([]exam.Exam, error) {
	var exams []exam.Exam
	for _, code := range courseCodes {
		row := s.db.QueryRowContext(ctx, fmt.Sprintf(
			`SELECT course_code, exam_date, exam_time, test_type, exam_locations
			 FROM %s WHERE course_code = ? LIMIT 1`, s.table), code)

		var e exam.Exam
		err := row.Scan(&e.CourseCode, &e.Date, &e.Time, &e.TestType, &e.Locations)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetching exam for %s: %w", code, err)
		}
		exams = append(exams, e)
	}
	return exams, nil
}

func (s *SQLite) Courses(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT DISTINCT course_code FROM %s`, s.table))
	if err != nil {
		return nil, fmt.Errorf("fetching course codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning course code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (s *SQLite) UpdateExam(ctx context.Context, courseCode string, e exam.Exam) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET exam_date = ?, exam_time = ?, test_type = ?, exam_locations = ?
		 WHERE course_code = ?`, s.table),
		e.Date, e.Time, e.TestType, e.Locations, courseCode)
	if err != nil {
		return fmt.Errorf("updating exam %s: %w", courseCode, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no exam record for course %s", courseCode)
	}
	return nil
}

func (s *SQLite) DeleteExam(ctx context.Context, courseCode string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE course_code = ?`, s.table), courseCode)
	if err != nil {
		return fmt.Errorf("deleting exam %s: %w", courseCode, err)
	}
	return nil
}

func (s *SQLite) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("clearing table %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanExams(rows *sql.Rows) ([]exam.Exam, error) {
	var exams []exam.Exam
	for rows.Next() {
		var e exam.Exam
		if err := rows.Scan(&e.CourseCode, &e.Date, &e.Time, &e.TestType, &e.Locations); err != nil {
			return nil, fmt.Errorf("scanning exam row: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}
