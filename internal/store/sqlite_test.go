package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/exam"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:", "Fall 2024", "2024", exam.Prelim)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.EnsureTable(context.Background()))
	return s
}

var testExams = []exam.Exam{
	{CourseCode: "CS 2110", Date: "03/12/2024", Locations: "Barton Hall"},
	{CourseCode: "CS 2800", Date: "03/14/2024", Locations: "Statler Aud"},
	{CourseCode: "MATH 1920", Date: "03/10/2024", Locations: "Malott 228"},
	{CourseCode: "CS 2110", Date: "04/18/2024", Locations: "Uris G01"},
}

func TestOpenSQLiteRejectsBadTableName(t *testing.T) {
	_, err := OpenSQLite(":memory:", "Fall; DROP TABLE x", "2024", exam.Prelim)
	assert.Error(t, err)
}

func TestTableName(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "fall_2024_prelim_exams", s.Table())
}

func TestReplaceAllAndFetch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, testExams))

	exams, err := s.ExamsByCourse(ctx, "CS 2110")
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, "Barton Hall", exams[0].Locations)
	assert.Equal(t, "Uris G01", exams[1].Locations)

	none, err := s.ExamsByCourse(ctx, "PHYS 1112")
	require.NoError(t, err)
	assert.Empty(t, none)

	// A second ReplaceAll fully supersedes the first.
	require.NoError(t, s.ReplaceAll(ctx, testExams[:1]))
	codes, err := s.Courses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS 2110"}, codes)
}

func TestCourses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, testExams))

	codes, err := s.Courses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS 2110", "CS 2800", "MATH 1920"}, codes)
}

func TestExamsByCourses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, testExams))

	exams, err := s.ExamsByCourses(ctx, []string{"CS 2800", "PHYS 1112", "MATH 1920"})
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, "CS 2800", exams[0].CourseCode)
	assert.Equal(t, "MATH 1920", exams[1].CourseCode)
}

func TestUpdateExam(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertExam(ctx, testExams[0]))
	require.NoError(t, s.UpdateExam(ctx, "CS 2110", exam.Exam{
		Date:      "03/20/2024",
		Locations: "Klarman KG70",
	}))

	exams, err := s.ExamsByCourse(ctx, "CS 2110")
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, "03/20/2024", exams[0].Date)
	assert.Equal(t, "Klarman KG70", exams[0].Locations)

	err = s.UpdateExam(ctx, "NOPE 0000", exam.Exam{Date: "x"})
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, testExams))
	require.NoError(t, s.DeleteExam(ctx, "CS 2110"))

	codes, err := s.Courses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS 2800", "MATH 1920"}, codes)

	require.NoError(t, s.DeleteAll(ctx))
	codes, err = s.Courses(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestFinalExamFieldsRoundTrip(t *testing.T) {
	s, err := OpenSQLite(":memory:", "Spring 2024", "2024", exam.Final)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx))

	in := exam.Exam{
		CourseCode: "PHYS 2213",
		Date:       "05/14/2024",
		Time:       "9:00 AM",
		TestType:   "In Person",
		Locations:  "Rockefeller 201",
	}
	require.NoError(t, s.InsertExam(ctx, in))

	out, err := s.ExamsByCourse(ctx, "PHYS 2213")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in, out[0])
}
