// Package httpapi exposes the planner over HTTP: schedule scraping and
// population, exam CRUD, course listing, and the typeahead suggestion
// endpoint the picker UI polls on each keystroke.
package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Dwain-Anderson/cu-prelim-planner/internal/store"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/exam"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/suggest"
)

// StoreOpener resolves the store for a (semester, exam type) selection.
// Production wiring opens a sqlite table per schedule; tests substitute
// fixtures.
type StoreOpener func(semester string, typ exam.Type) (store.Store, error)

// Scraper fetches and parses a registrar schedule. Wraps
// registrar.Client so tests can avoid the network.
type Scraper func(ctx context.Context, semester string, typ exam.Type) ([]exam.Exam, error)

// API carries the handler dependencies.
type API struct {
	openStore StoreOpener
	scrape    Scraper
	suggester *suggest.Suggester
}

// New builds the API. The suggester is shared with the IPC server so
// both surfaces see the same candidate set.
func New(openStore StoreOpener, scrape Scraper, suggester *suggest.Suggester) *API {
	return &API{openStore: openStore, scrape: scrape, suggester: suggester}
}

// Router returns the configured gin engine.
func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/courses/exams/create", a.createExams)
	r.GET("/courses", a.listCourses)
	r.GET("/courses/suggest", a.suggestCourses)
	r.GET("/courses/exams/:code", a.getExams)
	r.PUT("/courses/exams/update/:code", a.updateExam)
	r.DELETE("/exams/delete/:code", a.deleteExam)

	return r
}

// selection resolves the semester/exam-type pair from query params or
// a JSON body and opens the matching store.
func (a *API) openSelection(c *gin.Context, semester, examType string) (store.Store, exam.Type, bool) {
	typ, err := exam.ParseType(examType)
	if err != nil {
		failure(c, err.Error())
		return nil, "", false
	}
	if semester == "" {
		failure(c, "missing semester")
		return nil, "", false
	}
	st, err := a.openStore(semester, typ)
	if err != nil {
		log.Errorf("opening store for %s/%s: %v", semester, typ, err)
		failure(c, err.Error())
		return nil, "", false
	}
	return st, typ, true
}

type createRequest struct {
	Semester string `json:"semester"`
	ExamType string `json:"exam_type"`
}

// createExams scrapes the registrar schedule for the requested
// selection and replaces the stored records with the result.
func (a *API) createExams(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, "invalid request body")
		return
	}

	st, typ, ok := a.openSelection(c, req.Semester, req.ExamType)
	if !ok {
		return
	}
	defer st.Close()

	exams, err := a.scrape(c.Request.Context(), req.Semester, typ)
	if err != nil {
		log.Errorf("scraping %s/%s: %v", req.Semester, typ, err)
		failure(c, err.Error())
		return
	}
	if err := st.ReplaceAll(c.Request.Context(), exams); err != nil {
		failure(c, err.Error())
		return
	}

	if err := a.suggester.Refresh(c.Request.Context(), st); err != nil {
		log.Warnf("refreshing candidates after create: %v", err)
	}

	success(c, "Exam data created successfully.")
}

func (a *API) listCourses(c *gin.Context) {
	st, _, ok := a.openSelection(c, c.Query("semester"), c.Query("exam_type"))
	if !ok {
		return
	}
	defer st.Close()

	codes, err := st.Courses(c.Request.Context())
	if err != nil {
		failure(c, err.Error())
		return
	}
	success(c, codes)
}

// suggestCourses is the typeahead endpoint: the caller sends the raw
// query on each input-change event and renders the returned codes as
// its suggestion list.
func (a *API) suggestCourses(c *gin.Context) {
	query := c.Query("q")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			failure(c, "invalid limit")
			return
		}
		limit = n
	}

	results := a.suggester.Suggest(query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	codes := make([]string, len(results))
	for i, r := range results {
		codes[i] = r.Code
	}
	success(c, codes)
}

func (a *API) getExams(c *gin.Context) {
	st, _, ok := a.openSelection(c, c.Query("semester"), c.Query("exam_type"))
	if !ok {
		return
	}
	defer st.Close()

	exams, err := st.ExamsByCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		failure(c, err.Error())
		return
	}
	success(c, exams)
}

type updateRequest struct {
	Semester    string    `json:"semester"`
	ExamType    string    `json:"exam_type"`
	NewExamData exam.Exam `json:"new_exam_data"`
}

func (a *API) updateExam(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, "invalid request body")
		return
	}

	st, _, ok := a.openSelection(c, req.Semester, req.ExamType)
	if !ok {
		return
	}
	defer st.Close()

	if err := st.UpdateExam(c.Request.Context(), c.Param("code"), req.NewExamData); err != nil {
		failure(c, err.Error())
		return
	}
	success(c, "Exam data updated successfully.")
}

func (a *API) deleteExam(c *gin.Context) {
	st, _, ok := a.openSelection(c, c.Query("semester"), c.Query("exam_type"))
	if !ok {
		return
	}
	defer st.Close()

	code := c.Param("code")
	if err := st.DeleteExam(c.Request.Context(), code); err != nil {
		failure(c, err.Error())
		return
	}
	success(c, "Exam data for course "+code+" deleted successfully.")
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func failure(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}
