package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Dwain-Anderson/cu-prelim-planner/internal/store"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/suggest"
)

// Server handles the IPC for course-code suggestions and exam lookups.
type Server struct {
	suggester *suggest.Suggester
	store     store.Store
	dec       *msgpack.Decoder
	enc       *msgpack.Encoder
	maxQuery  int
	maxLimit  int
}

// NewServer creates a suggestion server using stdin/stdout for IPC.
func NewServer(suggester *suggest.Suggester, st store.Store, maxQuery, maxLimit int) *Server {
	return NewServerIO(suggester, st, maxQuery, maxLimit, os.Stdin, os.Stdout)
}

// NewServerIO is NewServer with an explicit transport, for tests.
func NewServerIO(suggester *suggest.Suggester, st store.Store, maxQuery, maxLimit int, r io.Reader, w io.Writer) *Server {
	if maxQuery < 1 {
		maxQuery = 60
	}
	if maxLimit < 1 {
		maxLimit = 64
	}
	return &Server{
		suggester: suggester,
		store:     st,
		dec:       msgpack.NewDecoder(r),
		enc:       msgpack.NewEncoder(w),
		maxQuery:  maxQuery,
		maxLimit:  maxLimit,
	}
}

// Start begins listening for IPC requests. It returns nil on EOF.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting IPC server.")

	s.send(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	switch req.Op {
	case "suggest":
		s.handleSuggest(req, false)
	case "complete":
		s.handleSuggest(req, true)
	case "lookup":
		s.handleLookup(ctx, req)
	case "courses":
		s.handleCourses(req)
	case "refresh":
		s.handleRefresh(ctx, req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
	}
}

// handleSuggest answers both the tolerant filter ("suggest") and the
// plain prefix walk ("complete"). An empty query is not an error: the
// filter contract says it yields an empty result.
func (s *Server) handleSuggest(req Request, prefixOnly bool) {
	if len(req.Query) > s.maxQuery {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.maxQuery), 400)
		log.Debug("Query too long in request", "id", req.ID)
		return
	}

	limit := req.Limit
	if limit < 1 || limit > s.maxLimit {
		limit = s.maxLimit
	}

	start := time.Now()
	var results []suggest.Suggestion
	if prefixOnly {
		results = s.suggester.Complete(req.Query, limit)
	} else {
		results = s.suggester.Suggest(req.Query)
		if len(results) > limit {
			results = results[:limit]
		}
	}
	elapsed := time.Since(start)

	entries := make([]SuggestionEntry, len(results))
	for i, r := range results {
		entries[i] = SuggestionEntry{Code: r.Code, Rank: r.Rank}
	}

	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: entries,
		Count:       len(entries),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleLookup(ctx context.Context, req Request) {
	if req.Code == "" {
		s.sendError(req.ID, "Missing 'code' parameter", 400)
		return
	}
	exams, err := s.store.ExamsByCourse(ctx, req.Code)
	if err != nil {
		log.Errorf("Looking up %s: %v", req.Code, err)
		s.sendError(req.ID, "Lookup failed", 500)
		return
	}
	s.send(LookupResponse{ID: req.ID, Exams: exams, Count: len(exams)})
}

func (s *Server) handleCourses(req Request) {
	codes := s.suggester.Candidates()
	s.send(CoursesResponse{ID: req.ID, Codes: codes, Count: len(codes)})
}

func (s *Server) handleRefresh(ctx context.Context, req Request) {
	if err := s.suggester.Refresh(ctx, s.store); err != nil {
		log.Errorf("Refreshing candidates: %v", err)
		s.sendError(req.ID, "Refresh failed", 500)
		return
	}
	s.send(StatusResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
