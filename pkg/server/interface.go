/*
Package server implements msgpack IPC for the exam planner's typeahead
and lookup services.

The server provides a minimal interface for course-code suggestion and
exam lookup using msgpack serialization over stdin/stdout.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message carries an ID, an op, and op-specific fields.

Suggestion requests look like:

	{"id": "req_001", "op": "suggest", "q": "cs21", "l": 10}

The server responds with the matched course codes in candidate order:

	{"id": "req_001", "s": [{"code": "CS 2110", "r": 1}], "c": 1, "t": 104}

A keystroke with an empty query is valid and returns an empty result
set, mirroring the filter contract.

Lookup requests resolve a selected code to its full exam records:

	{"id": "req_002", "op": "lookup", "code": "CS 2110"}

Other ops: "complete" (plain prefix walk), "courses" (full candidate
list), "refresh" (re-pull candidates from the store), "health".
Unknown ops produce an error message {"id", "e", "c"}.
*/
package server

import "github.com/Dwain-Anderson/cu-prelim-planner/pkg/exam"

// Request is the envelope every client message uses. Fields beyond ID
// and Op are op-specific and may be omitted.
type Request struct {
	ID    string `msgpack:"id"`
	Op    string `msgpack:"op"`
	Query string `msgpack:"q,omitempty"`
	Code  string `msgpack:"code,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
}

// SuggestionEntry is one matched course code.
type SuggestionEntry struct {
	Code string `msgpack:"code"`
	Rank int    `msgpack:"r"`
}

// SuggestResponse answers "suggest" and "complete" ops.
type SuggestResponse struct {
	ID          string            `msgpack:"id"`
	Suggestions []SuggestionEntry `msgpack:"s"`
	Count       int               `msgpack:"c"`
	TimeTaken   int64             `msgpack:"t"`
}

// LookupResponse answers "lookup" with the full exam records for the
// selected course code.
type LookupResponse struct {
	ID    string      `msgpack:"id"`
	Exams []exam.Exam `msgpack:"exams"`
	Count int         `msgpack:"c"`
}

// CoursesResponse answers "courses" with the full candidate list.
type CoursesResponse struct {
	ID    string   `msgpack:"id"`
	Codes []string `msgpack:"codes"`
	Count int      `msgpack:"c"`
}

// StatusResponse answers "health" and "refresh".
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
