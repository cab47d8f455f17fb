// sudoku-solver - a Sudoku grid solving library and web service.
// Copyright (C) 2016 Laurent Farhi.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

package solver

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

/*

Solve requests

*/

// A SolveRequest is the posted body of a solve request.  Method
// defaults to elimination and Scope to first.  Messages up to
// Verbosity are collected into the response; set it negative to
// collect none.
type SolveRequest struct {
	Values    [][]int `json:"values"`
	Method    string  `json:"method,omitempty"`
	Scope     string  `json:"scope,omitempty"`
	Verbosity int     `json:"verbosity"`
}

// Signature computes a stable hex digest of a solve request.
// Two requests that name the same grid, method, and scope get
// the same signature, whatever the spelling of the method and
// scope names.  Verbosity does not participate.  Fails if the
// method or scope name is unknown.
func (req *SolveRequest) Signature() (string, error) {
	method, err := ParseMethod(req.Method)
	if err != nil {
		return "", err
	}
	scope, err := ParseScope(req.Scope)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%d", method, scope, len(req.Values))
	for _, row := range req.Values {
		for _, v := range row {
			fmt.Fprintf(h, "|%d", v)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// A SolveResponse reports the outcome of a solve.  Code is the
// conventional return code of the effective method (0 when no
// solution exists, 1 for elimination, 2 for backtracking, 3 for
// exact cover).
type SolveResponse struct {
	Method    string    `json:"method"`
	Code      int       `json:"code"`
	Counters  Counters  `json:"counters"`
	Solutions [][][]int `json:"solutions,omitempty"`
	Messages  []string  `json:"messages,omitempty"`
}

// ParseMethod reads the textual form of a Method.  The empty
// string selects Elimination.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "elimination":
		return Elimination, nil
	case "none":
		return None, nil
	case "backtracking":
		return Backtracking, nil
	case "exactcover", "exact cover", "exact-cover":
		return ExactCover, nil
	}
	return None, Error{
		Scope:     ArgumentScope,
		Structure: AttributeValueStructure,
		Attribute: MethodAttribute,
		Condition: UnknownMethodCondition,
		Values:    ErrorData{s},
	}
}

// ParseScope reads the textual form of a Scope.  The empty string
// selects First.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return First, nil
	case "all":
		return All, nil
	}
	return First, Error{
		Scope:     ArgumentScope,
		Structure: AttributeValueStructure,
		Attribute: ScopeAttribute,
		Condition: UnknownScopeCondition,
		Values:    ErrorData{s},
	}
}

// SolveHandler is a POST handler that reads a JSON-encoded
// SolveRequest from the request body and solves it on a fresh
// session.  The SolveResponse is sent as a 200 response and also
// returned to the golang caller.  Malformed bodies and invalid
// grids get a 400 response carrying the JSON form of the Error.
//
// If we can't encode the response to the client (which should
// never happen), then the client gets an error response and the
// golang caller gets both the response and the encoding Error (as
// a signal that the client didn't get the correct response).
func SolveHandler(w http.ResponseWriter, r *http.Request) (*SolveResponse, error) {
	dec := json.NewDecoder(r.Body)
	var req SolveRequest
	if e := dec.Decode(&req); e != nil {
		return nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
	}
	method, e := ParseMethod(req.Method)
	if e != nil {
		err := e.(Error)
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusBadRequest, w, r)
	}
	scope, e := ParseScope(req.Scope)
	if e != nil {
		err := e.(Error)
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusBadRequest, w, r)
	}

	ses := NewSession()
	var solutions [][][]int
	ses.OnSolved(func(st GridState) {
		solutions = append(solutions, st.Values())
	})
	var messages []string
	if req.Verbosity >= 0 {
		ses.OnMessage(func(m Message) {
			if m.Verbosity <= req.Verbosity {
				messages = append(messages, m.Text)
			}
		})
	}
	effective, e := ses.Solve(req.Values, method, scope)
	if e != nil {
		err, ok := e.(Error)
		if !ok {
			return nil, writeError(errorFormatError, ErrorData{"SolveHandler", e.Error()}, w, r)
		}
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusBadRequest, w, r)
	}
	resp := &SolveResponse{
		Method:    effective.String(),
		Code:      int(effective),
		Counters:  ses.Counters(),
		Solutions: solutions,
		Messages:  messages,
	}
	return resp, writeJSON(resp, http.StatusOK, w, r)
}

/*

Utilities

*/

type handlerError int

const (
	requestDecodingError handlerError = iota
	responseEncodingError
	errorFormatError
)

// writeError sends back a server error of the given type, sort
// of like http.Error, but it sends the JSON form of an
// appropriate Error.
func writeError(et handlerError, ed ErrorData,
	w http.ResponseWriter, r *http.Request) error {
	var err Error
	var status int
	switch et {
	case requestDecodingError:
		status = http.StatusBadRequest
		err = Error{
			Scope:     RequestScope,
			Structure: AttributeStructure,
			Attribute: DecodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case responseEncodingError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: EncodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case errorFormatError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: LocationAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	default:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Condition: GeneralCondition,
			Values:    ed,
		}
	}
	err.Message = err.Error()
	if e := writeJSON(err, status, w, r); e != nil {
		return e
	}
	return err
}

// writeJSON sends an arbitrary value as a JSON response with the
// given status code.  An encoding failure is reported to both the
// client and the caller.
func writeJSON(v interface{}, status int,
	w http.ResponseWriter, r *http.Request) error {
	body, e := json.Marshal(v)
	if e != nil {
		http.Error(w, e.Error(), http.StatusInternalServerError)
		return Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: EncodeAttribute,
			Condition: GeneralCondition,
			Values:    ErrorData{e.Error()},
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
	return nil
}
