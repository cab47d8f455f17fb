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

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/farhiongit/sudoku-solver/solver"
	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx"
)

/*

solve records

*/

// A SolveRecord is the stored outcome of a solve request.  It is
// JSON serializable so it can go into the cache as well as the
// database.  Signature identifies the request (grid, method, and
// scope); Solved holds the first solution found, in row-major
// order, or nil when the grid has none.
type SolveRecord struct {
	Signature  string
	SideLength int32
	Values     []int32
	Method     string
	Scope      string
	Solutions  int32
	Rules      int32
	Hypotheses int32
	Solved     []int32
	Created    time.Time
}

// Solve returns the stored record for a solve request, computing
// and storing it on first sight.  Repeated requests for the same
// grid, method, and scope never run the solver twice.  Storage
// failures come back as errors, not panics.
func Solve(req *solver.SolveRequest) (rec *SolveRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("Storage failure during solve: %v", r)
			}
		}
	}()

	sig, err := req.Signature()
	if err != nil {
		return nil, err
	}
	if rec, ok := loadRecord(sig); ok {
		return rec, nil
	}
	rec, err = computeRecord(sig, req)
	if err != nil {
		return nil, err
	}
	rec.save()
	return rec, nil
}

// RecordResponse stores the outcome of a solve that was already
// computed, typically by the web handler.  Returns the stored
// record, which may predate the response when the same request
// was seen before.
func RecordResponse(req *solver.SolveRequest, resp *solver.SolveResponse) (rec *SolveRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("Storage failure during record: %v", r)
			}
		}
	}()

	sig, err := req.Signature()
	if err != nil {
		return nil, err
	}
	if rec, ok := loadRecord(sig); ok {
		return rec, nil
	}
	scope, err := solver.ParseScope(req.Scope)
	if err != nil {
		return nil, err
	}
	var solved []int32
	if len(resp.Solutions) > 0 {
		solved = flattenValues(resp.Solutions[0])
	}
	rec = &SolveRecord{
		Signature:  sig,
		SideLength: int32(len(req.Values)),
		Values:     flattenValues(req.Values),
		Method:     resp.Method,
		Scope:      scope.String(),
		Solutions:  int32(resp.Counters.Solutions),
		Rules:      int32(resp.Counters.Rules),
		Hypotheses: int32(resp.Counters.Hypotheses),
		Solved:     solved,
		Created:    time.Now(),
	}
	rec.save()
	return rec, nil
}

// LoadRecord returns the stored record with the given signature,
// or nil when none is stored.  Storage failures come back as
// errors, not panics.
func LoadRecord(sig string) (rec *SolveRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("Storage failure during load: %v", r)
			}
		}
	}()
	rec, ok := loadRecord(sig)
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// computeRecord runs the solver on a request and shapes the
// outcome into a record.  The effective method is stored, so a
// grid submitted for elimination that needed hypotheses is
// recorded under backtracking.
func computeRecord(sig string, req *solver.SolveRequest) (*SolveRecord, error) {
	method, err := solver.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	scope, err := solver.ParseScope(req.Scope)
	if err != nil {
		return nil, err
	}

	var solved []int32
	session := solver.NewSession()
	session.OnSolved(func(s solver.GridState) {
		if solved == nil {
			solved = flattenValues(s.Values())
		}
	})
	effective, err := session.Solve(req.Values, method, scope)
	if err != nil {
		return nil, err
	}
	counters := session.Counters()
	return &SolveRecord{
		Signature:  sig,
		SideLength: int32(len(req.Values)),
		Values:     flattenValues(req.Values),
		Method:     effective.String(),
		Scope:      scope.String(),
		Solutions:  int32(counters.Solutions),
		Rules:      int32(counters.Rules),
		Hypotheses: int32(counters.Hypotheses),
		Solved:     solved,
		Created:    time.Now(),
	}, nil
}

// loadRecord first checks the cache, then the database, for the
// record with the given signature.  If it loads from the
// database, it caches the result.
func loadRecord(sig string) (*SolveRecord, bool) {
	rec := &SolveRecord{Signature: sig}
	if rec.cacheLoad() {
		return rec, true
	}
	// cache miss, try the database and save to cache on a hit
	if !rec.databaseLoad() {
		return nil, false
	}
	rec.cacheInsert()
	return rec, true
}

// save stores a freshly computed record in the database and the
// cache.
func (rec *SolveRecord) save() {
	rec.databaseInsert()
	rec.cacheInsert()
}

// SolvedValues returns the stored first solution as a grid of
// rows, or nil when no solution was found.
func (rec *SolveRecord) SolvedValues() [][]int {
	return unflattenValues(rec.Solved, int(rec.SideLength))
}

// GridValues returns the stored request grid as rows.
func (rec *SolveRecord) GridValues() [][]int {
	return unflattenValues(rec.Values, int(rec.SideLength))
}

// key: compute the cache key for a record.
func (rec *SolveRecord) key() string {
	return "SIG:" + rec.Signature
}

// cacheLoad: load an already cached record.  Returns whether the
// record was found in the cache.
func (rec *SolveRecord) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", rec.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading record %q: %v", rec.Signature, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var cached *SolveRecord
	err := json.Unmarshal(bytes, &cached)
	if err != nil {
		panic(fmt.Errorf("Failed to unmarshal record %q: %v", rec.Signature, err))
	}
	if cached.Signature != rec.Signature {
		panic(fmt.Errorf("Cached record (signature %q) found for signature %q!",
			cached.Signature, rec.Signature))
	}
	*rec = *cached
	return true
}

// databaseLoad: load a record from the database.  Returns
// whether a record with the given signature was stored.
func (rec *SolveRecord) databaseLoad() bool {
	found := true
	body := func(tx *pgx.Tx) error {
		row := tx.QueryRow(
			"SELECT sideLength, valueList, method, scope, "+
				"solutions, rules, hypotheses, solvedList, created "+
				"FROM solves WHERE signature = $1", rec.Signature)
		err := row.Scan(&rec.SideLength, &rec.Values, &rec.Method, &rec.Scope,
			&rec.Solutions, &rec.Rules, &rec.Hypotheses, &rec.Solved, &rec.Created)
		if err == pgx.ErrNoRows {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failure looking up record %q: %v", rec.Signature, err)
		}
		return nil
	}
	pgExecute(body)
	return found
}

// cacheInsert: insert a record into the cache.  Replaces any
// existing record with the same signature.
func (rec *SolveRecord) cacheInsert() {
	bytes, e := json.Marshal(rec)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal record %q: %v", rec.Signature, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", rec.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving record %q: %v", rec.Signature, err)
		}
		return
	}
	rdExecute(body)
}

// databaseInsert: insert a new record into the database.  Panics
// if there is already a stored record with the same signature.
func (rec *SolveRecord) databaseInsert() {
	body := func(tx *pgx.Tx) (err error) {
		_, err = tx.Exec(
			"INSERT INTO solves (signature, sideLength, valueList, method, scope, "+
				"solutions, rules, hypotheses, solvedList, created) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
			rec.Signature, rec.SideLength, rec.Values, rec.Method, rec.Scope,
			rec.Solutions, rec.Rules, rec.Hypotheses, rec.Solved, rec.Created)
		if err != nil {
			err = fmt.Errorf("Database error saving record %q: %v", rec.Signature, err)
		}
		return
	}
	pgExecute(body)
}

/*

value helpers

*/

// flattenValues turns rows into the row-major 4-byte form used
// in the database.
func flattenValues(values [][]int) []int32 {
	flat := make([]int32, 0, len(values)*len(values))
	for _, row := range values {
		for _, v := range row {
			flat = append(flat, int32(v))
		}
	}
	return flat
}

// unflattenValues turns the stored row-major form back into
// rows.  Returns nil for an empty list.
func unflattenValues(flat []int32, sidelen int) [][]int {
	if len(flat) == 0 || sidelen == 0 {
		return nil
	}
	values := make([][]int, sidelen)
	for i := range values {
		row := make([]int, sidelen)
		for j := range row {
			row[j] = int(flat[i*sidelen+j])
		}
		values[i] = row
	}
	return values
}
