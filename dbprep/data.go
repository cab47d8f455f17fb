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

package dbprep

import (
	"fmt"
	"os"
	"time"

	"github.com/farhiongit/sudoku-solver/solver"
	"github.com/jackc/pgx"
)

/*

entries

*/

type dataFunction func(*pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertSamples,
	}
	downFunctions = []dataFunction{
		deleteSamples,
	}
)

// DataUp: load the sample data into the database.  You should do
// this after you get the schema up!
func DataUp() error {
	return applyFunctions(upFunctions)
}

// DataDown: remove the sample data from the database.  You
// should do this before you tear the schema down!
func DataDown() error {
	return applyFunctions(downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(fns []dataFunction) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/sudoku?sslmode=disable"
	}

	// open the database, defer the close
	cfg, err := pgx.ParseURI(url)
	if err != nil {
		return err
	}
	conn, err := pgx.Connect(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin()
		if err != nil {
			return err
		}
		defer func() {
			if e := recover(); e != nil {
				tx.Rollback()
				panic(e)
			}
		}()
		if err := fn(tx); err != nil {
			tx.Rollback()
			return err
		}
		return tx.Commit()
	}

	// run the functions
	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("%v failed: %v", fn, err)
		}
	}
	return nil
}

/*

sample solves

*/

// sampleGrids are pre-solved at load time, so a fresh install
// has warm archive entries for the grids the documentation and
// the demo client point at.
var sampleGrids = [][][]int{
	{
		{4, 0, 0, 0, 0, 3, 5, 0, 2},
		{0, 0, 9, 5, 0, 6, 3, 4, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 8},
		{0, 0, 0, 0, 3, 4, 8, 6, 0},
		{0, 0, 4, 6, 0, 5, 2, 0, 0},
		{0, 2, 8, 7, 9, 0, 0, 0, 0},
		{9, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 8, 7, 3, 0, 2, 9, 0, 0},
		{5, 0, 2, 9, 0, 0, 0, 0, 6},
	},
	{
		{0, 1, 0, 5, 0, 6, 0, 2, 0},
		{0, 0, 0, 0, 0, 3, 0, 1, 8},
		{0, 0, 0, 0, 7, 0, 0, 0, 6},
		{0, 0, 5, 0, 0, 0, 0, 3, 0},
		{0, 0, 8, 0, 9, 0, 7, 0, 0},
		{0, 6, 0, 0, 0, 0, 4, 0, 0},
		{5, 0, 0, 0, 4, 0, 0, 0, 0},
		{6, 4, 0, 2, 0, 0, 0, 0, 0},
		{0, 3, 0, 9, 0, 1, 0, 8, 0},
	},
	{
		{1, 0, 0, 0},
		{0, 0, 3, 0},
		{0, 4, 0, 0},
		{0, 0, 0, 2},
	},
}

// Create and insert the sample solve records
func insertSamples(tx *pgx.Tx) error {
	now := time.Now()
	for i, values := range sampleGrids {
		req := &solver.SolveRequest{Values: values}
		sig, err := req.Signature()
		if err != nil {
			return fmt.Errorf("Sample grid %d is invalid: %v", i, err)
		}

		// idempotency: skip samples that are already stored
		var count int64
		row := tx.QueryRow("SELECT COUNT(*) FROM solves "+
			"WHERE signature = $1", sig)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("Database error looking for sample %d: %v", i, err)
		}
		if count > 0 {
			continue
		}

		var solved []int32
		session := solver.NewSession()
		session.OnSolved(func(s solver.GridState) {
			if solved == nil {
				solved = flattenValues(s.Values())
			}
		})
		method, err := session.Solve(values, solver.Elimination, solver.First)
		if err != nil {
			return fmt.Errorf("Couldn't solve sample grid %d: %v", i, err)
		}
		counters := session.Counters()

		_, err = tx.Exec(
			"INSERT INTO solves (signature, sideLength, valueList, method, scope, "+
				"solutions, rules, hypotheses, solvedList, created) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
			sig, int32(len(values)), flattenValues(values),
			method.String(), solver.First.String(),
			int32(counters.Solutions), int32(counters.Rules),
			int32(counters.Hypotheses), solved, now)
		if err != nil {
			return fmt.Errorf("Database error saving sample solve %d: %v", i, err)
		}
	}
	return nil
}

// Remove the sample solve records
func deleteSamples(tx *pgx.Tx) error {
	for i, values := range sampleGrids {
		req := &solver.SolveRequest{Values: values}
		sig, err := req.Signature()
		if err != nil {
			return fmt.Errorf("Sample grid %d is invalid: %v", i, err)
		}
		if _, err := tx.Exec("DELETE FROM solves WHERE signature = $1", sig); err != nil {
			return fmt.Errorf("Database error deleting sample solve %d: %v", i, err)
		}
	}
	return nil
}

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
