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

// The sudoku-cli command solves one grid read from a file or
// standard input and reports how it went in its exit status:
// 0 when the grid has no solution, 1 when elimination alone
// solved it, 2 when backtracking was needed, 3 when exact cover
// search was used.  Usage errors and unreadable grids exit
// with status 4.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/farhiongit/sudoku-solver/solver"
)

var (
	methodName = flag.String("method", "", "solving method: none, elimination, backtracking, or exactcover")
	scopeName  = flag.String("scope", "", "solving scope: first or all")
	verbosity  = flag.Int("verbosity", 0, "print rule messages up to this level")
)

const usageExit = 4

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] [grid-file]\n", os.Args[0])
	flag.PrintDefaults()
	os.Exit(usageExit)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	in := os.Stdin
	switch flag.NArg() {
	case 0:
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Can't open grid: %v\n", err)
			os.Exit(usageExit)
		}
		defer f.Close()
		in = f
	default:
		usage()
	}

	values, err := readGrid(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't read grid: %v\n", err)
		os.Exit(usageExit)
	}
	method, err := solver.ParseMethod(*methodName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(usageExit)
	}
	scope, err := solver.ParseScope(*scopeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(usageExit)
	}

	session := solver.NewSession()
	session.OnMessage(func(m solver.Message) {
		if m.Verbosity <= *verbosity {
			fmt.Println(m.Text)
		}
	})
	effective, err := session.Solve(values, method, scope)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(usageExit)
	}
	os.Exit(int(effective))
}

// readGrid parses a grid, one row per line.  A row is either a
// run of cell characters ('.' or 0 for empty, 1-9 and a-p for
// values) or whitespace-separated numbers, which is the only way
// to write grids larger than 25 values per cell character.
// Blank lines and lines starting with '#' are skipped.
func readGrid(in io.Reader) ([][]int, error) {
	var values [][]int
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := readRow(line)
		if err != nil {
			return nil, err
		}
		values = append(values, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no grid rows found")
	}
	return values, nil
}

func readRow(line string) ([]int, error) {
	if strings.ContainsAny(line, " \t") {
		fields := strings.Fields(line)
		row := make([]int, len(fields))
		for i, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("bad cell %q: %v", field, err)
			}
			row[i] = v
		}
		return row, nil
	}
	row := make([]int, len(line))
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '.' || c == '0':
			row[i] = 0
		case c >= '1' && c <= '9':
			row[i] = int(c - '0')
		case c >= 'a' && c <= 'p':
			row[i] = int(c-'a') + 10
		default:
			return nil, fmt.Errorf("bad cell character %q", c)
		}
	}
	return row, nil
}
