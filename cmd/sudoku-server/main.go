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

// The sudoku-server command serves the solver over HTTP.  When
// Redis and Postgres are reachable, solve outcomes are archived
// and each browser session can list its recent solves; without
// them the server still solves, it just forgets.
package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/farhiongit/sudoku-solver/solver"
	"github.com/farhiongit/sudoku-solver/storage"
)

const (
	cookieName = "sudokuID"
	cookiePath = "/api/"
)

var (
	startTime  = time.Now()
	persistent = false // whether storage came up
)

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
//
// Browsers that reach the same endpoint over HTTP and HTTPS
// through a proxy look like different sessions even though the
// cookies are shared, so the transported protocol is part of the
// session ID and a cookie minted for one protocol is rejected
// for the other.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	proto := "httpx" // absent other indicators, protocol is unknown
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		proto = forwarded
	}

	// check for an existing cookie whose value matches the protocol
	if sc, e := r.Cookie(cookieName); e == nil {
		if m, e := regexp.MatchString(proto+"-[0-9a-z]{3,}", sc.Value); e == nil && m {
			return sc.Value
		}
	}

	// no session cookie or not a valid session cookie,
	// start a new session with a new cookie
	sid := proto + "-" + strconv.FormatInt(int64(time.Now().Sub(startTime)), 36)
	sc := &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath}
	http.SetCookie(w, sc)
	return sid
}

// solveHandler runs a solve and, when storage is up, archives
// the outcome under the browser's session.
func solveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sid := getCookie(w, r)

	// the handler consumes the body; keep a copy for the archive
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Unreadable request body", http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	resp, err := solver.SolveHandler(w, r)
	if err != nil {
		log.Printf("Solve for session %v failed: %v", sid, err)
		return
	}
	if resp == nil {
		// a client error was already reported
		return
	}
	log.Printf("Solved for session %v: method %q, %d solutions.",
		sid, resp.Method, resp.Counters.Solutions)

	if !persistent {
		return
	}
	req := &solver.SolveRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		log.Printf("Couldn't reread request for session %v: %v", sid, err)
		return
	}
	rec, err := storage.RecordResponse(req, resp)
	if err != nil {
		log.Printf("Couldn't archive solve for session %v: %v", sid, err)
		return
	}
	storage.LoadSession(sid).AddSolve(rec.Signature)
}

// recentHandler returns the archived records of the session's
// recent solves, oldest first.
func recentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sid := getCookie(w, r)
	records := []*storage.SolveRecord{}
	if persistent {
		for _, sig := range storage.LoadSession(sid).RecentSolves() {
			rec, err := storage.LoadRecord(sig)
			if err != nil {
				log.Printf("Couldn't load record %q for session %v: %v", sig, sid, err)
				continue
			}
			if rec != nil {
				records = append(records, rec)
			}
		}
	}
	body, err := json.Marshal(records)
	if err != nil {
		log.Printf("Couldn't encode history for session %v: %v", sid, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// guard wraps a handler against panics leaking out of a request.
func guard(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if e := recover(); e != nil {
				log.Printf("Panic handling %s %s: %v", r.Method, r.URL.Path, e)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		log.Printf("Handling %s %s...", r.Method, r.URL.Path)
		h(w, r)
	}
}

func main() {
	if cacheId, databaseId, err := storage.Connect(); err != nil {
		log.Printf("Running without storage: %v", err)
	} else {
		persistent = true
		defer storage.Close()
		log.Printf("Connected to cache at %q and database at %q.", cacheId, databaseId)
	}

	http.HandleFunc("/api/solve", guard(solveHandler))
	http.HandleFunc("/api/recent", guard(recentHandler))

	// Heroku environment port sensing
	port := os.Getenv("PORT")
	if port == "" {
		// running locally in dev mode
		port = "localhost:8080"
	} else {
		// running as a true server
		port = ":" + port
	}

	log.Printf("Listening on %s...", port)
	err := http.ListenAndServe(port, nil)
	if err != nil {
		log.Fatal("Listener failure: ", err)
	}
}
