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
	"log"
	"time"

	"github.com/gomodule/redigo/redis"
)

// recentLimit bounds the per-session history of solve
// signatures.
const recentLimit = 20

// A Session tracks one browser's recent solve requests.  It
// lives only in the cache: sessions are working state, not
// archival data, so losing them to a cache flush is acceptable.
type Session struct {
	SID      string // session ID
	Created  string // RFC3339 time when the session was created
	LastSeen string // RFC3339 time of the last request
}

// LoadSession returns the session with the given id, creating
// and saving a fresh one if the cache has none.
func LoadSession(sid string) *Session {
	session := &Session{SID: sid}
	if session.cacheLoad() {
		session.LastSeen = time.Now().Format(time.RFC3339)
		session.cacheSave()
		return session
	}
	now := time.Now().Format(time.RFC3339)
	session.Created, session.LastSeen = now, now
	session.cacheSave()
	log.Printf("Started session %v.", session.SID)
	return session
}

// AddSolve appends a solve signature to the session history,
// keeping only the most recent entries.
func (session *Session) AddSolve(signature string) {
	body := func(tx redis.Conn) (err error) {
		tx.Send("RPUSH", session.solvesKey(), signature)
		_, err = tx.Do("LTRIM", session.solvesKey(), -recentLimit, -1)
		if err != nil {
			log.Printf("Redis error on history save for session %q: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
}

// RecentSolves returns the session's solve signatures, oldest
// first.
func (session *Session) RecentSolves() []string {
	var signatures []string
	body := func(tx redis.Conn) (err error) {
		signatures, err = redis.Strings(tx.Do("LRANGE", session.solvesKey(), 0, -1))
		if err != nil {
			log.Printf("Redis error on history read for session %q: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	return signatures
}

// key: compute the cache key for a session.
func (session *Session) key() string {
	return "SID:" + session.SID
}

// solvesKey: compute the cache key for a session's history.
func (session *Session) solvesKey() string {
	return session.key() + ":Solves"
}

// cacheLoad: load an already cached session.  Returns whether
// the session was found in the cache.
func (session *Session) cacheLoad() bool {
	var values []interface{}
	body := func(tx redis.Conn) (err error) {
		values, err = redis.Values(tx.Do("HGETALL", session.key()))
		return
	}
	rdExecute(body)
	if len(values) == 0 {
		return false
	}
	if err := redis.ScanStruct(values, session); err != nil {
		log.Printf("Malformed cached session %q: %v", session.SID, err)
		return false
	}
	return true
}

// cacheSave: write the session hash to the cache.
func (session *Session) cacheSave() {
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		if err != nil {
			log.Printf("Redis error on save of session %q: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
}
