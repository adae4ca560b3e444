// Package sessions serializes concurrent turns on the same conversation.
// State lives in Redis as a single value per session, so two overlapping
// turns for one session would race on load-modify-save; turns for different
// sessions stay fully concurrent.
package sessions

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker hands out one mutex per session ID. Entries are created on first
// use and dropped once the last holder releases, so the map only ever holds
// sessions with an in-flight turn.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewLocker() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// Acquire blocks until the session's lock is free and returns the release
// function. Callers must release on every path, typically via defer.
func (l *Locker) Acquire(sessionID string) (release func()) {
	l.mu.Lock()
	e, ok := l.entries[sessionID]
	if !ok {
		e = &entry{}
		l.entries[sessionID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, sessionID)
		}
		l.mu.Unlock()
	}
}
