package service

import "sync"

// SessionLocks serializes mutations per session id. Concurrent requests
// against the same session (double-click, retried AJAX) must not interleave
// their read-modify-write cycles, so every mutating operation acquires the
// session's lock for its duration.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionLocks creates an empty lock registry
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the given session and returns the unlock function
func (l *SessionLocks) Acquire(sessionID string) func() {
	l.mu.Lock()
	m, exists := l.locks[sessionID]
	if !exists {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Release drops a session's lock entry once the session is terminal
func (l *SessionLocks) Release(sessionID string) {
	l.mu.Lock()
	delete(l.locks, sessionID)
	l.mu.Unlock()
}
