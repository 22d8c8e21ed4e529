package handlers

import (
	"strings"
	"sync"
	"time"
)

// rateLimiter throttles order submissions keyed by session id.
type rateLimiter interface {
	Allow(key string) bool
}

// sessionRateLimiter is a fixed-window counter per session. Windows reset
// lazily on the first request after expiry; expired sessions are pruned on
// window rollover so the map stays bounded by active sessions.
type sessionRateLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time
	mu     sync.Mutex
	active map[string]submissionWindow
}

type submissionWindow struct {
	count   int
	resetAt time.Time
}

func newSimpleRateLimiter(limit int, window time.Duration, clock func() time.Time) rateLimiter {
	if limit <= 0 || window <= 0 {
		return nil
	}
	if clock == nil {
		clock = time.Now
	}
	return &sessionRateLimiter{
		limit:  limit,
		window: window,
		clock:  clock,
		active: make(map[string]submissionWindow),
	}
}

func (l *sessionRateLimiter) Allow(sessionID string) bool {
	if l == nil {
		return true
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = "anonymous"
	}
	now := l.clock()
	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.active[sessionID]
	if !ok || now.After(win.resetAt) {
		l.active[sessionID] = submissionWindow{count: 1, resetAt: now.Add(l.window)}
		l.pruneExpiredLocked(now)
		return true
	}

	if win.count >= l.limit {
		return false
	}
	win.count++
	l.active[sessionID] = win
	return true
}

func (l *sessionRateLimiter) pruneExpiredLocked(now time.Time) {
	for sessionID, win := range l.active {
		if now.After(win.resetAt) {
			delete(l.active, sessionID)
		}
	}
}
