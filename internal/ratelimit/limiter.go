// Package ratelimit provides a keyed request limiter for the chat API.
// Each client key (session ID or IP) gets its own token bucket sized to
// the per-window budget; idle entries are evicted after the window so
// the map cannot grow without bound.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults matching the chat API budget.
const (
	DefaultRequests = 20
	DefaultWindow   = time.Hour

	// sweepInterval is how often expired entries are evicted.
	sweepInterval = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks request budgets per client key.
type Limiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	rate      rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time // Injectable clock for tests.
}

// New creates a limiter allowing requests per window for each key.
func New(requests int, window time.Duration) *Limiter {
	if requests <= 0 {
		requests = DefaultRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		entries: make(map[string]*entry),
		rate:    rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether a request under the given key fits the budget.
// The first sight of a key creates its entry with a full budget.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeSweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// maybeSweep evicts entries idle for longer than the window. Caller
// holds the lock.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) > l.window {
			delete(l.entries, key)
		}
	}
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
