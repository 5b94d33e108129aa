// Package ratelimit caps how many summarize requests a single client may
// make per window.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 30
	DefaultWindow = 24 * time.Hour
)

// Limiter decides whether the caller identified by key is admitted.
// The backing store is swappable, the handler only sees this.
type Limiter interface {
	Admit(key string) bool
}

type record struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local Limiter. State lives in this process only:
// restarts wipe it and horizontally scaled deployments do not share it.
type Memory struct {
	Limit  int
	Window time.Duration

	// Now is the clock, overridable in tests.
	Now func() time.Time

	mu      sync.Mutex
	records map[string]*record
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		Limit:   limit,
		Window:  window,
		Now:     time.Now,
		records: map[string]*record{},
	}
}

// Admit increments the count for key and reports whether the call is within
// the limit. The window resets fully once it has passed, so a burst right
// before expiry followed by one right after is allowed.
func (m *Memory) Admit(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	rec, ok := m.records[key]
	if !ok {
		rec = &record{resetAt: now.Add(m.Window)}
		m.records[key] = rec
	}

	if now.After(rec.resetAt) {
		rec.count = 0
		rec.resetAt = now.Add(m.Window)
	}

	if rec.count >= m.Limit {
		return false
	}

	rec.count++
	return true
}
