// Package cache provides an injectable TTL cache used to avoid repeated
// external extraction calls for identical prompts.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long an extraction response stays reusable.
const DefaultTTL = 24 * time.Hour

// Cache is the capability surface consumers depend on; tests substitute an
// in-memory fake or a recording wrapper.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is a process-local TTL cache. Expired entries are dropped lazily on
// read; there is no background sweeper.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time // overridable for tests
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and unexpired.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl uses DefaultTTL.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
