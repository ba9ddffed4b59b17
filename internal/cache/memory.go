package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/satyacheck/internal/application"
)

// Memory is an in-process TTL cache bounded by entry count. When full, the
// oldest entry by creation time is dropped.
type Memory[V any] struct {
	name       string
	mu         sync.Mutex
	entries    map[string]Entry[V]
	maxEntries int
	defaultTTL time.Duration
	clock      application.Clock

	hits   atomic.Uint64
	misses atomic.Uint64
}

type MemoryOption[V any] func(*Memory[V])

// WithClock replaces the system clock.
func WithClock[V any](c application.Clock) MemoryOption[V] {
	return func(m *Memory[V]) { m.clock = c }
}

// NewMemory builds a cache. maxEntries <= 0 means unbounded; ttl is used when
// Put is called with ttl <= 0.
func NewMemory[V any](name string, maxEntries int, ttl time.Duration, opts ...MemoryOption[V]) *Memory[V] {
	m := &Memory[V]{
		name:       name,
		entries:    make(map[string]Entry[V]),
		maxEntries: maxEntries,
		defaultTTL: ttl,
		clock:      application.SystemClock{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if ok && e.Expired(m.clock.Now()) {
		delete(m.entries, key)
		ok = false
	}
	if !ok {
		m.misses.Add(1)
		var zero V
		return zero, false
	}
	m.hits.Add(1)
	return e.Value, true
}

func (m *Memory[V]) Put(_ context.Context, key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked(now)
	}
	m.entries[key] = Entry[V]{Key: key, Value: value, CreatedAt: now, TTL: ttl}
}

// evictOldestLocked drops expired entries, or the single oldest one if none expired.
func (m *Memory[V]) evictOldestLocked(now time.Time) {
	var (
		oldestKey string
		oldestAt  time.Time
		dropped   bool
	)
	for k, e := range m.entries {
		if e.Expired(now) {
			delete(m.entries, k)
			dropped = true
			continue
		}
		if oldestKey == "" || e.CreatedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.CreatedAt
		}
	}
	if !dropped && oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func (m *Memory[V]) Evict(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *Memory[V]) Name() string { return m.name }

func (m *Memory[V]) Stats() Stats {
	m.mu.Lock()
	size := len(m.entries)
	m.mu.Unlock()
	return Stats{Name: m.name, Hits: m.hits.Load(), Misses: m.misses.Load(), Size: size}
}

func (m *Memory[V]) Clear(context.Context) {
	m.mu.Lock()
	m.entries = make(map[string]Entry[V])
	m.mu.Unlock()
}
