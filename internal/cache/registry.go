package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/satyacheck/internal/logger"
)

// Registry tracks named caches for the admin endpoints.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]Managed
}

func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]Managed)}
}

func (r *Registry) Register(m Managed) {
	r.mu.Lock()
	r.caches[m.Name()] = m
	r.mu.Unlock()
}

// Stats lists every registered cache sorted by name.
func (r *Registry) Stats() []Stats {
	r.mu.RLock()
	out := make([]Stats, 0, len(r.caches))
	for _, c := range r.caches {
		out = append(out, c.Stats())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear empties one cache. It reports false for an unknown name.
func (r *Registry) Clear(ctx context.Context, name string) bool {
	r.mu.RLock()
	c, ok := r.caches[name]
	r.mu.RUnlock()
	if ok {
		c.Clear(ctx)
	}
	return ok
}

func (r *Registry) ClearAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.caches {
		c.Clear(ctx)
	}
}

// Factory picks the backend for service-side caches: Redis when a client is
// configured, otherwise in-process memory. Every cache it builds is registered.
type Factory struct {
	Registry   *Registry
	Redis      redis.UniversalClient
	MaxEntries int
	Log        logger.Logger
}

// NewCache builds and registers a named cache. It is a function rather than a
// method because methods cannot take type parameters.
func NewCache[V any](f Factory, name string, ttl time.Duration) Cache[V] {
	var c interface {
		Cache[V]
		Managed
	}
	if f.Redis != nil {
		c = NewRedis[V](name, f.Redis, ttl, f.Log)
	} else {
		c = NewMemory[V](name, f.MaxEntries, ttl)
	}
	if f.Registry != nil {
		f.Registry.Register(c)
	}
	return c
}
