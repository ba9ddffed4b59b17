// Package cache holds the content-addressed result caches shared by every
// pipeline stage. Cache failures are misses: no method here returns an error.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is a TTL key/value store.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Put(ctx context.Context, key string, value V, ttl time.Duration)
	Evict(ctx context.Context, key string)
}

// Entry is one cached value. A read of an expired entry is a miss and evicts it.
type Entry[V any] struct {
	Key       string
	Value     V
	CreatedAt time.Time
	TTL       time.Duration
}

// Expired reports whether the entry is past its TTL at now. TTL <= 0 never expires.
func (e Entry[V]) Expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.CreatedAt) >= e.TTL
}

// Stats is a diagnostic snapshot. Size is -1 when the backend cannot tell cheaply.
type Stats struct {
	Name   string `json:"name"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// Managed is a cache that can be listed and cleared by name.
type Managed interface {
	Name() string
	Stats() Stats
	Clear(ctx context.Context)
}

// Hash is the hex sha256 of parts joined with ":".
func Hash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// Key derives a namespaced content-addressed key. Identical inputs always map
// to the same slot.
func Key(namespace string, parts ...string) string {
	return namespace + ":" + Hash(parts...)
}

// GetOrCompute is the cache-aside policy: read, compute on miss, write with ttl.
// Errors from compute are returned and never cached. A nil cache just computes.
// Concurrent misses for one key compute twice; writes are idempotent so that is
// only wasted work.
func GetOrCompute[V any](ctx context.Context, c Cache[V], key string, ttl time.Duration, compute func(context.Context) (V, error)) (V, error) {
	return GetOrComputeWhen(ctx, c, key, ttl, compute, nil)
}

// GetOrComputeWhen is GetOrCompute that only stores values keep accepts.
// A nil keep stores every successful value.
func GetOrComputeWhen[V any](ctx context.Context, c Cache[V], key string, ttl time.Duration, compute func(context.Context) (V, error), keep func(V) bool) (V, error) {
	if c == nil {
		return compute(ctx)
	}
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	if keep == nil || keep(v) {
		c.Put(ctx, key, v, ttl)
	}
	return v, nil
}
