package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const scanBatch = 200

// Redis stores JSON-encoded values under a per-cache key prefix so several
// service replicas share one result cache.
type Redis[V any] struct {
	name       string
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
	log        logger.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func NewRedis[V any](name string, client redis.UniversalClient, ttl time.Duration, log logger.Logger) *Redis[V] {
	return &Redis[V]{
		name:       name,
		client:     client,
		prefix:     "satyacheck:" + name + ":",
		defaultTTL: ttl,
		log:        log.With(logger.String("cache", name)),
	}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache read failed", logger.Error(err))
		}
		r.misses.Add(1)
		return zero, false
	}
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		r.log.Warn("corrupt cache entry", logger.String("key", key), logger.Error(err))
		r.Evict(ctx, key)
		r.misses.Add(1)
		return zero, false
	}
	r.hits.Add(1)
	return v, true
}

func (r *Redis[V]) Put(ctx context.Context, key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		r.log.Warn("cache encode failed", logger.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, ttl).Err(); err != nil {
		r.log.Warn("cache write failed", logger.Error(err))
	}
}

func (r *Redis[V]) Evict(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.log.Warn("cache evict failed", logger.Error(err))
	}
}

func (r *Redis[V]) Name() string { return r.name }

func (r *Redis[V]) Stats() Stats {
	return Stats{Name: r.name, Hits: r.hits.Load(), Misses: r.misses.Load(), Size: -1}
}

// Clear deletes every key under this cache's prefix.
func (r *Redis[V]) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("cache scan failed", logger.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn("cache clear failed", logger.Error(err))
	}
}
