// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-based Store for sharing menus between instances.
// Tag membership is kept in Redis sets named <prefix>tag:<tag>.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// RedisOptions configures the Redis store.
type RedisOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Prefix is prepended to all keys (e.g., "ocms-menu:")
	Prefix string

	// DefaultTTL is the expiration time for cache entries (0 = no expiry)
	DefaultTTL time.Duration

	// PoolSize is the maximum number of connections (0 = use default)
	PoolSize int

	// ConnectTimeout is the timeout for establishing a connection
	ConnectTimeout time.Duration

	// ReadTimeout is the timeout for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for write operations
	WriteTimeout time.Duration
}

// DefaultRedisOptions returns sensible defaults.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:         "ocms-menu:",
		DefaultTTL:     time.Hour,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisStore creates a new Redis store and checks the connection.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(redisOpts)

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{
		client:     client,
		prefix:     opts.Prefix,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

// NewRedisStoreFromURL creates a Redis store from just a URL with default options.
func NewRedisStoreFromURL(url string, prefix string, defaultTTL time.Duration) (*RedisStore, error) {
	opts := DefaultRedisOptions()
	opts.URL = url
	if prefix != "" {
		opts.Prefix = prefix
	}
	if defaultTTL > 0 {
		opts.DefaultTTL = defaultTTL
	}
	return NewRedisStore(opts)
}

func (c *RedisStore) prefixKey(key string) string {
	return c.prefix + key
}

func (c *RedisStore) tagKey(tag string) string {
	return c.prefix + "tag:" + tag
}

// Load retrieves a value from the cache.
func (c *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, err := c.client.Get(ctx, c.prefixKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	c.hits.Add(1)
	return val, nil
}

// Save stores a value and adds the key to every tag set in one pipeline.
func (c *RedisStore) Save(ctx context.Context, key string, value []byte, tags []string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	full := c.prefixKey(key)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, full, value, c.defaultTTL)
		for _, tag := range tags {
			pipe.SAdd(ctx, c.tagKey(tag), full)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.sets.Add(1)
	return nil
}

// Remove deletes a key from the cache. Stale tag memberships are dropped
// the next time the tag is cleaned.
func (c *RedisStore) Remove(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	return c.client.Del(ctx, c.prefixKey(key)).Err()
}

// CleanByTag removes every key recorded under any of the tags, and the tag
// sets themselves.
func (c *RedisStore) CleanByTag(ctx context.Context, tags ...string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	for _, tag := range tags {
		tagKey := c.tagKey(tag)
		keys, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return err
		}
		if err := c.client.Del(ctx, append(keys, tagKey)...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all entries with the cache prefix.
// This uses SCAN + DEL which is safer than KEYS for production use.
func (c *RedisStore) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	return c.scan(ctx, c.prefix+"*", 100, func(keys []string) error {
		return c.client.Del(ctx, keys...).Err()
	})
}

func (c *RedisStore) scan(ctx context.Context, pattern string, count int64, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, count).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}

// Close closes the Redis connection.
func (c *RedisStore) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		return c.client.Close()
	}
	return nil
}

// Stats returns current cache statistics.
// Redis doesn't track per-prefix stats, so hits and misses are local counters.
func (c *RedisStore) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var items, tags int
	tagPrefix := c.tagKey("")
	_ = c.scan(ctx, c.prefix+"*", 1000, func(keys []string) error {
		for _, k := range keys {
			if len(k) >= len(tagPrefix) && k[:len(tagPrefix)] == tagPrefix {
				tags++
			} else {
				items++
			}
		}
		return nil
	})

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		Tags:    tags,
		HitRate: hitRate(hits, misses),
	}
}

// ResetStats resets the cache statistics.
func (c *RedisStore) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

// Ping checks if the Redis connection is healthy.
func (c *RedisStore) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Ping(ctx).Err()
}

// Ensure RedisStore implements Store and StatsProvider.
var (
	_ Store         = (*RedisStore)(nil)
	_ StatsProvider = (*RedisStore)(nil)
)
