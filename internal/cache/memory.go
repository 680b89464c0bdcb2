// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore is a thread-safe in-memory Store with TTL and tag support.
type MemoryStore struct {
	data       sync.Map
	defaultTTL time.Duration
	maxSize    int // Maximum number of entries (0 = unlimited)
	stopCh     chan struct{}
	closed     atomic.Bool

	tagMu sync.Mutex
	tags  map[string]map[string]struct{}

	// Statistics
	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	size    atomic.Int64 // Approximate size in bytes
	resetAt atomic.Pointer[time.Time]
}

// memoryEntry holds a cached value with its expiration time.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	size      int64
	tags      []string
}

// MemoryOptions configures the memory store.
type MemoryOptions struct {
	DefaultTTL      time.Duration // 0 = entries never expire
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryStore creates a new memory store with the given options.
func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	c := &MemoryStore{
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
		tags:       make(map[string]map[string]struct{}),
	}

	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}

	return c
}

// Load retrieves a value from the cache.
func (c *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, ok := c.data.Load(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	entry := val.(*memoryEntry)
	if entry.expired(time.Now()) {
		c.deleteEntry(key, entry)
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	// Return a copy to prevent mutation
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Save stores a value and indexes it under the given tags.
func (c *MemoryStore) Save(_ context.Context, key string, value []byte, tags []string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if c.maxSize > 0 && c.count() >= c.maxSize {
		c.removeExpired()
		if _, exists := c.data.Load(key); !exists && c.count() >= c.maxSize {
			c.evictOldest()
		}
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := &memoryEntry{
		value: valueCopy,
		size:  int64(len(value)),
		tags:  append([]string(nil), tags...),
	}
	if c.defaultTTL > 0 {
		entry.expiresAt = time.Now().Add(c.defaultTTL)
	}

	if old, loaded := c.data.Swap(key, entry); loaded {
		oldEntry := old.(*memoryEntry)
		c.size.Add(-oldEntry.size)
		c.untag(key, oldEntry.tags)
	}

	c.tagMu.Lock()
	for _, tag := range tags {
		keys, ok := c.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	c.tagMu.Unlock()

	c.size.Add(entry.size)
	c.sets.Add(1)
	return nil
}

// Remove deletes a key from the cache.
func (c *MemoryStore) Remove(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if val, ok := c.data.Load(key); ok {
		c.deleteEntry(key, val.(*memoryEntry))
	}
	return nil
}

// CleanByTag removes every key recorded under any of the tags.
func (c *MemoryStore) CleanByTag(_ context.Context, tags ...string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	var keys []string
	c.tagMu.Lock()
	for _, tag := range tags {
		for key := range c.tags[tag] {
			keys = append(keys, key)
		}
		delete(c.tags, tag)
	}
	c.tagMu.Unlock()

	for _, key := range keys {
		if val, ok := c.data.Load(key); ok {
			c.deleteEntry(key, val.(*memoryEntry))
		}
	}
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryStore) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.data.Range(func(key, _ any) bool {
		c.data.Delete(key)
		return true
	})
	c.tagMu.Lock()
	c.tags = make(map[string]map[string]struct{})
	c.tagMu.Unlock()
	c.size.Store(0)
	return nil
}

// Close stops the cleanup goroutine and releases resources.
func (c *MemoryStore) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryStore) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	c.tagMu.Lock()
	tagCount := len(c.tags)
	c.tagMu.Unlock()

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   c.count(),
		Tags:    tagCount,
		HitRate: hitRate(hits, misses),
		Size:    c.size.Load(),
		ResetAt: c.resetAt.Load(),
	}
}

// ResetStats resets the cache statistics.
func (c *MemoryStore) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	now := time.Now()
	c.resetAt.Store(&now)
}

// Keys returns all keys in the cache (including expired ones), sorted.
func (c *MemoryStore) Keys() []string {
	var keys []string
	c.data.Range(func(key, _ any) bool {
		keys = append(keys, key.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// count returns the number of items in the cache.
func (c *MemoryStore) count() int {
	count := 0
	c.data.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// deleteEntry removes an entry, its tag memberships and updates the size counter.
func (c *MemoryStore) deleteEntry(key string, entry *memoryEntry) {
	if c.data.CompareAndDelete(key, entry) {
		c.size.Add(-entry.size)
		c.untag(key, entry.tags)
	}
}

func (c *MemoryStore) untag(key string, tags []string) {
	c.tagMu.Lock()
	defer c.tagMu.Unlock()
	for _, tag := range tags {
		if keys, ok := c.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.tags, tag)
			}
		}
	}
}

// evictOldest drops the entry closest to expiry.
func (c *MemoryStore) evictOldest() {
	var (
		oldestKey   string
		oldestEntry *memoryEntry
	)
	c.data.Range(func(key, value any) bool {
		entry := value.(*memoryEntry)
		if oldestEntry == nil || entry.expiresAt.Before(oldestEntry.expiresAt) {
			oldestKey, oldestEntry = key.(string), entry
		}
		return true
	})
	if oldestEntry != nil {
		c.deleteEntry(oldestKey, oldestEntry)
	}
}

// removeExpired removes all expired entries from the cache.
func (c *MemoryStore) removeExpired() {
	now := time.Now()
	c.data.Range(func(key, value any) bool {
		entry := value.(*memoryEntry)
		if entry.expired(now) {
			c.deleteEntry(key.(string), entry)
		}
		return true
	})
}

// cleanupLoop periodically removes expired entries.
func (c *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

// Ensure MemoryStore implements Store and StatsProvider.
var (
	_ Store         = (*MemoryStore)(nil)
	_ StatsProvider = (*MemoryStore)(nil)
)
