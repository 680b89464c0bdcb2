// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the tagged key/value store used to keep built menus.
package cache

import (
	"context"
	"time"
)

// Store defines the interface for cache implementations.
// All implementations must be thread-safe.
// Values are opaque bytes; tags group keys for bulk invalidation.
type Store interface {
	// Load retrieves a value from the cache.
	// Returns nil and ErrCacheMiss if not found or expired.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores a value under key and records it under every tag.
	Save(ctx context.Context, key string, value []byte, tags []string) error

	// Remove deletes a key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// CleanByTag removes every key recorded under any of the tags.
	CleanByTag(ctx context.Context, tags ...string) error

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// StatsProvider is an optional interface for stores that provide statistics.
type StatsProvider interface {
	Stats() Stats
	ResetStats()
}

// Stats holds cache statistics.
type Stats struct {
	Hits    int64      `json:"hits"`
	Misses  int64      `json:"misses"`
	Sets    int64      `json:"sets"`
	Items   int        `json:"items"`
	Tags    int        `json:"tags"`
	HitRate float64    `json:"hit_rate"`
	Size    int64      `json:"size_bytes,omitempty"`
	ResetAt *time.Time `json:"reset_at,omitempty"`
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
