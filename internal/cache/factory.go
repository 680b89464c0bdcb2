// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// Config holds configuration for store creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis
	Prefix string

	// DefaultTTL is the TTL for cache entries (0 = no expiry)
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for the memory store (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup
	CleanupInterval time.Duration
}

// DefaultConfig returns default store configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// Backend returns the backend name selected by the configuration.
func (c Config) Backend() string {
	if c.RedisURL != "" {
		return "redis"
	}
	return "memory"
}

// NewStore creates a Redis store when a URL is configured and an in-memory
// store otherwise.
func NewStore(cfg Config) (Store, error) {
	if cfg.RedisURL != "" {
		store, err := NewRedisStoreFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store, nil
	}

	return NewMemoryStore(MemoryOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}
