// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
)

// Typed provides type-safe caching operations using generics.
// It wraps a Store and handles JSON serialization/deserialization.
type Typed[T any] struct {
	store Store
}

// NewTyped creates a new Typed wrapping the given store.
func NewTyped[T any](store Store) *Typed[T] {
	return &Typed[T]{store: store}
}

// Get retrieves a value from the cache.
// Returns the value and true if found, nil and false otherwise.
func (c *Typed[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.store.Load(ctx, key)
	if err != nil {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}

	return &value, true
}

// Set stores a value in the cache under the given tags.
func (c *Typed[T]) Set(ctx context.Context, key string, value *T, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.store.Save(ctx, key, data, tags)
}

// Delete removes a key from the cache.
func (c *Typed[T]) Delete(ctx context.Context, key string) error {
	return c.store.Remove(ctx, key)
}
