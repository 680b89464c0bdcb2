// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Special is a secondary key/value channel for presentation data that is kept
// apart from the item attributes (data-* values, CSS hooks and the like).
// The same Special may be shared by many items.
type Special struct {
	values *orderedmap.OrderedMap[string, any]
}

// NewSpecial creates an empty special bag.
func NewSpecial() *Special {
	return &Special{values: orderedmap.New[string, any]()}
}

// NewSpecialFrom creates a special bag from a plain map. Keys are inserted in
// sorted order so the result is deterministic.
func NewSpecialFrom(values map[string]any) *Special {
	s := NewSpecial()
	s.SetMap(values)
	return s
}

// Add stores value under key and fails if the key is already present.
func (s *Special) Add(key string, value any) error {
	if s.Has(key) {
		return fmt.Errorf("special %q: %w", key, ErrAttributeExists)
	}
	s.values.Set(key, value)
	return nil
}

// Set stores value under key, overwriting any previous value.
func (s *Special) Set(key string, value any) {
	s.values.Set(key, value)
}

// SetMap stores every entry of values.
func (s *Special) SetMap(values map[string]any) {
	for _, key := range sortedKeys(values) {
		s.values.Set(key, values[key])
	}
}

// Has reports whether key is present.
func (s *Special) Has(key string) bool {
	_, ok := s.values.Get(key)
	return ok
}

// Get returns the value for key.
func (s *Special) Get(key string) (any, error) {
	v, ok := s.values.Get(key)
	if !ok {
		return nil, fmt.Errorf("special %q: %w", key, ErrSpecialNotFound)
	}
	return v, nil
}

// Keys returns the keys in insertion order.
func (s *Special) Keys() []string {
	keys := make([]string, 0, s.values.Len())
	for pair := s.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of values.
func (s *Special) Len() int { return s.values.Len() }

// Replace drops all values and stores the given ones.
func (s *Special) Replace(values map[string]any) {
	s.Reset()
	s.SetMap(values)
}

// Reset drops all values.
func (s *Special) Reset() {
	s.values = orderedmap.New[string, any]()
}

// MarshalJSON implements json.Marshaler.
func (s *Special) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.values)
}

// UnmarshalJSON implements json.Unmarshaler. Integral numbers decode as int64.
func (s *Special) UnmarshalJSON(data []byte) error {
	values, err := decodeValues(data)
	if err != nil {
		return err
	}
	s.values = values
	return nil
}
