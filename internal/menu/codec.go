// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// menuRecord is the serialized form of a Menu. Items are listed in pre-order,
// root first, so parents always precede their children.
type menuRecord struct {
	Anchor           string       `json:"anchor"`
	DefaultRouteName string       `json:"default_route_name,omitempty"`
	Locale           string       `json:"locale"`
	BuildID          string       `json:"build_id,omitempty"`
	ActiveItem       string       `json:"active_item,omitempty"`
	Items            []itemRecord `json:"items"`
}

type itemRecord struct {
	Anchor     string          `json:"anchor"`
	Parent     string          `json:"parent,omitempty"`
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name,omitempty"`
	RouteName  string          `json:"route_name,omitempty"`
	Slug       string          `json:"slug,omitempty"`
	Permalink  string          `json:"permalink,omitempty"`
	URI        string          `json:"uri,omitempty"`
	Locale     string          `json:"locale,omitempty"`
	Active     bool            `json:"active,omitempty"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	Special    json.RawMessage `json:"special,omitempty"`
}

func newItemRecord(it *Item) (itemRecord, error) {
	rec := itemRecord{
		Anchor:    it.anchor,
		Parent:    it.parent,
		ID:        it.id,
		Name:      it.name,
		RouteName: it.routeName,
		Slug:      it.slug,
		Permalink: it.permalink,
		URI:       it.uri,
		Locale:    it.locale,
		Active:    it.active,
	}
	if it.HasAttributes() {
		data, err := json.Marshal(it.attributes)
		if err != nil {
			return rec, fmt.Errorf("item %q attributes: %w", it.anchor, err)
		}
		rec.Attributes = data
	}
	if it.special != nil {
		data, err := json.Marshal(it.special)
		if err != nil {
			return rec, fmt.Errorf("item %q special: %w", it.anchor, err)
		}
		rec.Special = data
	}
	return rec, nil
}

func (rec itemRecord) apply(it *Item) error {
	it.id = rec.ID
	it.name = rec.Name
	it.routeName = rec.RouteName
	it.slug = rec.Slug
	it.permalink = rec.Permalink
	it.uri = rec.URI
	if rec.Locale != "" {
		it.locale = rec.Locale
	}
	it.active = rec.Active
	if len(rec.Attributes) > 0 {
		attrs, err := decodeValues(rec.Attributes)
		if err != nil {
			return fmt.Errorf("item %q attributes: %w", rec.Anchor, err)
		}
		it.attributes = attrs
	}
	if len(rec.Special) > 0 {
		special := NewSpecial()
		if err := json.Unmarshal(rec.Special, special); err != nil {
			return fmt.Errorf("item %q special: %w", rec.Anchor, err)
		}
		it.special = special
	}
	return nil
}

// decodeValues decodes a JSON object into an ordered bag. Integral numbers
// come back as int64, other numbers as float64, also inside nested values.
func decodeValues(data []byte) (*Attributes, error) {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, err
	}
	values := NewAttributes()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		dec := json.NewDecoder(bytes.NewReader(pair.Value))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("key %q: %w", pair.Key, err)
		}
		values.Set(pair.Key, normalizeNumbers(v))
	}
	return values, nil
}

func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (m *Menu) MarshalJSON() ([]byte, error) {
	rec := menuRecord{
		Anchor:           m.anchor,
		DefaultRouteName: m.defaultRouteName,
		Locale:           m.locale,
		BuildID:          m.buildID,
		ActiveItem:       m.activeItem,
	}

	root, err := newItemRecord(m.Root())
	if err != nil {
		return nil, err
	}
	rec.Items = append(rec.Items, root)

	m.Walk(func(item *Item) bool {
		var r itemRecord
		r, err = newItemRecord(item)
		if err != nil {
			return false
		}
		rec.Items = append(rec.Items, r)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("menu %q: %w", m.anchor, err)
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Menu) UnmarshalJSON(data []byte) error {
	var rec menuRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	restored := New(rec.Anchor, rec.DefaultRouteName, rec.Locale)
	restored.buildID = rec.BuildID

	for i, r := range rec.Items {
		if i == 0 && r.Anchor == RootAnchor {
			if err := r.apply(restored.Root()); err != nil {
				return err
			}
			continue
		}
		item := NewItem(r.Anchor)
		if err := r.apply(item); err != nil {
			return err
		}
		if err := restored.AddMenuItem(item, r.Parent); err != nil {
			return err
		}
	}
	restored.activeItem = rec.ActiveItem
	restored.memoizeLevels()

	*m = *restored
	return nil
}
