// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// Criterion matches one item field against a value.
type Criterion struct {
	Field string
	Value any
}

// Criteria is an ordered list of criteria.
type Criteria []Criterion

// By returns a single-criterion list.
func By(field string, value any) Criteria {
	return Criteria{{Field: field, Value: value}}
}

// And appends a criterion.
func (c Criteria) And(field string, value any) Criteria {
	return append(c, Criterion{Field: field, Value: value})
}

// fieldAccessor reads one item field in the context of its menu.
type fieldAccessor func(m *Menu, it *Item) any

// itemFields is the closed set of fields usable in criteria, slug sources and
// route parameters. Keys are normalized with fieldKey.
var itemFields = map[string]fieldAccessor{
	"anchor":    func(_ *Menu, it *Item) any { return it.anchor },
	"id":        func(_ *Menu, it *Item) any { return it.id },
	"name":      func(_ *Menu, it *Item) any { return it.name },
	"routename": func(_ *Menu, it *Item) any { return it.routeName },
	"slug":      func(_ *Menu, it *Item) any { return it.slug },
	"permalink": func(_ *Menu, it *Item) any { return it.permalink },
	"uri":       func(_ *Menu, it *Item) any { return it.uri },
	"locale":    func(_ *Menu, it *Item) any { return it.locale },
	"active":    func(_ *Menu, it *Item) any { return it.active },
	"level":     func(m *Menu, it *Item) any { return m.level(it) },
}

// fieldKey folds "route_name", "routeName" and "RouteName" to the same key.
func fieldKey(field string) string {
	return strings.ToLower(strings.ReplaceAll(field, "_", ""))
}

func lookupField(field string) (fieldAccessor, bool) {
	fn, ok := itemFields[fieldKey(field)]
	return fn, ok
}

// fieldString returns the textual value of a field, false for unknown fields.
func (m *Menu) fieldString(it *Item, field string) (string, bool) {
	fn, ok := lookupField(field)
	if !ok {
		return "", false
	}
	switch v := fn(m, it).(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	default:
		return fmt.Sprint(v), true
	}
}

func matches(want, got any) bool {
	switch w := want.(type) {
	case int64:
		if g, ok := got.(int); ok {
			return int64(g) == w
		}
	case uint:
		if g, ok := got.(int); ok {
			return g >= 0 && uint(g) == w
		}
	}
	return want == got
}

// FindMenuItems returns the attached items matching the criteria in pre-order.
// With matchAll every criterion must hold, otherwise any of them.
func (m *Menu) FindMenuItems(criteria Criteria, matchAll bool) ([]*Item, error) {
	if len(criteria) == 0 {
		return nil, fmt.Errorf("menu %q: empty criteria: %w", m.anchor, ErrUnknownCriterion)
	}
	accessors := make([]fieldAccessor, len(criteria))
	for i, c := range criteria {
		fn, ok := lookupField(c.Field)
		if !ok {
			return nil, fmt.Errorf("menu %q, criterion %q: %w", m.anchor, c.Field, ErrUnknownCriterion)
		}
		accessors[i] = fn
	}

	var found []*Item
	m.Walk(func(item *Item) bool {
		hits := 0
		for i, c := range criteria {
			if matches(c.Value, accessors[i](m, item)) {
				hits++
				if !matchAll {
					break
				}
			} else if matchAll {
				break
			}
		}
		if (matchAll && hits == len(criteria)) || (!matchAll && hits > 0) {
			found = append(found, item)
		}
		return true
	})
	return found, nil
}

// FindMenuItemsBy returns the items whose field equals value.
func (m *Menu) FindMenuItemsBy(field string, value any) ([]*Item, error) {
	return m.FindMenuItems(By(field, value), true)
}

func (m *Menu) findFirst(field, value string) (*Item, bool) {
	fn := itemFields[field]
	var found *Item
	m.Walk(func(item *Item) bool {
		if fn(m, item) == value {
			found = item
			return false
		}
		return true
	})
	return found, found != nil
}

// FindMenuItemByName returns the first item with the given name.
func (m *Menu) FindMenuItemByName(name string) (*Item, bool) {
	return m.findFirst("name", name)
}

// FindMenuItemBySlug returns the first item with the given slug.
func (m *Menu) FindMenuItemBySlug(slug string) (*Item, bool) {
	return m.findFirst("slug", slug)
}

// FindMenuItemByPermalink returns the first item with the given permalink.
func (m *Menu) FindMenuItemByPermalink(permalink string) (*Item, bool) {
	return m.findFirst("permalink", permalink)
}
