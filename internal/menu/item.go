// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RootAnchor is the anchor of the implicit head of every menu tree.
const RootAnchor = "root"

// DefaultLocale is used for items that never had a locale assigned.
const DefaultLocale = "en_US"

// Attributes is an insertion-ordered attribute bag (HTML class, icon, ...).
type Attributes = orderedmap.OrderedMap[string, any]

// NewAttributes creates an empty attribute bag.
func NewAttributes() *Attributes {
	return orderedmap.New[string, any]()
}

// Item is a single node of a menu tree.
//
// Items never point at each other: the parent and the children are stored as
// anchors and resolved through the owning Menu's item table.
type Item struct {
	anchor     string
	id         string
	name       string
	routeName  string
	slug       string
	permalink  string
	uri        string
	locale     string
	active     bool
	level      int
	attributes *Attributes
	special    *Special

	parent   string
	children []string
}

// NewItem creates a detached item with the given anchor.
func NewItem(anchor string) *Item {
	return &Item{
		anchor:     anchor,
		locale:     DefaultLocale,
		level:      -1,
		attributes: NewAttributes(),
	}
}

// Anchor returns the unique anchor of the item.
func (i *Item) Anchor() string { return i.anchor }

// IsRoot reports whether the item is a tree head.
func (i *Item) IsRoot() bool { return i.anchor == RootAnchor }

// ID returns the external identifier, empty when unset.
func (i *Item) ID() string { return i.id }

// HasID reports whether an external identifier is set.
func (i *Item) HasID() bool { return i.id != "" }

// SetID sets the external identifier.
func (i *Item) SetID(id string) { i.id = id }

// Name returns the display name.
func (i *Item) Name() string { return i.name }

// HasName reports whether a display name is set.
func (i *Item) HasName() bool { return i.name != "" }

// SetName sets the display name.
func (i *Item) SetName(name string) { i.name = name }

// RouteName returns the route used to build the URI.
func (i *Item) RouteName() string { return i.routeName }

// HasRouteName reports whether the item has its own route.
func (i *Item) HasRouteName() bool { return i.routeName != "" }

// SetRouteName sets the route used to build the URI.
func (i *Item) SetRouteName(name string) { i.routeName = name }

// Slug returns the URL token of the item.
func (i *Item) Slug() string { return i.slug }

// HasSlug reports whether a slug is set.
func (i *Item) HasSlug() bool { return i.slug != "" }

// SetSlug sets the URL token of the item.
func (i *Item) SetSlug(slug string) { i.slug = slug }

// Permalink returns the joined slug path of the item.
func (i *Item) Permalink() string { return i.permalink }

// HasPermalink reports whether a permalink is set.
func (i *Item) HasPermalink() bool { return i.permalink != "" }

// SetPermalink sets the joined slug path of the item.
func (i *Item) SetPermalink(permalink string) { i.permalink = permalink }

// URI returns the derived navigation URI.
func (i *Item) URI() string { return i.uri }

// HasURI reports whether a URI has been derived.
func (i *Item) HasURI() bool { return i.uri != "" }

// SetURI stores a derived URI.
func (i *Item) SetURI(uri string) { i.uri = uri }

// Locale returns the locale tag of the item.
func (i *Item) Locale() string { return i.locale }

// SetLocale sets the locale tag of the item.
func (i *Item) SetLocale(locale string) { i.locale = locale }

// IsActive reports whether the item is marked active.
func (i *Item) IsActive() bool { return i.active }

// SetActive accepts a bool or the integers 0 and 1.
func (i *Item) SetActive(status any) error {
	var n int64
	switch v := status.(type) {
	case bool:
		i.active = v
		return nil
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		n = int64(v)
	case uint8:
		n = int64(v)
	default:
		return fmt.Errorf("item %q: %v (%T): %w", i.anchor, status, status, ErrInvalidActiveValue)
	}
	if n != 0 && n != 1 {
		return fmt.Errorf("item %q: %d: %w", i.anchor, n, ErrInvalidActiveValue)
	}
	i.active = n == 1
	return nil
}

func (i *Item) setActive(active bool) { i.active = active }

// CachedLevel returns the memoized tree level and whether it is valid.
// Use Menu.Level to compute it.
func (i *Item) CachedLevel() (int, bool) {
	return i.level, i.level >= 0
}

// ParentAnchor returns the anchor of the parent, empty for detached items.
func (i *Item) ParentAnchor() string { return i.parent }

// HasParent reports whether a parent is assigned.
func (i *Item) HasParent() bool { return i.parent != "" }

// SetParent replaces the parent reference. It does not check for cycles and
// does not touch the parent's children; it resets the memoized level.
func (i *Item) SetParent(parent *Item) {
	if parent == nil {
		i.parent = ""
	} else {
		i.parent = parent.anchor
	}
	i.level = -1
}

// AddChild appends child to the ordered children of the item. The child's
// parent reference is left untouched.
func (i *Item) AddChild(child *Item) error {
	if child.anchor == RootAnchor {
		return fmt.Errorf("item %q: %w", i.anchor, ErrReservedAnchor)
	}
	if i.HasChild(child.anchor) {
		return fmt.Errorf("item %q already has child %q: %w", i.anchor, child.anchor, ErrDuplicateChild)
	}
	i.children = append(i.children, child.anchor)
	return nil
}

// HasChild reports whether a child with the given anchor exists.
func (i *Item) HasChild(anchor string) bool {
	return slices.Contains(i.children, anchor)
}

// HasChildren reports whether the item has any children.
func (i *Item) HasChildren() bool { return len(i.children) > 0 }

// ChildAnchors returns the anchors of the children in order.
func (i *Item) ChildAnchors() []string {
	return slices.Clone(i.children)
}

// RemoveChild removes the child with the given anchor, if present.
func (i *Item) RemoveChild(anchor string) {
	if idx := slices.Index(i.children, anchor); idx >= 0 {
		i.children = slices.Delete(i.children, idx, idx+1)
	}
}

// RemoveChildren drops every child reference.
func (i *Item) RemoveChildren() {
	i.children = nil
}

// Attributes returns the attribute bag.
func (i *Item) Attributes() *Attributes { return i.attributes }

// HasAttributes reports whether any attribute is set.
func (i *Item) HasAttributes() bool { return i.attributes.Len() > 0 }

// Attribute returns the attribute value for key.
func (i *Item) Attribute(key string) (any, bool) {
	return i.attributes.Get(key)
}

// HasAttribute reports whether key is set.
func (i *Item) HasAttribute(key string) bool {
	_, ok := i.attributes.Get(key)
	return ok
}

// SetAttribute stores value under key. With rewrite=false an existing key is
// an error.
func (i *Item) SetAttribute(key string, value any, rewrite bool) error {
	if !rewrite && i.HasAttribute(key) {
		return fmt.Errorf("item %q, attribute %q: %w", i.anchor, key, ErrAttributeExists)
	}
	i.attributes.Set(key, value)
	return nil
}

// AddAttributes copies attrs into the bag and returns how many were written.
// With rewrite=false existing keys are kept.
func (i *Item) AddAttributes(attrs *Attributes, rewrite bool) int {
	if attrs == nil {
		return 0
	}
	added := 0
	for pair := attrs.Oldest(); pair != nil; pair = pair.Next() {
		if !rewrite && i.HasAttribute(pair.Key) {
			continue
		}
		i.attributes.Set(pair.Key, pair.Value)
		added++
	}
	return added
}

// ReplaceAttributes swaps the whole attribute bag.
func (i *Item) ReplaceAttributes(attrs *Attributes) {
	if attrs == nil {
		attrs = NewAttributes()
	}
	i.attributes = attrs
}

// RemoveAttribute deletes key from the bag.
func (i *Item) RemoveAttribute(key string) {
	i.attributes.Delete(key)
}

// RemoveAttributes drops every attribute. A bag passed to ReplaceAttributes
// is left untouched.
func (i *Item) RemoveAttributes() {
	i.attributes = NewAttributes()
}

// Special returns the special bag, nil if none was created.
func (i *Item) Special() *Special { return i.special }

// HasSpecial reports whether a special bag is attached.
func (i *Item) HasSpecial() bool { return i.special != nil }

// SetSpecial attaches a special bag.
func (i *Item) SetSpecial(special *Special) { i.special = special }

// SpecialValue returns a value from the special bag.
func (i *Item) SpecialValue(key string) (any, error) {
	if i.special == nil {
		return nil, fmt.Errorf("item %q, special %q: %w", i.anchor, key, ErrSpecialNotFound)
	}
	v, err := i.special.Get(key)
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", i.anchor, err)
	}
	return v, nil
}

// ensureSpecial returns the special bag, creating it if needed.
func (i *Item) ensureSpecial() *Special {
	if i.special == nil {
		i.special = NewSpecial()
	}
	return i.special
}
