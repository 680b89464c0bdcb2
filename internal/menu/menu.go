// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menu builds and queries hierarchical navigation menus.
//
// A Menu owns every Item of its tree in a single anchor-keyed table. Items refer
// to their parent and children by anchor, so a Menu can be serialized, cached
// and shared read-only without dealing with pointer cycles.
package menu

import (
	"fmt"
	"slices"
)

// Menu is one navigation tree identified by an anchor ("main", "footer", ...).
type Menu struct {
	anchor           string
	defaultRouteName string
	locale           string
	buildID          string
	activeItem       string

	items map[string]*Item
}

// New creates an empty menu with its root item.
func New(anchor, defaultRouteName, locale string) *Menu {
	if locale == "" {
		locale = DefaultLocale
	}
	root := NewItem(RootAnchor)
	root.locale = locale
	root.level = 0
	return &Menu{
		anchor:           anchor,
		defaultRouteName: defaultRouteName,
		locale:           locale,
		items:            map[string]*Item{RootAnchor: root},
	}
}

// Anchor returns the menu anchor.
func (m *Menu) Anchor() string { return m.anchor }

// Locale returns the locale the menu was built for.
func (m *Menu) Locale() string { return m.locale }

// DefaultRouteName returns the route used for items without their own route.
func (m *Menu) DefaultRouteName() string { return m.defaultRouteName }

// SetDefaultRouteName replaces the fallback route.
func (m *Menu) SetDefaultRouteName(name string) { m.defaultRouteName = name }

// BuildID identifies the build that produced this tree.
func (m *Menu) BuildID() string { return m.buildID }

// Root returns the implicit tree head.
func (m *Menu) Root() *Item { return m.items[RootAnchor] }

// Len returns the number of items attached below the root.
func (m *Menu) Len() int {
	n := 0
	m.walk(m.Root(), func(*Item) bool {
		n++
		return true
	})
	return n
}

// register adds item to the table without attaching it to the tree.
func (m *Menu) register(item *Item) error {
	if item.anchor == RootAnchor {
		return itemError(ErrReservedAnchor, m.anchor, item.anchor, "")
	}
	if existing, ok := m.items[item.anchor]; ok && existing != item {
		return itemError(ErrDuplicateChild, m.anchor, item.anchor, "anchor already used in menu")
	}
	m.items[item.anchor] = item
	return nil
}

// lookup returns an item from the table whether attached or not.
func (m *Menu) lookup(anchor string) (*Item, bool) {
	item, ok := m.items[anchor]
	return item, ok
}

// AddMenuItem attaches item below the item with parentAnchor. An empty
// parentAnchor or "root" attaches it directly below the root.
func (m *Menu) AddMenuItem(item *Item, parentAnchor string) error {
	if item.anchor == RootAnchor {
		return itemError(ErrReservedAnchor, m.anchor, item.anchor, "root is created with the menu")
	}

	parent := m.Root()
	if parentAnchor != "" && parentAnchor != RootAnchor {
		p, ok := m.FindMenuItem(parentAnchor)
		if !ok {
			return itemError(ErrParentNotFound, m.anchor, item.anchor, "parent %q", parentAnchor)
		}
		parent = p
	}

	if existing, ok := m.items[item.anchor]; ok && existing != item {
		return itemError(ErrDuplicateChild, m.anchor, item.anchor, "anchor already used in menu")
	}
	if err := parent.AddChild(item); err != nil {
		return fmt.Errorf("menu %q: %w", m.anchor, err)
	}
	m.items[item.anchor] = item
	item.SetParent(parent)
	return nil
}

// attached reports whether item is reachable from the root.
func (m *Menu) attached(item *Item) bool {
	seen := 0
	for cur := item; ; {
		if cur.anchor == RootAnchor {
			return m.items[RootAnchor] == cur
		}
		if cur.parent == "" || seen > len(m.items) {
			return false
		}
		parent, ok := m.items[cur.parent]
		if !ok || !parent.HasChild(cur.anchor) {
			return false
		}
		cur = parent
		seen++
	}
}

// FindMenuItem returns the attached item with the given anchor.
func (m *Menu) FindMenuItem(anchor string) (*Item, bool) {
	if anchor == RootAnchor {
		return nil, false
	}
	item, ok := m.items[anchor]
	if !ok || !m.attached(item) {
		return nil, false
	}
	return item, true
}

// MenuItem is an alias for FindMenuItem.
func (m *Menu) MenuItem(anchor string) (*Item, bool) {
	return m.FindMenuItem(anchor)
}

// Children returns the children of item in order.
func (m *Menu) Children(item *Item) []*Item {
	children := make([]*Item, 0, len(item.children))
	for _, anchor := range item.children {
		if child, ok := m.items[anchor]; ok {
			children = append(children, child)
		}
	}
	return children
}

// Parent returns the parent of item.
func (m *Menu) Parent(item *Item) (*Item, bool) {
	if item.parent == "" {
		return nil, false
	}
	parent, ok := m.items[item.parent]
	return parent, ok
}

// Parents returns the ancestors of the item, root excluded, ordered from the
// top level down to the immediate parent.
func (m *Menu) Parents(anchor string) []*Item {
	item, ok := m.FindMenuItem(anchor)
	if !ok {
		return nil
	}
	return m.ancestors(item)
}

func (m *Menu) ancestors(item *Item) []*Item {
	var chain []*Item
	for cur, ok := m.Parent(item); ok && cur.anchor != RootAnchor; cur, ok = m.Parent(cur) {
		chain = append(chain, cur)
		if len(chain) > len(m.items) {
			break
		}
	}
	slices.Reverse(chain)
	return chain
}

// RootParent returns the top-level ancestor of the item, the one directly
// below the root. It reports false for unknown anchors, the root and items
// that are already top level.
func (m *Menu) RootParent(anchor string) (*Item, bool) {
	item, ok := m.FindMenuItem(anchor)
	if !ok {
		return nil, false
	}
	chain := m.ancestors(item)
	if len(chain) == 0 {
		return nil, false
	}
	return chain[0], true
}

// Breadcrumbs returns the ancestors of the item and, optionally, the item
// itself.
func (m *Menu) Breadcrumbs(anchor string, includeSelf bool) []*Item {
	item, ok := m.FindMenuItem(anchor)
	if !ok {
		return nil
	}
	crumbs := m.ancestors(item)
	if includeSelf {
		crumbs = append(crumbs, item)
	}
	return crumbs
}

// Level returns the depth of the item: the root is 0, its children 1.
// Built menus carry the depth memoized, so Level only reads the item.
func (m *Menu) Level(anchor string) (int, error) {
	if anchor == RootAnchor {
		return 0, nil
	}
	item, ok := m.FindMenuItem(anchor)
	if !ok {
		return 0, itemError(ErrItemNotFound, m.anchor, anchor, "")
	}
	return m.level(item), nil
}

func (m *Menu) level(item *Item) int {
	if lvl, ok := item.CachedLevel(); ok {
		return lvl
	}
	lvl := 0
	for cur, ok := m.Parent(item); ok; cur, ok = m.Parent(cur) {
		lvl++
		if lvl > len(m.items) {
			break
		}
	}
	return lvl
}

// memoizeLevels records the depth of every attached item. Read paths never
// write the memo, so a memoized menu can be shared between goroutines.
func (m *Menu) memoizeLevels() {
	var visit func(parent *Item, depth int)
	visit = func(parent *Item, depth int) {
		for _, child := range m.Children(parent) {
			child.level = depth
			visit(child, depth+1)
		}
	}
	visit(m.Root(), 1)
}

// Walk calls fn for every attached item in pre-order (parent before children,
// siblings in insertion order). Returning false stops the walk.
func (m *Menu) Walk(fn func(item *Item) bool) {
	m.walk(m.Root(), fn)
}

func (m *Menu) walk(from *Item, fn func(item *Item) bool) bool {
	for _, child := range m.Children(from) {
		if !fn(child) {
			return false
		}
		if !m.walk(child, fn) {
			return false
		}
	}
	return true
}

// RemoveItems detaches every item, leaving only the root.
func (m *Menu) RemoveItems() {
	root := m.Root()
	root.RemoveChildren()
	m.items = map[string]*Item{RootAnchor: root}
	m.activeItem = ""
}

// Reroot keeps only the subtree of the item with the given anchor and makes
// that item the sole child of the root.
func (m *Menu) Reroot(anchor string) error {
	node, ok := m.FindMenuItem(anchor)
	if !ok {
		return itemError(ErrRootNodeNotFound, m.anchor, anchor, "")
	}

	keep := map[string]*Item{RootAnchor: m.Root(), node.anchor: node}
	m.walk(node, func(item *Item) bool {
		keep[item.anchor] = item
		item.level = -1
		return true
	})

	root := m.Root()
	root.RemoveChildren()
	m.items = keep
	if _, ok := keep[m.activeItem]; !ok {
		m.activeItem = ""
	}
	if err := root.AddChild(node); err != nil {
		return fmt.Errorf("menu %q: %w", m.anchor, err)
	}
	node.SetParent(root)
	m.memoizeLevels()
	return nil
}

// ActiveItem returns the item recorded as active.
func (m *Menu) ActiveItem() (*Item, bool) {
	if m.activeItem == "" {
		return nil, false
	}
	return m.FindMenuItem(m.activeItem)
}

// HasActiveItem reports whether an active item is recorded.
func (m *Menu) HasActiveItem() bool {
	_, ok := m.ActiveItem()
	return ok
}

// SetActiveItem records item as the active item of the menu.
func (m *Menu) SetActiveItem(item *Item) {
	if item == nil {
		m.activeItem = ""
		return
	}
	m.activeItem = item.anchor
}

// SetActiveItemByPermalink activates the first item with the given permalink.
func (m *Menu) SetActiveItemByPermalink(permalink string, active, affectParents bool) bool {
	item, ok := m.FindMenuItemByPermalink(permalink)
	return m.activate(item, ok, active, affectParents)
}

// SetActiveItemBySlug activates the first item with the given slug.
func (m *Menu) SetActiveItemBySlug(slug string, active, affectParents bool) bool {
	item, ok := m.FindMenuItemBySlug(slug)
	return m.activate(item, ok, active, affectParents)
}

// SetActiveItemByName activates the first item with the given name.
func (m *Menu) SetActiveItemByName(name string, active, affectParents bool) bool {
	item, ok := m.FindMenuItemByName(name)
	return m.activate(item, ok, active, affectParents)
}

func (m *Menu) activate(item *Item, found, active, affectParents bool) bool {
	if !found {
		return false
	}
	item.setActive(active)
	m.SetActiveItem(item)
	if affectParents {
		for _, parent := range m.ancestors(item) {
			parent.setActive(active)
		}
	}
	return true
}
