// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"fmt"
	"slices"
)

// Collection is an insertion-ordered registry of menus keyed by anchor.
type Collection struct {
	anchors []string
	menus   map[string]*Menu
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{menus: make(map[string]*Menu)}
}

// AddMenu registers a menu. Anchors are unique within a collection.
func (c *Collection) AddMenu(m *Menu) error {
	if _, ok := c.menus[m.anchor]; ok {
		return fmt.Errorf("menu %q: %w", m.anchor, ErrDuplicateMenu)
	}
	c.anchors = append(c.anchors, m.anchor)
	c.menus[m.anchor] = m
	return nil
}

// Menu returns the menu with the given anchor.
func (c *Collection) Menu(anchor string) (*Menu, bool) {
	m, ok := c.menus[anchor]
	return m, ok
}

// HasMenu reports whether a menu with the given anchor is registered.
func (c *Collection) HasMenu(anchor string) bool {
	_, ok := c.menus[anchor]
	return ok
}

// RemoveMenu drops the menu with the given anchor, if present.
func (c *Collection) RemoveMenu(anchor string) {
	if _, ok := c.menus[anchor]; !ok {
		return
	}
	delete(c.menus, anchor)
	c.anchors = slices.DeleteFunc(c.anchors, func(a string) bool { return a == anchor })
}

// Anchors returns the registered anchors in insertion order.
func (c *Collection) Anchors() []string {
	return slices.Clone(c.anchors)
}

// Len returns the number of registered menus.
func (c *Collection) Len() int { return len(c.anchors) }

// Menus returns the registered menus in insertion order.
func (c *Collection) Menus() []*Menu {
	menus := make([]*Menu, 0, len(c.anchors))
	for _, anchor := range c.anchors {
		menus = append(menus, c.menus[anchor])
	}
	return menus
}

// FindActiveMenuItemByPermalink returns the first item with the given
// permalink across all menus, in insertion order, and marks it active.
func (c *Collection) FindActiveMenuItemByPermalink(permalink string) (*Item, *Menu, bool) {
	for _, anchor := range c.anchors {
		m := c.menus[anchor]
		if m.SetActiveItemByPermalink(permalink, true, false) {
			item, _ := m.ActiveItem()
			return item, m, true
		}
	}
	return nil, nil, false
}
