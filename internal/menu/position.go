// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"fmt"
	"slices"
)

// siblings returns the parent of the attached item with the given anchor.
func (m *Menu) siblings(anchor string) (*Item, *Item, error) {
	item, ok := m.FindMenuItem(anchor)
	if !ok {
		return nil, nil, itemError(ErrItemNotFound, m.anchor, anchor, "")
	}
	parent, ok := m.Parent(item)
	if !ok {
		return nil, nil, itemError(ErrParentNotFound, m.anchor, anchor, "")
	}
	return item, parent, nil
}

// ItemPosition returns the 1-based position of the item among its siblings.
func (m *Menu) ItemPosition(anchor string) (int, error) {
	if anchor == RootAnchor {
		return 1, nil
	}
	_, parent, err := m.siblings(anchor)
	if err != nil {
		return 0, err
	}
	return slices.Index(parent.children, anchor) + 1, nil
}

// MoveItemToPosition moves the item to the 1-based position among its
// siblings. Out-of-range positions are clamped; the order of the other
// siblings is kept.
func (m *Menu) MoveItemToPosition(anchor string, position int) error {
	_, parent, err := m.siblings(anchor)
	if err != nil {
		return err
	}
	idx := slices.Index(parent.children, anchor)
	rest := slices.Delete(slices.Clone(parent.children), idx, idx+1)
	position = max(1, min(position, len(rest)+1))
	parent.children = slices.Insert(rest, position-1, anchor)
	return nil
}

// MoveItemToFirstPosition moves the item before all of its siblings.
func (m *Menu) MoveItemToFirstPosition(anchor string) error {
	return m.MoveItemToPosition(anchor, 1)
}

// MoveItemToLastPosition moves the item after all of its siblings.
func (m *Menu) MoveItemToLastPosition(anchor string) error {
	_, parent, err := m.siblings(anchor)
	if err != nil {
		return err
	}
	return m.MoveItemToPosition(anchor, len(parent.children))
}

// MoveToParent re-parents the item with its whole subtree. An empty anchor or
// "root" moves it to the top level. Moving an item below itself or one of its
// descendants is rejected.
func (m *Menu) MoveToParent(anchor, newParentAnchor string) error {
	item, oldParent, err := m.siblings(anchor)
	if err != nil {
		return err
	}

	newParent := m.Root()
	if newParentAnchor != "" && newParentAnchor != RootAnchor {
		p, ok := m.FindMenuItem(newParentAnchor)
		if !ok {
			return itemError(ErrParentNotFound, m.anchor, anchor, "parent %q", newParentAnchor)
		}
		newParent = p
	}
	if newParent == oldParent {
		return nil
	}
	if newParent == item || slices.Contains(m.ancestors(newParent), item) {
		return itemError(ErrParentNotFound, m.anchor, anchor, "parent %q is inside the moved subtree", newParentAnchor)
	}

	if err := newParent.AddChild(item); err != nil {
		return fmt.Errorf("menu %q: %w", m.anchor, err)
	}
	oldParent.RemoveChild(anchor)
	item.SetParent(newParent)
	m.walk(item, func(child *Item) bool {
		child.level = -1
		return true
	})
	return nil
}

// ChangeParent is an alias for MoveToParent.
func (m *Menu) ChangeParent(anchor, newParentAnchor string) error {
	return m.MoveToParent(anchor, newParentAnchor)
}
