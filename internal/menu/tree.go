// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

// Node is a nested, read-only view of an item for rendering. Attributes and
// Special are copies that keep insertion order, also in JSON.
type Node struct {
	Anchor     string      `json:"anchor"`
	ID         string      `json:"id,omitempty"`
	Name       string      `json:"name"`
	Slug       string      `json:"slug,omitempty"`
	Permalink  string      `json:"permalink,omitempty"`
	URI        string      `json:"uri,omitempty"`
	Locale     string      `json:"locale"`
	Active     bool        `json:"active"`
	Level      int         `json:"level"`
	Attributes *Attributes `json:"attributes,omitempty"`
	Special    *Attributes `json:"special,omitempty"`
	Children   []Node      `json:"children,omitempty"`
}

// Tree returns the top-level nodes of the menu.
func (m *Menu) Tree() []Node {
	return m.nodes(m.Root(), 1)
}

func (m *Menu) nodes(parent *Item, depth int) []Node {
	children := m.Children(parent)
	if len(children) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(children))
	for _, it := range children {
		n := Node{
			Anchor:    it.anchor,
			ID:        it.id,
			Name:      it.name,
			Slug:      it.slug,
			Permalink: it.permalink,
			URI:       it.uri,
			Locale:    it.locale,
			Active:    it.active,
			Level:     depth,
			Children:  m.nodes(it, depth+1),
		}
		if it.HasAttributes() {
			n.Attributes = copyValues(it.attributes)
		}
		if it.special != nil && it.special.Len() > 0 {
			n.Special = copyValues(it.special.values)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func copyValues(src *Attributes) *Attributes {
	dst := NewAttributes()
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		dst.Set(pair.Key, pair.Value)
	}
	return dst
}
