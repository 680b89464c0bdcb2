// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package assembler

import (
	"context"

	"github.com/olegiv/ocms-menu/internal/menu"
)

// MenuRecord is one menu row in the requested locale.
type MenuRecord struct {
	ID           int64
	Anchor       string
	Name         string
	DefaultRoute string
}

// ItemRecord is one item row in the requested locale. ParentAnchor is empty
// for top-level items.
type ItemRecord struct {
	ID           int64
	Anchor       string
	ParentAnchor string
	MenuAnchor   string
	Name         string
	Slug         string
	Permalink    string
	RouteName    string
	DefaultRoute string
	Locale       string
}

// Attributes groups item attributes by menu anchor, then item anchor.
type Attributes map[string]map[string]*menu.Attributes

// Get returns the attributes of one item, or nil.
func (a Attributes) Get(menuAnchor, itemAnchor string) *menu.Attributes {
	return a[menuAnchor][itemAnchor]
}

// DataSource loads menu definitions in bulk.
//
// FetchMenus returns only active, not deleted menus translated into locale.
// FetchItems returns the active items of the given menus ordered by menu and
// tree position, parents before children.
type DataSource interface {
	FetchMenus(ctx context.Context, anchors []string, locale string) ([]MenuRecord, error)
	FetchItems(ctx context.Context, menuIDs []int64, locale string) ([]ItemRecord, error)
	FetchAttributes(ctx context.Context, menuIDs []int64, locale string) (Attributes, error)
}
