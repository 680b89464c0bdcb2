// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/olegiv/ocms-menu/internal/assembler"
	"github.com/olegiv/ocms-menu/internal/menu"
)

// DataSource serves the assembler from the menu tables.
type DataSource struct {
	queries *Queries
}

// NewDataSource creates a data source over db.
func NewDataSource(db DBTX) *DataSource {
	return &DataSource{queries: New(db)}
}

// FetchMenus implements assembler.DataSource.
func (s *DataSource) FetchMenus(ctx context.Context, anchors []string, locale string) ([]assembler.MenuRecord, error) {
	rows, err := s.queries.ListMenusByAnchors(ctx, anchors, locale)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	out := make([]assembler.MenuRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, assembler.MenuRecord{
			ID:           row.ID,
			Anchor:       row.Anchor,
			Name:         row.Name,
			DefaultRoute: row.DefaultRoute,
		})
	}
	return out, nil
}

// FetchItems implements assembler.DataSource.
func (s *DataSource) FetchItems(ctx context.Context, menuIDs []int64, locale string) ([]assembler.ItemRecord, error) {
	rows, err := s.queries.ListMenuItemsByMenuIDs(ctx, menuIDs, locale)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	out := make([]assembler.ItemRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, assembler.ItemRecord{
			ID:           row.ID,
			Anchor:       row.Anchor,
			ParentAnchor: row.ParentAnchor.String,
			MenuAnchor:   row.MenuAnchor,
			Name:         row.Name,
			Slug:         row.Slug,
			Permalink:    row.Permalink,
			RouteName:    row.RouteName,
			DefaultRoute: row.DefaultRoute,
			Locale:       row.Locale,
		})
	}
	return out, nil
}

// FetchAttributes implements assembler.DataSource.
func (s *DataSource) FetchAttributes(ctx context.Context, menuIDs []int64, locale string) (assembler.Attributes, error) {
	rows, err := s.queries.ListMenuItemAttributes(ctx, menuIDs, locale)
	if err != nil {
		return nil, fmt.Errorf("listing menu item attributes: %w", err)
	}
	out := make(assembler.Attributes)
	for _, row := range rows {
		items, ok := out[row.MenuAnchor]
		if !ok {
			items = make(map[string]*menu.Attributes)
			out[row.MenuAnchor] = items
		}
		attrs, ok := items[row.ItemAnchor]
		if !ok {
			attrs = menu.NewAttributes()
			items[row.ItemAnchor] = attrs
		}
		attrs.Set(row.Attribute, row.Value)
	}
	return out, nil
}

// ListAnchors returns the anchors of all active menus.
func (s *DataSource) ListAnchors(ctx context.Context) ([]string, error) {
	anchors, err := s.queries.ListMenuAnchors(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menu anchors: %w", err)
	}
	return anchors, nil
}
