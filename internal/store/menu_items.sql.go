// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createMenuItem = `
INSERT INTO menu_items (menu_id, parent_id, anchor, position, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateMenuItemParams struct {
	MenuID    int64         `json:"menu_id"`
	ParentID  sql.NullInt64 `json:"parent_id"`
	Anchor    string        `json:"anchor"`
	Position  int64         `json:"position"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	result, err := q.db.ExecContext(ctx, createMenuItem,
		arg.MenuID,
		arg.ParentID,
		arg.Anchor,
		arg.Position,
		arg.IsActive,
		arg.CreatedAt,
	)
	if err != nil {
		return MenuItem{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return MenuItem{}, err
	}
	return MenuItem{
		ID:        id,
		MenuID:    arg.MenuID,
		ParentID:  arg.ParentID,
		Anchor:    arg.Anchor,
		Position:  arg.Position,
		IsActive:  arg.IsActive,
		CreatedAt: arg.CreatedAt,
	}, nil
}

const createMenuItemTranslation = `
INSERT INTO menu_item_translations (item_id, locale, name, slug, permalink, route)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateMenuItemTranslationParams struct {
	ItemID    int64          `json:"item_id"`
	Locale    string         `json:"locale"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Permalink string         `json:"permalink"`
	Route     sql.NullString `json:"route"`
}

func (q *Queries) CreateMenuItemTranslation(ctx context.Context, arg CreateMenuItemTranslationParams) error {
	_, err := q.db.ExecContext(ctx, createMenuItemTranslation,
		arg.ItemID,
		arg.Locale,
		arg.Name,
		arg.Slug,
		arg.Permalink,
		arg.Route,
	)
	return err
}

const createMenuItemAttribute = `
INSERT INTO menu_item_attributes (item_id, locale, attribute, value, position)
VALUES (?, ?, ?, ?, ?)
`

type CreateMenuItemAttributeParams struct {
	ItemID    int64  `json:"item_id"`
	Locale    string `json:"locale"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Position  int64  `json:"position"`
}

func (q *Queries) CreateMenuItemAttribute(ctx context.Context, arg CreateMenuItemAttributeParams) error {
	_, err := q.db.ExecContext(ctx, createMenuItemAttribute,
		arg.ItemID,
		arg.Locale,
		arg.Attribute,
		arg.Value,
		arg.Position,
	)
	return err
}

const setMenuItemActive = `
UPDATE menu_items SET is_active = ? WHERE id = ?
`

func (q *Queries) SetMenuItemActive(ctx context.Context, id int64, active bool) error {
	_, err := q.db.ExecContext(ctx, setMenuItemActive, active, id)
	return err
}

const listMenuItemsByMenuIDs = `
SELECT
    i.id,
    i.anchor,
    p.anchor AS parent_anchor,
    m.anchor AS menu_anchor,
    t.name,
    t.slug,
    t.permalink,
    COALESCE(t.route, mt.default_route) AS route_name,
    mt.default_route,
    t.locale
FROM menu_items i
JOIN menus m ON m.id = i.menu_id
JOIN menu_translations mt ON mt.menu_id = m.id AND mt.locale = ?
JOIN menu_item_translations t ON t.item_id = i.id AND t.locale = ?
LEFT JOIN menu_items p ON p.id = i.parent_id
WHERE i.menu_id IN (/*SLICE*/?)
  AND i.is_active = 1
  AND i.deleted_at IS NULL
ORDER BY i.menu_id ASC, i.tree_left ASC
`

type ListMenuItemsByMenuIDsRow struct {
	ID           int64          `json:"id"`
	Anchor       string         `json:"anchor"`
	ParentAnchor sql.NullString `json:"parent_anchor"`
	MenuAnchor   string         `json:"menu_anchor"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Permalink    string         `json:"permalink"`
	RouteName    string         `json:"route_name"`
	DefaultRoute string         `json:"default_route"`
	Locale       string         `json:"locale"`
}

// ListMenuItemsByMenuIDs returns the item trees of the given menus ordered by
// menu and nested-set left value, so parents precede their children.
func (q *Queries) ListMenuItemsByMenuIDs(ctx context.Context, menuIDs []int64, locale string) ([]ListMenuItemsByMenuIDsRow, error) {
	if len(menuIDs) == 0 {
		return nil, nil
	}
	query, args := inClause(listMenuItemsByMenuIDs, menuIDs)
	rows, err := q.db.QueryContext(ctx, query, append([]any{locale, locale}, args...)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ListMenuItemsByMenuIDsRow
	for rows.Next() {
		var i ListMenuItemsByMenuIDsRow
		if err := rows.Scan(
			&i.ID,
			&i.Anchor,
			&i.ParentAnchor,
			&i.MenuAnchor,
			&i.Name,
			&i.Slug,
			&i.Permalink,
			&i.RouteName,
			&i.DefaultRoute,
			&i.Locale,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listMenuItemAttributes = `
SELECT m.anchor AS menu_anchor, i.anchor AS item_anchor, a.attribute, a.value
FROM menu_item_attributes a
JOIN menu_items i ON i.id = a.item_id
JOIN menus m ON m.id = i.menu_id
JOIN menu_item_translations t ON t.item_id = i.id AND t.locale = ?
WHERE m.id IN (/*SLICE*/?)
  AND a.locale = ?
  AND i.is_active = 1
  AND i.deleted_at IS NULL
ORDER BY m.id, i.tree_left, a.position, a.id
`

type ListMenuItemAttributesRow struct {
	MenuAnchor string `json:"menu_anchor"`
	ItemAnchor string `json:"item_anchor"`
	Attribute  string `json:"attribute"`
	Value      string `json:"value"`
}

// ListMenuItemAttributes returns the attributes of the active items of the
// given menus in locale, in attribute position order.
func (q *Queries) ListMenuItemAttributes(ctx context.Context, menuIDs []int64, locale string) ([]ListMenuItemAttributesRow, error) {
	if len(menuIDs) == 0 {
		return nil, nil
	}
	query, args := inClause(listMenuItemAttributes, menuIDs)
	params := append([]any{locale}, args...)
	params = append(params, locale)
	rows, err := q.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ListMenuItemAttributesRow
	for rows.Next() {
		var i ListMenuItemAttributesRow
		if err := rows.Scan(&i.MenuAnchor, &i.ItemAnchor, &i.Attribute, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listMenuItemsForTree = `
SELECT id, parent_id
FROM menu_items
WHERE menu_id = ?
ORDER BY position, id
`

type ListMenuItemsForTreeRow struct {
	ID       int64         `json:"id"`
	ParentID sql.NullInt64 `json:"parent_id"`
}

func (q *Queries) ListMenuItemsForTree(ctx context.Context, menuID int64) ([]ListMenuItemsForTreeRow, error) {
	rows, err := q.db.QueryContext(ctx, listMenuItemsForTree, menuID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ListMenuItemsForTreeRow
	for rows.Next() {
		var i ListMenuItemsForTreeRow
		if err := rows.Scan(&i.ID, &i.ParentID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMenuItemTree = `
UPDATE menu_items SET tree_left = ?, tree_right = ?, tree_level = ? WHERE id = ?
`

type UpdateMenuItemTreeParams struct {
	TreeLeft  int64 `json:"tree_left"`
	TreeRight int64 `json:"tree_right"`
	TreeLevel int64 `json:"tree_level"`
	ID        int64 `json:"id"`
}

func (q *Queries) UpdateMenuItemTree(ctx context.Context, arg UpdateMenuItemTreeParams) error {
	_, err := q.db.ExecContext(ctx, updateMenuItemTree, arg.TreeLeft, arg.TreeRight, arg.TreeLevel, arg.ID)
	return err
}

const getMenuItemByAnchor = `
SELECT id, menu_id, parent_id, anchor, position, tree_left, tree_right, tree_level, is_active, deleted_at, created_at
FROM menu_items
WHERE menu_id = ? AND anchor = ?
`

func (q *Queries) GetMenuItemByAnchor(ctx context.Context, menuID int64, anchor string) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, getMenuItemByAnchor, menuID, anchor)
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.MenuID,
		&i.ParentID,
		&i.Anchor,
		&i.Position,
		&i.TreeLeft,
		&i.TreeRight,
		&i.TreeLevel,
		&i.IsActive,
		&i.DeletedAt,
		&i.CreatedAt,
	)
	return i, err
}
