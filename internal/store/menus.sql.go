// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createMenu = `
INSERT INTO menus (anchor, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?)
`

type CreateMenuParams struct {
	Anchor    string    `json:"anchor"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	result, err := q.db.ExecContext(ctx, createMenu, arg.Anchor, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return Menu{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Menu{}, err
	}
	return Menu{
		ID:        id,
		Anchor:    arg.Anchor,
		IsActive:  arg.IsActive,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}, nil
}

const createMenuTranslation = `
INSERT INTO menu_translations (menu_id, locale, name, default_route)
VALUES (?, ?, ?, ?)
`

type CreateMenuTranslationParams struct {
	MenuID       int64  `json:"menu_id"`
	Locale       string `json:"locale"`
	Name         string `json:"name"`
	DefaultRoute string `json:"default_route"`
}

func (q *Queries) CreateMenuTranslation(ctx context.Context, arg CreateMenuTranslationParams) (MenuTranslation, error) {
	result, err := q.db.ExecContext(ctx, createMenuTranslation, arg.MenuID, arg.Locale, arg.Name, arg.DefaultRoute)
	if err != nil {
		return MenuTranslation{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return MenuTranslation{}, err
	}
	return MenuTranslation{
		ID:           id,
		MenuID:       arg.MenuID,
		Locale:       arg.Locale,
		Name:         arg.Name,
		DefaultRoute: arg.DefaultRoute,
	}, nil
}

const getMenuByAnchor = `
SELECT id, anchor, is_active, deleted_at, created_at, updated_at
FROM menus
WHERE anchor = ?
`

func (q *Queries) GetMenuByAnchor(ctx context.Context, anchor string) (Menu, error) {
	row := q.db.QueryRowContext(ctx, getMenuByAnchor, anchor)
	var i Menu
	err := row.Scan(
		&i.ID,
		&i.Anchor,
		&i.IsActive,
		&i.DeletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const softDeleteMenu = `
UPDATE menus SET deleted_at = ?, updated_at = ? WHERE id = ?
`

func (q *Queries) SoftDeleteMenu(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, softDeleteMenu, at, at, id)
	return err
}

const listMenusByAnchors = `
SELECT m.id, m.anchor, t.name, t.default_route
FROM menus m
JOIN menu_translations t ON t.menu_id = m.id
WHERE m.deleted_at IS NULL
  AND m.is_active = 1
  AND t.locale = ?
  AND m.anchor IN (/*SLICE*/?)
ORDER BY m.id
`

type ListMenusByAnchorsRow struct {
	ID           int64  `json:"id"`
	Anchor       string `json:"anchor"`
	Name         string `json:"name"`
	DefaultRoute string `json:"default_route"`
}

// ListMenusByAnchors returns the active, not deleted menus with a translation
// in locale. An empty anchor list matches nothing.
func (q *Queries) ListMenusByAnchors(ctx context.Context, anchors []string, locale string) ([]ListMenusByAnchorsRow, error) {
	if len(anchors) == 0 {
		return nil, nil
	}
	query, args := inClause(listMenusByAnchors, anchors)
	rows, err := q.db.QueryContext(ctx, query, append([]any{locale}, args...)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ListMenusByAnchorsRow
	for rows.Next() {
		var i ListMenusByAnchorsRow
		if err := rows.Scan(&i.ID, &i.Anchor, &i.Name, &i.DefaultRoute); err != nil {
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

const listMenuAnchors = `
SELECT anchor FROM menus WHERE deleted_at IS NULL AND is_active = 1 ORDER BY id
`

// ListMenuAnchors returns the anchors of all active menus.
func (q *Queries) ListMenuAnchors(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listMenuAnchors)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var anchors []string
	for rows.Next() {
		var anchor string
		if err := rows.Scan(&anchor); err != nil {
			return nil, err
		}
		anchors = append(anchors, anchor)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return anchors, nil
}
