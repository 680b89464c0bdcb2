// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Menu struct {
	ID        int64        `json:"id"`
	Anchor    string       `json:"anchor"`
	IsActive  bool         `json:"is_active"`
	DeletedAt sql.NullTime `json:"deleted_at"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type MenuTranslation struct {
	ID           int64  `json:"id"`
	MenuID       int64  `json:"menu_id"`
	Locale       string `json:"locale"`
	Name         string `json:"name"`
	DefaultRoute string `json:"default_route"`
}

type MenuItem struct {
	ID        int64         `json:"id"`
	MenuID    int64         `json:"menu_id"`
	ParentID  sql.NullInt64 `json:"parent_id"`
	Anchor    string        `json:"anchor"`
	Position  int64         `json:"position"`
	TreeLeft  int64         `json:"tree_left"`
	TreeRight int64         `json:"tree_right"`
	TreeLevel int64         `json:"tree_level"`
	IsActive  bool          `json:"is_active"`
	DeletedAt sql.NullTime  `json:"deleted_at"`
	CreatedAt time.Time     `json:"created_at"`
}

type MenuItemTranslation struct {
	ID        int64          `json:"id"`
	ItemID    int64          `json:"item_id"`
	Locale    string         `json:"locale"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Permalink string         `json:"permalink"`
	Route     sql.NullString `json:"route"`
}

type MenuItemAttribute struct {
	ID        int64  `json:"id"`
	ItemID    int64  `json:"item_id"`
	Locale    string `json:"locale"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Position  int64  `json:"position"`
}
