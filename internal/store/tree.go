// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RebuildTree recomputes the nested-set columns of a menu from parent_id and
// position. Top-level items get level 1. Items that cannot be reached from
// the top level (parent cycles) fail the rebuild.
func RebuildTree(ctx context.Context, db *sql.DB, menuID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := New(tx)
	rows, err := q.ListMenuItemsForTree(ctx, menuID)
	if err != nil {
		return fmt.Errorf("listing menu items: %w", err)
	}

	children := make(map[int64][]int64)
	var top []int64
	for _, row := range rows {
		if row.ParentID.Valid {
			children[row.ParentID.Int64] = append(children[row.ParentID.Int64], row.ID)
		} else {
			top = append(top, row.ID)
		}
	}

	var (
		counter int64
		visited = make(map[int64]bool, len(rows))
		walk    func(id, level int64) error
	)
	walk = func(id, level int64) error {
		visited[id] = true
		counter++
		left := counter
		for _, child := range children[id] {
			if err := walk(child, level+1); err != nil {
				return err
			}
		}
		counter++
		return q.UpdateMenuItemTree(ctx, UpdateMenuItemTreeParams{
			TreeLeft:  left,
			TreeRight: counter,
			TreeLevel: level,
			ID:        id,
		})
	}
	for _, id := range top {
		if err := walk(id, 1); err != nil {
			return fmt.Errorf("updating menu item %d: %w", id, err)
		}
	}
	if len(visited) != len(rows) {
		return fmt.Errorf("menu %d: %d items are not reachable from the top level", menuID, len(rows)-len(visited))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
