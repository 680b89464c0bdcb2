// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the ocms-menu project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/ocms-menu/internal/cache"
	"github.com/olegiv/ocms-menu/internal/route"
	"github.com/olegiv/ocms-menu/internal/store"
)

// BaseURL is the site URL of TestRoutes.
const BaseURL = "https://example.com"

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary SQLite database with migrations applied.
// The database is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "ocms-menu-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// SeededDB creates a test database holding the demo menus.
func SeededDB(t *testing.T) *sql.DB {
	t.Helper()
	db := TestDB(t)
	if err := store.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

// TestRoutes returns the routes used by the demo menus.
func TestRoutes(t *testing.T) *route.Table {
	t.Helper()
	routes, err := route.NewTable(BaseURL)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	for name, pattern := range map[string]string{
		"home":      "/",
		"page":      "/page/{slug}",
		"permalink": "/*",
	} {
		if err := routes.Add(name, pattern); err != nil {
			t.Fatalf("adding route %s: %v", name, err)
		}
	}
	return routes
}

// TestCache returns an in-memory cache store closed when the test ends.
func TestCache(t *testing.T) *cache.MemoryStore {
	t.Helper()
	store := cache.NewMemoryStore(cache.MemoryOptions{})
	t.Cleanup(func() { _ = store.Close() })
	return store
}
