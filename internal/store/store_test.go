// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "ocms-menu-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db, DriverSQLite); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testDB(t)
	t.Cleanup(cleanup)
	if err := Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

func TestMigrate(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	version, err := SchemaVersion(db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// Running again is a no-op.
	require.NoError(t, Migrate(db, DriverSQLite))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("postgres", "", DefaultDBConfig())
	assert.ErrorContains(t, err, "unsupported database driver")

	assert.Error(t, Migrate(nil, "postgres"))
}

func TestListMenusByAnchors(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	q := New(db)

	rows, err := q.ListMenusByAnchors(ctx, []string{"main", "footer", "missing"}, SeedLocaleCS)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "main", rows[0].Anchor)
	assert.Equal(t, "Hlavní navigace", rows[0].Name)
	assert.Equal(t, "permalink", rows[0].DefaultRoute)
	assert.Equal(t, "footer", rows[1].Anchor)

	rows, err = q.ListMenusByAnchors(ctx, []string{"main"}, "de_DE")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = q.ListMenusByAnchors(ctx, nil, SeedLocaleEN)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestListMenusByAnchorsSkipsDeleted(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	q := New(db)

	footer, err := q.GetMenuByAnchor(ctx, "footer")
	require.NoError(t, err)
	require.NoError(t, q.SoftDeleteMenu(ctx, footer.ID, time.Now()))

	rows, err := q.ListMenusByAnchors(ctx, []string{"main", "footer"}, SeedLocaleEN)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "main", rows[0].Anchor)

	anchors, err := q.ListMenuAnchors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, anchors)
}

func TestListMenuItemsByMenuIDs(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	q := New(db)

	main, err := q.GetMenuByAnchor(ctx, "main")
	require.NoError(t, err)

	rows, err := q.ListMenuItemsByMenuIDs(ctx, []int64{main.ID}, SeedLocaleEN)
	require.NoError(t, err)

	var anchors, parents, routes []string
	for _, row := range rows {
		anchors = append(anchors, row.Anchor)
		parents = append(parents, row.ParentAnchor.String)
		routes = append(routes, row.RouteName)
		assert.Equal(t, "main", row.MenuAnchor)
		assert.Equal(t, SeedLocaleEN, row.Locale)
		assert.Equal(t, "permalink", row.DefaultRoute)
	}
	assert.Equal(t, []string{"home", "products", "software", "hardware", "laptops", "about"}, anchors)
	assert.Equal(t, []string{"", "", "products", "products", "hardware", ""}, parents)
	assert.Equal(t, []string{"home", "permalink", "permalink", "permalink", "permalink", "page"}, routes)
}

func TestListMenuItemsInactiveItem(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	q := New(db)

	main, err := q.GetMenuByAnchor(ctx, "main")
	require.NoError(t, err)
	hardware, err := q.GetMenuItemByAnchor(ctx, main.ID, "hardware")
	require.NoError(t, err)
	require.NoError(t, q.SetMenuItemActive(ctx, hardware.ID, false))

	rows, err := q.ListMenuItemsByMenuIDs(ctx, []int64{main.ID}, SeedLocaleEN)
	require.NoError(t, err)
	for _, row := range rows {
		assert.NotEqual(t, "hardware", row.Anchor)
	}
}

func TestRebuildTree(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	q := New(db)

	main, err := q.GetMenuByAnchor(ctx, "main")
	require.NoError(t, err)

	want := map[string][3]int64{
		"home":     {1, 2, 1},
		"products": {3, 10, 1},
		"software": {4, 5, 2},
		"hardware": {6, 9, 2},
		"laptops":  {7, 8, 3},
		"about":    {11, 12, 1},
		"archive":  {13, 14, 1},
	}
	for anchor, set := range want {
		item, err := q.GetMenuItemByAnchor(ctx, main.ID, anchor)
		require.NoError(t, err, anchor)
		assert.Equal(t, set, [3]int64{item.TreeLeft, item.TreeRight, item.TreeLevel}, anchor)
	}
}

func TestListMenuItemAttributes(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	q := New(db)

	rows, err := q.ListMenusByAnchors(ctx, []string{"main", "footer"}, SeedLocaleEN)
	require.NoError(t, err)
	ids := []int64{rows[0].ID, rows[1].ID}

	attrs, err := q.ListMenuItemAttributes(ctx, ids, SeedLocaleEN)
	require.NoError(t, err)

	var got []string
	for _, a := range attrs {
		got = append(got, a.MenuAnchor+"/"+a.ItemAnchor+"/"+a.Attribute+"="+a.Value)
	}
	assert.Equal(t, []string{
		"main/home/class=nav-home",
		"main/home/icon=house",
		"main/laptops/badge=new",
		"footer/contact/rel=nofollow",
	}, got)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))

	anchors, err := New(db).ListMenuAnchors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "footer"}, anchors)
}

func TestSeedMenusUnknownParent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	err := SeedMenus(context.Background(), db, SeedMenu{
		Anchor:       "broken",
		Translations: map[string]SeedMenuTranslation{SeedLocaleEN: {Name: "Broken"}},
		Items:        []SeedItem{{Anchor: "child", Parent: "ghost"}},
	})
	assert.ErrorContains(t, err, "parent ghost not seeded yet")
}
