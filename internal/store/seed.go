// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/olegiv/ocms-menu/internal/util"
)

// Seed locales.
const (
	SeedLocaleEN = "en_US"
	SeedLocaleCS = "cs_CZ"
)

// SeedMenu describes one menu to insert. Translations are keyed by locale.
type SeedMenu struct {
	Anchor       string
	Translations map[string]SeedMenuTranslation
	Items        []SeedItem
}

// SeedMenuTranslation is the localized part of a SeedMenu.
type SeedMenuTranslation struct {
	Name         string
	DefaultRoute string
}

// SeedItem describes one menu item. Parent refers to an item anchor of the
// same menu declared earlier in the list.
type SeedItem struct {
	Anchor       string
	Parent       string
	Inactive     bool
	Translations map[string]SeedItemTranslation
	Attributes   map[string][]SeedAttribute
}

// SeedItemTranslation is the localized part of a SeedItem.
type SeedItemTranslation struct {
	Name      string
	Slug      string
	Permalink string
	Route     string
}

// SeedAttribute is one item attribute.
type SeedAttribute struct {
	Name  string
	Value string
}

// DemoMenus returns the demo menus created by Seed.
func DemoMenus() []SeedMenu {
	return []SeedMenu{
		{
			Anchor: "main",
			Translations: map[string]SeedMenuTranslation{
				SeedLocaleEN: {Name: "Main navigation", DefaultRoute: "permalink"},
				SeedLocaleCS: {Name: "Hlavní navigace", DefaultRoute: "permalink"},
			},
			Items: []SeedItem{
				{
					Anchor: "home",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Home", Slug: "home", Route: "home"},
						SeedLocaleCS: {Name: "Domů", Slug: "domu", Route: "home"},
					},
					Attributes: map[string][]SeedAttribute{
						SeedLocaleEN: {{"class", "nav-home"}, {"icon", "house"}},
						SeedLocaleCS: {{"class", "nav-home"}, {"icon", "house"}},
					},
				},
				{
					Anchor: "products",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Products", Slug: "products"},
						SeedLocaleCS: {Name: "Produkty", Slug: "produkty"},
					},
				},
				{
					Anchor: "software",
					Parent: "products",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Software", Slug: "software"},
						SeedLocaleCS: {Name: "Software", Slug: "software"},
					},
				},
				{
					Anchor: "hardware",
					Parent: "products",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Hardware", Slug: "hardware"},
						SeedLocaleCS: {Name: "Hardware", Slug: "hardware"},
					},
				},
				{
					Anchor: "laptops",
					Parent: "hardware",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Laptops", Slug: "laptops"},
						SeedLocaleCS: {Name: "Notebooky", Slug: "notebooky"},
					},
					Attributes: map[string][]SeedAttribute{
						SeedLocaleEN: {{"badge", "new"}},
					},
				},
				{
					Anchor: "about",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "About us", Slug: "about", Route: "page"},
						SeedLocaleCS: {Name: "O nás", Slug: "o-nas", Route: "page"},
					},
				},
				{
					Anchor:   "archive",
					Inactive: true,
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Archive", Slug: "archive"},
					},
				},
			},
		},
		{
			Anchor: "footer",
			Translations: map[string]SeedMenuTranslation{
				SeedLocaleEN: {Name: "Footer", DefaultRoute: "page"},
				SeedLocaleCS: {Name: "Patička", DefaultRoute: "page"},
			},
			Items: []SeedItem{
				{
					Anchor: "privacy",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Privacy policy", Slug: "privacy", Permalink: "legal/privacy"},
						SeedLocaleCS: {Name: "Ochrana soukromí", Slug: "soukromi", Permalink: "pravni/soukromi"},
					},
				},
				{
					Anchor: "contact",
					Translations: map[string]SeedItemTranslation{
						SeedLocaleEN: {Name: "Contact", Slug: "contact"},
						SeedLocaleCS: {Name: "Kontakt", Slug: "kontakt"},
					},
					Attributes: map[string][]SeedAttribute{
						SeedLocaleEN: {{"rel", "nofollow"}},
						SeedLocaleCS: {{"rel", "nofollow"}},
					},
				},
			},
		},
	}
}

// Seed inserts the demo menus unless a menu named "main" already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetMenuByAnchor(ctx, "main")
	if err == nil {
		slog.Info("menus already exist, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for main menu: %w", err)
	}

	for _, m := range DemoMenus() {
		if err := SeedMenus(ctx, db, m); err != nil {
			return err
		}
	}
	slog.Info("seeded demo menus", "count", len(DemoMenus()))
	return nil
}

// SeedMenus inserts the given menus and rebuilds their nested-set columns.
func SeedMenus(ctx context.Context, db *sql.DB, menus ...SeedMenu) error {
	queries := New(db)
	now := time.Now()

	for _, m := range menus {
		row, err := queries.CreateMenu(ctx, CreateMenuParams{
			Anchor:    m.Anchor,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("creating menu %s: %w", m.Anchor, err)
		}
		for _, locale := range sortedLocales(m.Translations) {
			tr := m.Translations[locale]
			if _, err := queries.CreateMenuTranslation(ctx, CreateMenuTranslationParams{
				MenuID:       row.ID,
				Locale:       locale,
				Name:         tr.Name,
				DefaultRoute: tr.DefaultRoute,
			}); err != nil {
				return fmt.Errorf("creating menu %s translation %s: %w", m.Anchor, locale, err)
			}
		}

		ids := make(map[string]int64, len(m.Items))
		for position, item := range m.Items {
			var parent sql.NullInt64
			if item.Parent != "" {
				id, ok := ids[item.Parent]
				if !ok {
					return fmt.Errorf("menu %s item %s: parent %s not seeded yet", m.Anchor, item.Anchor, item.Parent)
				}
				parent = util.NullInt64FromValue(id)
			}
			created, err := queries.CreateMenuItem(ctx, CreateMenuItemParams{
				MenuID:    row.ID,
				ParentID:  parent,
				Anchor:    item.Anchor,
				Position:  int64(position + 1),
				IsActive:  !item.Inactive,
				CreatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("creating menu item %s: %w", item.Anchor, err)
			}
			ids[item.Anchor] = created.ID

			for _, locale := range sortedLocales(item.Translations) {
				tr := item.Translations[locale]
				if err := queries.CreateMenuItemTranslation(ctx, CreateMenuItemTranslationParams{
					ItemID:    created.ID,
					Locale:    locale,
					Name:      tr.Name,
					Slug:      tr.Slug,
					Permalink: tr.Permalink,
					Route:     util.NullStringFromValue(tr.Route),
				}); err != nil {
					return fmt.Errorf("creating menu item %s translation %s: %w", item.Anchor, locale, err)
				}
			}
			for locale, attrs := range item.Attributes {
				for i, attr := range attrs {
					if err := queries.CreateMenuItemAttribute(ctx, CreateMenuItemAttributeParams{
						ItemID:    created.ID,
						Locale:    locale,
						Attribute: attr.Name,
						Value:     attr.Value,
						Position:  int64(i + 1),
					}); err != nil {
						return fmt.Errorf("creating menu item %s attribute %s: %w", item.Anchor, attr.Name, err)
					}
				}
			}
		}

		if err := RebuildTree(ctx, db, row.ID); err != nil {
			return fmt.Errorf("rebuilding menu %s tree: %w", m.Anchor, err)
		}
	}
	return nil
}

func sortedLocales[V any](m map[string]V) []string {
	locales := make([]string, 0, len(m))
	for locale := range m {
		locales = append(locales, locale)
	}
	slices.Sort(locales)
	return locales
}
