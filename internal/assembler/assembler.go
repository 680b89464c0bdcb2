// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package assembler builds menus from a relational data source, serving
// finished menus from the cache when possible.
package assembler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/olegiv/ocms-menu/internal/cache"
	"github.com/olegiv/ocms-menu/internal/menu"
)

var (
	// ErrNotLoaded is returned by the accessors before Generate succeeded.
	ErrNotLoaded = fmt.Errorf("%w: no menu was loaded, call Generate first", menu.ErrPrecondition)
	// ErrMenuNotFound is returned for anchors that were not generated.
	ErrMenuNotFound = fmt.Errorf("%w: menu not loaded", menu.ErrPrecondition)
	// ErrEmptyMenu is returned when a menu has no items in the locale.
	ErrEmptyMenu = fmt.Errorf("%w: menu has no items", menu.ErrStructural)
)

// Config holds the collaborators of an Assembler.
type Config struct {
	Source DataSource
	Routes menu.RouteResolver
	// Cache keeps finished menus. Optional.
	Cache cache.Store
	// UseCache enables cache lookups and saves. With UseCache=false and a
	// Cache set, stale entries are purged on every Menu read.
	UseCache bool
	Locale   string
	Logger   *slog.Logger
	// Meter records cache and build counters. Defaults to the global provider.
	Meter metric.Meter
}

// Assembler generates a set of menus and serves them until the next Generate.
type Assembler struct {
	cfg        Config
	logger     *slog.Logger
	metrics    *metrics
	collection *menu.Collection
	rootNodes  map[string]string
	loaded     bool
}

// New creates an assembler.
func New(cfg Config) (*Assembler, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("assembler: data source is required")
	}
	if cfg.Locale == "" {
		cfg.Locale = menu.DefaultLocale
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m, err := newMetrics(cfg.Meter)
	if err != nil {
		return nil, fmt.Errorf("creating metrics: %w", err)
	}
	return &Assembler{
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		collection: menu.NewCollection(),
		rootNodes:  make(map[string]string),
	}, nil
}

// Locale returns the locale menus are generated in.
func (a *Assembler) Locale() string { return a.cfg.Locale }

// UseCache reports whether finished menus are cached.
func (a *Assembler) UseCache() bool { return a.cfg.UseCache }

func (a *Assembler) cacheEnabled() bool {
	return a.cfg.UseCache && a.cfg.Cache != nil
}

// Generate loads the menus with the given anchors. Cached menus are taken as
// is; the rest are fetched from the data source in three bulk queries and
// built. rootNodes reroots a menu on one of its items; menuOptions holds
// builder options per menu anchor.
//
// Any failure aborts the whole batch and leaves previously generated menus
// untouched.
func (a *Assembler) Generate(ctx context.Context, anchors []string, rootNodes map[string]string, menuOptions map[string]map[string]any) error {
	anchors = dedupe(anchors)
	locale := a.cfg.Locale

	cached := make(map[string]*menu.Menu)
	var misses []string
	for _, anchor := range anchors {
		if a.cacheEnabled() {
			key := menu.CacheKey(anchor, locale, rootNodes[anchor])
			if m, ok := cache.NewTyped[menu.Menu](a.cfg.Cache).Get(ctx, key); ok {
				a.metrics.cacheHit(ctx, anchor, locale)
				cached[anchor] = m
				continue
			}
			a.metrics.cacheMiss(ctx, anchor, locale)
		}
		misses = append(misses, anchor)
	}

	built, err := a.build(ctx, misses, rootNodes, menuOptions)
	if err != nil {
		return err
	}

	next := menu.NewCollection()
	for _, m := range a.collection.Menus() {
		if !slices.Contains(anchors, m.Anchor()) {
			_ = next.AddMenu(m)
		}
	}
	for _, anchor := range anchors {
		m, ok := built[anchor]
		if !ok {
			m, ok = cached[anchor]
		}
		if !ok {
			a.logger.Debug("menu not found in data source", "menu", anchor, "locale", locale)
			continue
		}
		if err := next.AddMenu(m); err != nil {
			return err
		}
		if root := rootNodes[anchor]; root != "" {
			a.rootNodes[anchor] = root
		} else {
			delete(a.rootNodes, anchor)
		}
	}

	a.collection = next
	a.loaded = true
	a.logger.Debug("menus generated",
		"requested", len(anchors),
		"cached", len(cached),
		"built", len(built),
		"locale", locale,
	)
	return nil
}

func (a *Assembler) build(ctx context.Context, anchors []string, rootNodes map[string]string, menuOptions map[string]map[string]any) (map[string]*menu.Menu, error) {
	if len(anchors) == 0 {
		return nil, nil
	}
	locale := a.cfg.Locale

	menus, err := a.cfg.Source.FetchMenus(ctx, anchors, locale)
	if err != nil {
		return nil, fmt.Errorf("fetching menus: %w", err)
	}
	if len(menus) == 0 {
		return nil, nil
	}

	builders := make(map[string]*menu.Builder, len(menus))
	order := make([]string, 0, len(menus))
	ids := make([]int64, 0, len(menus))
	for _, row := range menus {
		ids = append(ids, row.ID)
		if _, ok := builders[row.Anchor]; ok {
			continue
		}
		b := menu.NewBuilder(menu.BuilderConfig{
			Routes:     a.cfg.Routes,
			Cache:      a.cfg.Cache,
			UseCache:   a.cfg.UseCache,
			RootAnchor: rootNodes[row.Anchor],
			Logger:     a.logger,
		})
		if err := b.CreateMenu(ctx, row.Anchor, row.DefaultRoute, locale, menuOptions[row.Anchor]); err != nil {
			a.metrics.build(ctx, row.Anchor, locale, err)
			return nil, err
		}
		builders[row.Anchor] = b
		order = append(order, row.Anchor)
	}

	items, err := a.cfg.Source.FetchItems(ctx, ids, locale)
	if err != nil {
		return nil, fmt.Errorf("fetching menu items: %w", err)
	}
	attributes, err := a.cfg.Source.FetchAttributes(ctx, ids, locale)
	if err != nil {
		return nil, fmt.Errorf("fetching menu item attributes: %w", err)
	}

	counts := make(map[string]int, len(builders))
	for _, row := range items {
		b, ok := builders[row.MenuAnchor]
		if !ok {
			continue
		}
		counts[row.MenuAnchor]++
		if err := b.CreateItem(row.Anchor, itemOptions(row, attributes.Get(row.MenuAnchor, row.Anchor))); err != nil {
			a.metrics.build(ctx, row.MenuAnchor, locale, err)
			return nil, err
		}
	}

	built := make(map[string]*menu.Menu, len(order))
	for _, anchor := range order {
		if counts[anchor] == 0 && !builders[anchor].Cached() {
			err := fmt.Errorf("menu %q, locale %q: %w", anchor, locale, ErrEmptyMenu)
			a.metrics.build(ctx, anchor, locale, err)
			return nil, err
		}
		m, err := builders[anchor].Menu(ctx)
		a.metrics.build(ctx, anchor, locale, err)
		if err != nil {
			a.logger.Error("failed to build menu", "menu", anchor, "locale", locale, "error", err)
			return nil, err
		}
		built[anchor] = m
	}
	return built, nil
}

func itemOptions(row ItemRecord, attrs *menu.Attributes) map[string]any {
	opts := map[string]any{
		"id":     row.ID,
		"name":   row.Name,
		"locale": row.Locale,
	}
	if row.Slug != "" {
		opts["slug"] = row.Slug
	}
	if row.ParentAnchor != "" {
		opts["parent"] = row.ParentAnchor
	}
	if row.Permalink != "" {
		opts["permalink"] = row.Permalink
	} else {
		opts["permalink_generate"] = true
	}
	if row.RouteName != "" {
		opts["route_name"] = row.RouteName
	} else if row.DefaultRoute != "" {
		opts["route_name"] = row.DefaultRoute
	}
	if attrs != nil {
		opts["attributes"] = attrs
	}
	return opts
}

func dedupe(anchors []string) []string {
	out := make([]string, 0, len(anchors))
	for _, anchor := range anchors {
		if anchor != "" && !slices.Contains(out, anchor) {
			out = append(out, anchor)
		}
	}
	return out
}

// Menu returns a generated menu. With caching disabled any cached copy of the
// menu is purged on every read.
func (a *Assembler) Menu(ctx context.Context, anchor string) (*menu.Menu, error) {
	if !a.loaded {
		return nil, ErrNotLoaded
	}
	m, ok := a.collection.Menu(anchor)
	if !ok {
		return nil, fmt.Errorf("menu %q (available: %s): %w",
			anchor, strings.Join(a.collection.Anchors(), ", "), ErrMenuNotFound)
	}
	if !a.cfg.UseCache && a.cfg.Cache != nil {
		a.purge(ctx, anchor)
	}
	return m, nil
}

func (a *Assembler) purge(ctx context.Context, anchor string) {
	key := menu.CacheKey(anchor, a.cfg.Locale, a.rootNodes[anchor])
	if err := a.cfg.Cache.Remove(ctx, key); err != nil {
		a.logger.Warn("failed to remove cached menu", "menu", anchor, "key", key, "error", err)
	}
	tag := menu.CacheTag(anchor)
	if err := a.cfg.Cache.CleanByTag(ctx, tag); err != nil {
		a.logger.Warn("failed to invalidate menu tag", "menu", anchor, "tag", tag, "error", err)
	}
}

// MenuItem returns one item of a generated menu.
func (a *Assembler) MenuItem(ctx context.Context, menuAnchor, itemAnchor string) (*menu.Item, error) {
	m, err := a.Menu(ctx, menuAnchor)
	if err != nil {
		return nil, err
	}
	item, ok := m.FindMenuItem(itemAnchor)
	if !ok {
		return nil, fmt.Errorf("menu %q, item %q: %w", menuAnchor, itemAnchor, menu.ErrItemNotFound)
	}
	return item, nil
}

// Collection returns all generated menus.
func (a *Assembler) Collection() (*menu.Collection, error) {
	if !a.loaded {
		return nil, ErrNotLoaded
	}
	return a.collection, nil
}

// Invalidate removes every cached variant of the given menus.
func (a *Assembler) Invalidate(ctx context.Context, anchors ...string) error {
	if a.cfg.Cache == nil || len(anchors) == 0 {
		return nil
	}
	tags := make([]string, 0, len(anchors))
	for _, anchor := range anchors {
		tags = append(tags, menu.CacheTag(anchor))
	}
	if err := a.cfg.Cache.CleanByTag(ctx, tags...); err != nil {
		return fmt.Errorf("invalidating menus: %w", err)
	}
	return nil
}
