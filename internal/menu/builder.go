// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/ocms-menu/internal/cache"
	"github.com/olegiv/ocms-menu/internal/route"
	"github.com/olegiv/ocms-menu/internal/util"
)

// RouteResolver looks up named routes and renders URIs for them.
type RouteResolver interface {
	ResolveRoute(name string) (route.Route, bool)
	GenerateURI(name string, params map[string]string, pathType route.PathType) (string, error)
}

// CacheKey returns the cache key of a built menu.
func CacheKey(anchor, locale, rootAnchor string) string {
	key := "menu." + anchor + "." + locale
	if rootAnchor != "" {
		key += "." + rootAnchor
	}
	return key
}

// CacheTag returns the tag shared by every cached variant of a menu.
func CacheTag(anchor string) string {
	return "menu/" + anchor
}

// BuilderConfig holds the collaborators of a Builder.
type BuilderConfig struct {
	// Routes renders item URIs. Required when URI generation is enabled.
	Routes RouteResolver
	// Cache keeps finished menus. Optional.
	Cache cache.Store
	// UseCache enables cache lookups and saves. With UseCache=false and a
	// Cache set, stale entries are purged when the menu is finalized.
	UseCache bool
	// RootAnchor reroots the finished menu on this item when set.
	RootAnchor string
	Logger     *slog.Logger
}

type pendingItem struct {
	item   *Item
	parent string
}

type slugJob struct {
	item         *Item
	delimiter    string
	removeWords  []string
	generateFrom []string
}

type permalinkJob struct {
	item       *Item
	slashStart bool
	slashEnd   bool
}

// Builder assembles one Menu from a stream of CreateItem calls. Items may
// reference parents that are created later.
type Builder struct {
	cfg     BuilderConfig
	logger  *slog.Logger
	menu    *Menu
	options Options
	locale  string
	cached  bool

	pending    []pendingItem
	slugs      []slugJob
	permalinks []permalinkJob
}

// NewBuilder creates a builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, logger: logger}
}

// Cached reports whether the menu was served from the cache.
func (b *Builder) Cached() bool { return b.cached }

// Options returns the validated options of the menu being built.
func (b *Builder) Options() Options { return b.options }

func (b *Builder) key() string {
	return CacheKey(b.menu.anchor, b.locale, b.cfg.RootAnchor)
}

// CreateMenu starts a menu. When caching is enabled and a finished menu is
// cached under the same key, the builder switches to cached mode and later
// CreateItem calls are ignored.
func (b *Builder) CreateMenu(ctx context.Context, anchor, defaultRouteName, locale string, opts map[string]any) error {
	if b.menu != nil {
		return fmt.Errorf("menu %q: %w", anchor, ErrAlreadyCreated)
	}
	if locale == "" {
		locale = DefaultLocale
	}

	if b.cfg.UseCache && b.cfg.Cache != nil {
		key := CacheKey(anchor, locale, b.cfg.RootAnchor)
		if m, ok := cache.NewTyped[Menu](b.cfg.Cache).Get(ctx, key); ok {
			b.menu = m
			b.locale = locale
			b.cached = true
			b.logger.Debug("menu served from cache", "menu", anchor, "key", key, "build_id", m.buildID)
			return nil
		}
	}

	options, err := ParseOptions(opts)
	if err != nil {
		return fmt.Errorf("menu %q: %w", anchor, err)
	}
	b.options = options
	b.locale = locale
	b.menu = New(anchor, defaultRouteName, locale)
	return nil
}

// CreateItem adds one item. Recognized option keys are name, id, route_name,
// slug, slug_generate, slug_delimiter, slug_remove_words, slug_generate_from,
// permalink, permalink_generate, permalink_slash_start, permalink_slash_end,
// special, locale, parent, active and attributes.
func (b *Builder) CreateItem(anchor string, opts map[string]any) error {
	if b.cached {
		return nil
	}
	if b.menu == nil {
		return fmt.Errorf("item %q: %w", anchor, ErrNotCreated)
	}
	if anchor == RootAnchor {
		return itemError(ErrReservedAnchor, b.menu.anchor, anchor, "")
	}

	o := &itemOptions{menu: b.menu.anchor, item: anchor, values: maps.Clone(opts)}
	item := NewItem(anchor)
	item.SetLocale(b.locale)

	if v, ok := o.string("name"); ok {
		item.SetName(v)
	}
	if v, ok := o.id("id"); ok {
		item.SetID(v)
	}
	if v, ok := o.string("route_name"); ok {
		item.SetRouteName(v)
	}
	if v, ok := o.string("slug"); ok {
		item.SetSlug(v)
	}
	slug := b.slugJob(item, o)

	if v, ok := o.string("permalink"); ok {
		item.SetPermalink(v)
	}
	permalink := b.permalinkJob(item, o)

	if v, ok := o.take("special"); ok {
		switch s := v.(type) {
		case *Special:
			item.SetSpecial(s)
		case map[string]any:
			item.ensureSpecial().SetMap(s)
		default:
			o.fail("special", v)
		}
	}
	if v, ok := o.string("locale"); ok && v != "" {
		item.SetLocale(v)
	}
	if v, ok := o.take("attributes"); ok {
		switch a := v.(type) {
		case *Attributes:
			item.AddAttributes(a, true)
		case map[string]any:
			for _, key := range sortedKeys(a) {
				_ = item.SetAttribute(key, a[key], true)
			}
		default:
			o.fail("attributes", v)
		}
	}
	parent, _ := o.string("parent")
	if v, ok := o.take("active"); ok {
		if err := item.SetActive(v); err != nil {
			o.setErr(fmt.Errorf("menu %q: %w", b.menu.anchor, err))
		}
	}

	if o.err != nil {
		return o.err
	}
	if len(o.values) > 0 {
		var leftovers []string
		for _, key := range sortedKeys(o.values) {
			leftovers = append(leftovers, fmt.Sprintf("%s=%v", key, o.values[key]))
		}
		return itemError(ErrUnrecognizedOption, b.menu.anchor, anchor, "%s", strings.Join(leftovers, ", "))
	}
	if parent == RootAnchor {
		return itemError(ErrExplicitRootParent, b.menu.anchor, anchor, "")
	}

	if parent == "" {
		if err := b.menu.AddMenuItem(item, ""); err != nil {
			return err
		}
	} else if _, found := b.menu.FindMenuItem(parent); found {
		if err := b.menu.AddMenuItem(item, parent); err != nil {
			return err
		}
	} else {
		if err := b.menu.register(item); err != nil {
			return err
		}
		b.pending = append(b.pending, pendingItem{item: item, parent: parent})
	}

	if slug != nil {
		b.slugs = append(b.slugs, *slug)
	}
	if permalink != nil {
		b.permalinks = append(b.permalinks, *permalink)
	}
	return nil
}

func (b *Builder) slugJob(item *Item, o *itemOptions) *slugJob {
	generate := b.options.Slug.AutoGenerate
	if generate && item.HasSlug() {
		generate = b.options.Slug.RewriteOriginal
	}

	v, explicit := o.bool("slug_generate")
	if !explicit {
		for _, key := range []string{"slug_delimiter", "slug_remove_words", "slug_generate_from"} {
			if _, ok := o.values[key]; ok {
				o.setErr(itemError(ErrUnrecognizedOption, b.menu.anchor, item.anchor,
					"%s requires slug_generate", key))
			}
		}
		if !generate {
			return nil
		}
	} else {
		generate = v
	}

	job := slugJob{
		item:         item,
		delimiter:    b.options.Slug.Delimiter,
		removeWords:  b.options.Slug.RemoveWords,
		generateFrom: b.options.Slug.GenerateFrom,
	}
	if d, ok := o.string("slug_delimiter"); ok {
		job.delimiter = d
	}
	if words, ok := o.strings("slug_remove_words"); ok {
		job.removeWords = words
	}
	if from, ok := o.strings("slug_generate_from"); ok {
		job.generateFrom = from
	}
	if !generate {
		return nil
	}
	return &job
}

func (b *Builder) permalinkJob(item *Item, o *itemOptions) *permalinkJob {
	generate := b.options.Permalink.AutoGenerate
	v, explicit := o.bool("permalink_generate")
	if explicit {
		generate = v
	}
	if !b.options.Permalink.RewriteOriginal && item.HasPermalink() {
		generate = false
	}

	job := permalinkJob{
		item:       item,
		slashStart: b.options.Permalink.SlashStart,
		slashEnd:   b.options.Permalink.SlashEnd,
	}
	if !explicit {
		for _, key := range []string{"permalink_slash_start", "permalink_slash_end"} {
			if _, ok := o.values[key]; ok {
				o.setErr(itemError(ErrUnrecognizedOption, b.menu.anchor, item.anchor,
					"%s requires permalink_generate", key))
			}
		}
	} else {
		if s, ok := o.bool("permalink_slash_start"); ok {
			job.slashStart = s
		}
		if e, ok := o.bool("permalink_slash_end"); ok {
			job.slashEnd = e
		}
	}
	if !generate {
		return nil
	}
	return &job
}

// Menu finalizes and returns the menu: deferred parents are resolved, then
// slugs, permalinks and URIs are generated, the menu is rerooted when a root
// anchor is configured, and the result is cached or stale entries purged.
func (b *Builder) Menu(ctx context.Context) (*Menu, error) {
	if b.cached {
		return b.menu, nil
	}
	if b.menu == nil {
		return nil, ErrNotCreated
	}

	if len(b.pending) > 0 {
		if b.options.TryFindParents {
			b.resolvePending()
		}
		if err := b.unresolvedError(); err != nil {
			return nil, err
		}
	}
	if err := b.generateSlugs(); err != nil {
		return nil, err
	}
	if err := b.generatePermalinks(); err != nil {
		return nil, err
	}
	if b.options.URI.AutoGenerate {
		if err := b.GenerateMenuItemsURI(b.options.URI.PathType, false); err != nil {
			return nil, err
		}
	}
	if b.cfg.RootAnchor != "" {
		if err := b.menu.Reroot(b.cfg.RootAnchor); err != nil {
			return nil, err
		}
	}
	b.menu.memoizeLevels()
	b.menu.buildID = uuid.NewString()

	b.store(ctx)
	return b.menu, nil
}

func (b *Builder) store(ctx context.Context) {
	if b.cfg.Cache == nil {
		return
	}
	key, tag := b.key(), CacheTag(b.menu.anchor)
	typed := cache.NewTyped[Menu](b.cfg.Cache)

	if b.cfg.UseCache {
		if err := typed.Set(ctx, key, b.menu, tag); err != nil {
			b.logger.Warn("failed to cache menu", "menu", b.menu.anchor, "key", key, "error", err)
			return
		}
		b.cached = true
		return
	}

	if err := typed.Delete(ctx, key); err != nil {
		b.logger.Warn("failed to remove cached menu", "menu", b.menu.anchor, "key", key, "error", err)
	}
	if err := b.cfg.Cache.CleanByTag(ctx, tag); err != nil {
		b.logger.Warn("failed to invalidate menu tag", "menu", b.menu.anchor, "tag", tag, "error", err)
	}
}

// resolvePending attaches pending items until no further progress is made.
// A parent is looked up in the attached tree first, then among the other
// pending items.
func (b *Builder) resolvePending() {
	for len(b.pending) > 0 {
		var (
			remaining []pendingItem
			progress  bool
		)
		for _, p := range b.pending {
			parent, ok := b.menu.FindMenuItem(p.parent)
			if !ok {
				parent, ok = b.pendingParent(p)
			}
			if !ok {
				remaining = append(remaining, p)
				continue
			}
			if err := parent.AddChild(p.item); err != nil {
				remaining = append(remaining, p)
				continue
			}
			p.item.SetParent(parent)
			progress = true
		}
		b.pending = remaining
		if !progress {
			return
		}
	}
}

// pendingParent finds the parent of p among the other pending items, refusing
// parents that descend from p.
func (b *Builder) pendingParent(p pendingItem) (*Item, bool) {
	for _, q := range b.pending {
		if q.item == p.item || q.item.anchor != p.parent {
			continue
		}
		for cur, ok := q.item, true; ok; cur, ok = b.menu.Parent(cur) {
			if cur == p.item {
				return nil, false
			}
		}
		return q.item, true
	}
	return nil, false
}

// unresolvedError reports every created item that is still not reachable from
// the root.
func (b *Builder) unresolvedError() error {
	declared := make(map[string]string, len(b.pending))
	for _, p := range b.pending {
		declared[p.item.anchor] = p.parent
	}

	var missing []string
	for _, anchor := range sortedKeys(b.menu.items) {
		item := b.menu.items[anchor]
		if anchor == RootAnchor || b.menu.attached(item) {
			continue
		}
		parent := item.parent
		if d, ok := declared[anchor]; ok {
			parent = d
		}
		missing = append(missing, fmt.Sprintf("%s (parent %q)", anchor, parent))
	}
	b.pending = nil
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("menu %q: %s: %w", b.menu.anchor, strings.Join(missing, ", "), ErrUnresolvedParents)
}

func (b *Builder) generateSlugs() error {
	for _, job := range b.slugs {
		var parts []string
		for _, field := range job.generateFrom {
			value, ok := b.menu.fieldString(job.item, field)
			if !ok {
				return itemError(ErrSlugSourceUnknown, b.menu.anchor, job.item.anchor, "field %q", field)
			}
			if part := util.SlugifyWith(value, job.removeWords, job.delimiter); part != "" {
				parts = append(parts, part)
			}
		}
		job.item.SetSlug(strings.Trim(strings.Join(parts, job.delimiter), job.delimiter))
	}
	return nil
}

func (b *Builder) generatePermalinks() error {
	for _, job := range b.permalinks {
		if err := b.menu.GeneratePermalink(job.item.anchor, job.slashStart, job.slashEnd, "", ""); err != nil {
			return err
		}
	}
	return nil
}

// GenerateMenuItemsURI derives the URI of every item from its route, or the
// menu default route. Route parameters are filled from the item fields of the
// same name; a catch-all parameter receives the permalink. Items that already
// have a URI are skipped unless rewrite is set.
func (b *Builder) GenerateMenuItemsURI(pathType route.PathType, rewrite bool) error {
	if b.menu == nil {
		return ErrNotCreated
	}
	if !pathType.Valid() {
		return fmt.Errorf("menu %q, path type %q: %w", b.menu.anchor, pathType, ErrInvalidPathType)
	}
	if b.cfg.Routes == nil {
		return fmt.Errorf("menu %q: no route resolver configured: %w", b.menu.anchor, ErrRouteNotFound)
	}

	var err error
	b.menu.Walk(func(item *Item) bool {
		if !rewrite && item.HasURI() {
			return true
		}
		err = b.itemURI(item, pathType)
		return err == nil
	})
	return err
}

func (b *Builder) itemURI(item *Item, pathType route.PathType) error {
	routeName := item.routeName
	if routeName == "" {
		routeName = b.menu.defaultRouteName
	}
	r, ok := b.cfg.Routes.ResolveRoute(routeName)
	if !ok {
		return itemError(ErrRouteNotFound, b.menu.anchor, item.anchor, "route %q", routeName)
	}

	params := make(map[string]string, len(r.Params))
	for _, name := range r.Params {
		if name == route.CatchAll {
			params[name] = item.permalink
			continue
		}
		if value, ok := b.menu.fieldString(item, name); ok && value != "" {
			params[name] = value
		}
	}

	uri, err := b.cfg.Routes.GenerateURI(routeName, params, pathType)
	if err != nil {
		return itemError(ErrURIGenerationFailed, b.menu.anchor, item.anchor, "route %q: %v", routeName, err)
	}
	item.SetURI(uri)
	return nil
}

// itemOptions consumes CreateItem options, remembering the first type error.
type itemOptions struct {
	menu   string
	item   string
	values map[string]any
	err    error
}

func (o *itemOptions) take(key string) (any, bool) {
	v, ok := o.values[key]
	if ok {
		delete(o.values, key)
	}
	return v, ok
}

func (o *itemOptions) setErr(err error) {
	if o.err == nil {
		o.err = err
	}
}

func (o *itemOptions) fail(key string, v any) {
	o.setErr(itemError(ErrOptionType, o.menu, o.item, "option %q: unexpected %T", key, v))
}

func (o *itemOptions) string(key string) (string, bool) {
	v, ok := o.take(key)
	if !ok || v == nil {
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		o.fail(key, v)
		return "", false
	}
	return s, true
}

func (o *itemOptions) bool(key string) (bool, bool) {
	v, ok := o.take(key)
	if !ok || v == nil {
		return false, false
	}
	flag, isBool := v.(bool)
	if !isBool {
		o.fail(key, v)
		return false, false
	}
	return flag, true
}

func (o *itemOptions) strings(key string) ([]string, bool) {
	v, ok := o.take(key)
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString {
		return []string{s}, true
	}
	list, isList := stringList(v)
	if !isList {
		o.fail(key, v)
		return nil, false
	}
	return list, true
}

// id accepts string and integer identifiers.
func (o *itemOptions) id(key string) (string, bool) {
	v, ok := o.take(key)
	if !ok || v == nil {
		return "", false
	}
	switch id := v.(type) {
	case string:
		return id, true
	case int:
		return strconv.Itoa(id), true
	case int32:
		return strconv.FormatInt(int64(id), 10), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	}
	o.fail(key, v)
	return "", false
}
