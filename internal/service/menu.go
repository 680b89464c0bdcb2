// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the menu rendering layer shared by the HTTP API,
// the cache warmer and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/olegiv/ocms-menu/internal/assembler"
	"github.com/olegiv/ocms-menu/internal/cache"
	"github.com/olegiv/ocms-menu/internal/config"
	"github.com/olegiv/ocms-menu/internal/menu"
)

// MenuServiceConfig holds the collaborators of a MenuService.
type MenuServiceConfig struct {
	Source      assembler.DataSource
	Routes      menu.RouteResolver
	Cache       cache.Store
	UseCache    bool
	Definitions *config.Definitions
	// DefaultLocale is used when a call passes an empty locale.
	DefaultLocale string
	Logger        *slog.Logger
	Meter         metric.Meter
}

// MenuService renders configured menus.
// Every call runs on its own assembler, so concurrent requests never share
// a collection. Concurrent Render calls for the same menu variant are
// collapsed into one build.
type MenuService struct {
	cfg    MenuServiceConfig
	logger *slog.Logger
	group  singleflight.Group
}

// NewMenuService creates a new MenuService.
func NewMenuService(cfg MenuServiceConfig) *MenuService {
	if cfg.Definitions == nil {
		cfg.Definitions = config.DefaultDefinitions()
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = menu.DefaultLocale
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{cfg: cfg, logger: logger}
}

// Anchors returns the configured menu anchors in definition order.
func (s *MenuService) Anchors() []string {
	return s.cfg.Definitions.Menus.Anchors()
}

// DefaultLocale returns the locale used when none is requested.
func (s *MenuService) DefaultLocale() string {
	return s.cfg.DefaultLocale
}

func (s *MenuService) assembler(locale string) (*assembler.Assembler, error) {
	if locale == "" {
		locale = s.cfg.DefaultLocale
	}
	return assembler.New(assembler.Config{
		Source:   s.cfg.Source,
		Routes:   s.cfg.Routes,
		Cache:    s.cfg.Cache,
		UseCache: s.cfg.UseCache,
		Locale:   locale,
		Logger:   s.logger,
		Meter:    s.cfg.Meter,
	})
}

// Render generates one menu in locale. A non-empty root overrides the root
// node configured for the menu. Callers racing on the same variant receive
// the same *menu.Menu and must treat it as read-only.
//
// The shared build is detached from the cancellation of the caller that
// started it; each caller stops waiting when its own ctx is done.
func (s *MenuService) Render(ctx context.Context, anchor, locale, root string) (*menu.Menu, error) {
	if locale == "" {
		locale = s.cfg.DefaultLocale
	}
	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(menu.CacheKey(anchor, locale, root), func() (any, error) {
		return s.render(buildCtx, anchor, locale, root)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("menu build shared", "menu", anchor, "locale", locale)
		}
		return res.Val.(*menu.Menu), nil
	}
}

func (s *MenuService) render(ctx context.Context, anchor, locale, root string) (*menu.Menu, error) {
	a, err := s.assembler(locale)
	if err != nil {
		return nil, err
	}
	defs := s.cfg.Definitions.Menus
	rootNodes := defs.RootNodes()
	if root != "" {
		rootNodes[anchor] = root
	}
	if err := a.Generate(ctx, []string{anchor}, rootNodes, defs.Options()); err != nil {
		return nil, fmt.Errorf("rendering menu %q: %w", anchor, err)
	}
	return a.Menu(ctx, anchor)
}

// RenderAll generates every configured menu in locale.
func (s *MenuService) RenderAll(ctx context.Context, locale string) (*menu.Collection, error) {
	a, err := s.assembler(locale)
	if err != nil {
		return nil, err
	}
	defs := s.cfg.Definitions.Menus
	if err := a.Generate(ctx, defs.Anchors(), defs.RootNodes(), defs.Options()); err != nil {
		return nil, fmt.Errorf("rendering menus: %w", err)
	}
	return a.Collection()
}

// FindActive renders every configured menu in locale and marks the first
// item with the given permalink as active. The returned menu holds the item.
func (s *MenuService) FindActive(ctx context.Context, locale, permalink string) (*menu.Item, *menu.Menu, error) {
	c, err := s.RenderAll(ctx, locale)
	if err != nil {
		return nil, nil, err
	}
	item, m, ok := c.FindActiveMenuItemByPermalink(permalink)
	if !ok {
		return nil, nil, fmt.Errorf("permalink %q: %w", permalink, menu.ErrItemNotFound)
	}
	return item, m, nil
}

// Invalidate removes every cached variant of the given menus.
// With no anchors all configured menus are invalidated.
func (s *MenuService) Invalidate(ctx context.Context, anchors ...string) error {
	if len(anchors) == 0 {
		anchors = s.Anchors()
	}
	a, err := s.assembler("")
	if err != nil {
		return err
	}
	return a.Invalidate(ctx, anchors...)
}

// Warm invalidates and regenerates every configured menu for each locale.
// Failures are collected so one broken locale does not stop the others.
func (s *MenuService) Warm(ctx context.Context, locales ...string) error {
	if len(locales) == 0 {
		locales = []string{s.cfg.DefaultLocale}
	}
	if err := s.Invalidate(ctx); err != nil {
		return err
	}
	var errs []error
	for _, locale := range locales {
		c, err := s.RenderAll(ctx, locale)
		if err != nil {
			s.logger.Error("failed to warm menus", "locale", locale, "error", err)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("menus warmed", "locale", locale, "menus", c.Len())
	}
	return errors.Join(errs...)
}
