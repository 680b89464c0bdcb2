// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the menu API.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-menu/internal/menu"
	"github.com/olegiv/ocms-menu/internal/middleware"
	"github.com/olegiv/ocms-menu/internal/service"
)

// MenuHandler serves rendered menus as JSON.
type MenuHandler struct {
	menus  *service.MenuService
	logger *slog.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menus *service.MenuService, logger *slog.Logger) *MenuHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuHandler{menus: menus, logger: logger}
}

// MenuResponse is the JSON form of a rendered menu.
type MenuResponse struct {
	Anchor       string      `json:"anchor"`
	Locale       string      `json:"locale"`
	DefaultRoute string      `json:"default_route,omitempty"`
	BuildID      string      `json:"build_id,omitempty"`
	Items        []menu.Node `json:"items"`
}

// Crumb is one entry of a breadcrumb trail.
type Crumb struct {
	Anchor    string `json:"anchor"`
	Name      string `json:"name"`
	Permalink string `json:"permalink,omitempty"`
	URI       string `json:"uri,omitempty"`
}

func newMenuResponse(m *menu.Menu) MenuResponse {
	items := m.Tree()
	if items == nil {
		items = []menu.Node{}
	}
	return MenuResponse{
		Anchor:       m.Anchor(),
		Locale:       m.Locale(),
		DefaultRoute: m.DefaultRouteName(),
		BuildID:      m.BuildID(),
		Items:        items,
	}
}

func newCrumb(item *menu.Item) Crumb {
	return Crumb{
		Anchor:    item.Anchor(),
		Name:      item.Name(),
		Permalink: item.Permalink(),
		URI:       item.URI(),
	}
}

// List handles GET /api/menus.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"menus":  h.menus.Anchors(),
		"locale": middleware.GetLocale(r),
	})
}

// Get handles GET /api/menus/{anchor}.
// ?root=<item> reroots the menu on one of its items.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	anchor := chi.URLParam(r, "anchor")
	locale := middleware.GetLocale(r)
	root := r.URL.Query().Get("root")

	m, err := h.menus.Render(r.Context(), anchor, locale, root)
	if err != nil {
		writeMenuError(w, h.logger, err, "menu", anchor, "locale", locale, "root", root)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"menu": newMenuResponse(m),
	})
}

// Active handles GET /api/menus/active?permalink=<path>.
// It returns the menu holding the first item with the permalink, with the
// item marked active, plus the breadcrumb trail to the item.
func (h *MenuHandler) Active(w http.ResponseWriter, r *http.Request) {
	permalink := strings.Trim(r.URL.Query().Get("permalink"), "/")
	if permalink == "" {
		writeJSONError(w, http.StatusBadRequest, "permalink is required")
		return
	}
	locale := middleware.GetLocale(r)

	item, m, err := h.menus.FindActive(r.Context(), locale, permalink)
	if err != nil {
		writeMenuError(w, h.logger, err, "permalink", permalink, "locale", locale)
		return
	}

	crumbs := make([]Crumb, 0)
	for _, it := range m.Breadcrumbs(item.Anchor(), true) {
		crumbs = append(crumbs, newCrumb(it))
	}

	writeJSONSuccess(w, map[string]any{
		"menu":        newMenuResponse(m),
		"item":        newCrumb(item),
		"breadcrumbs": crumbs,
	})
}

// Invalidate handles DELETE /api/cache/menus/{anchor}.
func (h *MenuHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	anchor := chi.URLParam(r, "anchor")
	if err := h.menus.Invalidate(r.Context(), anchor); err != nil {
		h.logger.Error("failed to invalidate menu cache", "menu", anchor, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.logger.Info("menu cache invalidated", "menu", anchor)
	writeJSONSuccess(w, map[string]any{
		"invalidated": []string{anchor},
	})
}

// InvalidateAll handles DELETE /api/cache/menus.
func (h *MenuHandler) InvalidateAll(w http.ResponseWriter, r *http.Request) {
	anchors := h.menus.Anchors()
	if err := h.menus.Invalidate(r.Context(), anchors...); err != nil {
		h.logger.Error("failed to invalidate menu cache", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.logger.Info("menu cache invalidated", "menus", len(anchors))
	writeJSONSuccess(w, map[string]any{
		"invalidated": anchors,
	})
}
