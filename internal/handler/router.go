// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ocms-menu/internal/middleware"
)

// RouterConfig holds the handlers and request settings of the API router.
type RouterConfig struct {
	Menus  *MenuHandler
	Health *HealthHandler
	// Locales are matched against Accept-Language; DefaultLocale is the fallback.
	Locales       []string
	DefaultLocale string
	// Timeout bounds every request. Zero means 30 seconds.
	Timeout time.Duration
	// AccessLog enables chi request logging.
	AccessLog bool
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// NewRouter builds the API router.
//
//	GET    /health
//	GET    /health/live
//	GET    /health/ready
//	GET    /metrics (optional)
//	GET    /api/menus
//	GET    /api/menus/active?permalink=
//	GET    /api/menus/{anchor}?locale=&root=
//	DELETE /api/cache/menus
//	DELETE /api/cache/menus/{anchor}
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(timeout))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", cfg.Health.Health)
	r.Get("/health/live", cfg.Health.Liveness)
	r.Get("/health/ready", cfg.Health.Readiness)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Locale(cfg.Locales, cfg.DefaultLocale))

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", cfg.Menus.List)
			// Static segment takes precedence over {anchor}.
			r.Get("/active", cfg.Menus.Active)
			r.Get("/{anchor}", cfg.Menus.Get)
		})

		r.Route("/cache/menus", func(r chi.Router) {
			r.Delete("/", cfg.Menus.InvalidateAll)
			r.Delete("/{anchor}", cfg.Menus.Invalidate)
		})
	})

	return r
}
