// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/olegiv/ocms-menu/internal/cache"
	"github.com/olegiv/ocms-menu/internal/service"
	"github.com/olegiv/ocms-menu/internal/store"
	"github.com/olegiv/ocms-menu/internal/testutil"
	"github.com/olegiv/ocms-menu/internal/version"
)

// testEnv bundles a seeded database, a memory cache and the API router.
type testEnv struct {
	db     *sql.DB
	cache  *cache.MemoryStore
	menus  *service.MenuService
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SeededDB(t)
	mem := testutil.TestCache(t)
	logger := testutil.TestLoggerSilent()

	menus := service.NewMenuService(service.MenuServiceConfig{
		Source:        store.NewDataSource(db),
		Routes:        testutil.TestRoutes(t),
		Cache:         mem,
		UseCache:      true,
		DefaultLocale: store.SeedLocaleEN,
		Logger:        logger,
		Meter:         sdkmetric.NewMeterProvider().Meter("test"),
	})

	router := NewRouter(RouterConfig{
		Menus:         NewMenuHandler(menus, logger),
		Health:        NewHealthHandler(db, mem, version.Info{Version: "v0.0.0-test"}),
		Locales:       []string{store.SeedLocaleEN, store.SeedLocaleCS},
		DefaultLocale: store.SeedLocaleEN,
	})

	return &testEnv{db: db, cache: mem, menus: menus, router: router}
}

// do performs a request against the router.
func (e *testEnv) do(t *testing.T, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeJSON unmarshals the response body into v.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response: %v\nbody: %s", err, w.Body.String())
	}
}

// assertStatus checks the response status code.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
