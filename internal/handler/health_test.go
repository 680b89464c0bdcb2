// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/ocms-menu/internal/cache"
	"github.com/olegiv/ocms-menu/internal/testutil"
	"github.com/olegiv/ocms-menu/internal/version"
)

// brokenCache fails every write.
type brokenCache struct {
	cache.Store
}

func (brokenCache) Save(context.Context, string, []byte, []string) error {
	return errors.New("connection refused")
}

func TestHealthHandler_Health(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil)
	assertStatus(t, w.Code, http.StatusOK)

	var resp HealthStatus
	decodeJSON(t, w, &resp)

	if resp.Status != "healthy" {
		t.Errorf("status = %q; want healthy", resp.Status)
	}
	if resp.Version != "v0.0.0-test" {
		t.Errorf("version = %q; want v0.0.0-test", resp.Version)
	}
	for _, name := range []string{"database", "cache"} {
		check, ok := resp.Checks[name]
		if !ok {
			t.Errorf("missing %s check", name)
			continue
		}
		if check.Status != "healthy" {
			t.Errorf("%s status = %q; want healthy", name, check.Status)
		}
	}
	if resp.System != nil || resp.Cache != nil {
		t.Error("non-verbose response should not include system or cache info")
	}

	if _, err := env.cache.Load(context.Background(), healthProbeKey); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("probe key left in cache: err = %v", err)
	}
}

func TestHealthHandler_Health_Verbose(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health?verbose=true", nil)
	assertStatus(t, w.Code, http.StatusOK)

	var resp HealthStatus
	decodeJSON(t, w, &resp)

	if resp.System == nil {
		t.Fatal("verbose response should include system info")
	}
	if resp.System.GoVersion == "" {
		t.Error("go_version should be set")
	}
	if resp.Cache == nil {
		t.Fatal("verbose response should include cache stats")
	}
	if resp.Cache.Sets < 1 {
		t.Errorf("cache sets = %d; want at least the probe write", resp.Cache.Sets)
	}
}

func TestHealthHandler_Health_UnhealthyDatabase(t *testing.T) {
	db := testutil.TestDB(t)
	h := NewHealthHandler(db, nil, version.Info{})
	_ = db.Close()

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp HealthStatus
	decodeJSON(t, w, &resp)
	if resp.Status != "degraded" {
		t.Errorf("status = %q; want degraded", resp.Status)
	}
	if resp.Checks["database"].Status != "unhealthy" {
		t.Errorf("database status = %q; want unhealthy", resp.Checks["database"].Status)
	}
	if resp.Checks["cache"].Message != "Disabled" {
		t.Errorf("cache message = %q; want Disabled", resp.Checks["cache"].Message)
	}
}

func TestHealthHandler_Health_UnhealthyCache(t *testing.T) {
	h := NewHealthHandler(testutil.TestDB(t), brokenCache{}, version.Info{})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp HealthStatus
	decodeJSON(t, w, &resp)
	check := resp.Checks["cache"]
	if check.Status != "unhealthy" {
		t.Errorf("cache status = %q; want unhealthy", check.Status)
	}
	if check.Message != "save: connection refused" {
		t.Errorf("cache message = %q; want save: connection refused", check.Message)
	}
}

func testHealthProbe(t *testing.T, env *testEnv, path, expectedStatus string) {
	t.Helper()

	w := env.do(t, http.MethodGet, path, nil)
	assertStatus(t, w.Code, http.StatusOK)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	if resp["status"] != expectedStatus {
		t.Errorf("status = %q; want %q", resp["status"], expectedStatus)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	testHealthProbe(t, newTestEnv(t), "/health/live", "alive")
}

func TestHealthHandler_Readiness(t *testing.T) {
	testHealthProbe(t, newTestEnv(t), "/health/ready", "ready")
}

func TestHealthHandler_Readiness_NotReady(t *testing.T) {
	db := testutil.TestDB(t)
	h := NewHealthHandler(db, nil, version.Info{})
	_ = db.Close()

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	if resp["status"] != "not_ready" {
		t.Errorf("status = %q; want not_ready", resp["status"])
	}
	if resp["message"] == "" {
		t.Error("message should explain the failure")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestNewHealthHandler(t *testing.T) {
	h := NewHealthHandler(testutil.TestDB(t), nil, version.Info{})
	if h.StartTime().IsZero() {
		t.Error("start time should be set")
	}
}
