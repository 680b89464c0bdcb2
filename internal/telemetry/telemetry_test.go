// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupNone(t *testing.T) {
	p, err := Setup(context.Background(), "none")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	assert.NotNil(t, p.Meter())
	assert.Nil(t, p.Handler())
}

func TestSetupUnknown(t *testing.T) {
	_, err := Setup(context.Background(), "statsd")
	assert.ErrorContains(t, err, "unknown metrics exporter")
}

func TestSetupOTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	_, err := Setup(context.Background(), "otlp")
	assert.ErrorContains(t, err, "OTLP metrics endpoint not configured")
}

func TestSetupPrometheus(t *testing.T) {
	ctx := context.Background()
	p, err := Setup(ctx, "prometheus")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(ctx) })
	require.NotNil(t, p.Handler())

	counter, err := p.Meter().Int64Counter("menu.builds")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	w := httptest.NewRecorder()
	p.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "menu_builds_total 3") ||
		strings.Contains(string(body), "menu_builds_total{"),
		"scrape output should contain the counter:\n%s", body)
}
