// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

// recordCounts collects log.records data points keyed by level and menu.
func recordCounts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	counts := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "log.records" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("log.records data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				level, _ := dp.Attributes.Value(attribute.Key("log.level"))
				menu, _ := dp.Attributes.Value(attribute.Key("menu.anchor"))
				counts[level.AsString()+"/"+menu.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func newTestHandler(t *testing.T) (*MetricsHandler, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	h, err := NewMetricsHandler(discardHandler{}, meter)
	if err != nil {
		t.Fatalf("NewMetricsHandler: %v", err)
	}
	return h, reader
}

func TestMetricsHandler_CountsWarningsAndErrors(t *testing.T) {
	h, reader := newTestHandler(t)
	logger := slog.New(h)

	logger.Info("menus generated", "menu", "main")
	logger.Debug("menu not found in data source", "menu", "main")
	logger.Warn("failed to remove cached menu", "menu", "main")
	logger.Error("failed to build menu", "menu", "footer", "error", "boom")
	logger.Error("failed to warm menus")

	got := recordCounts(t, reader)
	want := map[string]int64{
		"WARN/main":    1,
		"ERROR/footer": 1,
		"ERROR/":       1,
	}
	if len(got) != len(want) {
		t.Fatalf("counts = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("counts[%q] = %d, want %d", k, got[k], v)
		}
	}
}

func TestMetricsHandler_WithAttrs(t *testing.T) {
	h, reader := newTestHandler(t)
	logger := slog.New(h).With("menu", "sidebar")

	logger.Warn("failed to invalidate menu tag")
	logger.WithGroup("cache").Error("save failed")
	logger.Error("override", "menu", "main")

	got := recordCounts(t, reader)
	if got["WARN/sidebar"] != 1 {
		t.Errorf("WARN/sidebar = %d, want 1", got["WARN/sidebar"])
	}
	if got["ERROR/sidebar"] != 1 {
		t.Errorf("ERROR/sidebar = %d, want 1", got["ERROR/sidebar"])
	}
	if got["ERROR/main"] != 1 {
		t.Errorf("ERROR/main = %d, want 1", got["ERROR/main"])
	}
}

func TestMetricsHandler_CustomLevel(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	h, err := NewMetricsHandlerWithLevel(discardHandler{}, meter, slog.LevelError)
	if err != nil {
		t.Fatalf("NewMetricsHandlerWithLevel: %v", err)
	}
	logger := slog.New(h)

	logger.Warn("not counted")
	logger.Error("counted")

	got := recordCounts(t, reader)
	if len(got) != 1 || got["ERROR/"] != 1 {
		t.Errorf("counts = %v, want map[ERROR/:1]", got)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, slog.LevelInfo, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("menus warmed", "locale", "en_US")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered")
	}
	if !strings.Contains(out, "msg=\"menus warmed\"") || !strings.Contains(out, "locale=en_US") {
		t.Errorf("output = %q, want text-formatted record", out)
	}
}
