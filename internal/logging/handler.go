// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the application logger and a slog handler that
// counts warnings and errors as OpenTelemetry metrics.
package logging

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/olegiv/ocms-menu/internal/logging"

// New creates the application logger: a text handler writing to w at level,
// wrapped by a MetricsHandler. A nil meter uses the global provider.
func New(w io.Writer, level slog.Level, meter metric.Meter) (*slog.Logger, error) {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	h, err := NewMetricsHandler(text, meter)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// MetricsHandler is a slog.Handler that wraps another handler and also counts
// WARN and ERROR level records in the log.records counter.
type MetricsHandler struct {
	inner   slog.Handler
	records metric.Int64Counter
	level   slog.Level // Minimum level to count (default: WARN)
	menu    string     // menu anchor recorded by WithAttrs
}

// NewMetricsHandler creates a new MetricsHandler that wraps the given handler.
func NewMetricsHandler(inner slog.Handler, meter metric.Meter) (*MetricsHandler, error) {
	return NewMetricsHandlerWithLevel(inner, meter, slog.LevelWarn)
}

// NewMetricsHandlerWithLevel creates a new MetricsHandler with a custom minimum level.
func NewMetricsHandlerWithLevel(inner slog.Handler, meter metric.Meter, level slog.Level) (*MetricsHandler, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	records, err := meter.Int64Counter(
		"log.records",
		metric.WithDescription("Log records at or above the warning level"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}
	return &MetricsHandler{inner: inner, records: records, level: level}, nil
}

// Enabled implements slog.Handler.
func (h *MetricsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *MetricsHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.records.Add(ctx, 1, metric.WithAttributes(
			attribute.String("log.level", r.Level.String()),
			attribute.String("menu.anchor", h.menuAnchor(r)),
		))
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *MetricsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	menu := h.menu
	for _, a := range attrs {
		if a.Key == "menu" {
			menu = a.Value.String()
		}
	}
	return &MetricsHandler{
		inner:   h.inner.WithAttrs(attrs),
		records: h.records,
		level:   h.level,
		menu:    menu,
	}
}

// WithGroup implements slog.Handler.
func (h *MetricsHandler) WithGroup(name string) slog.Handler {
	return &MetricsHandler{
		inner:   h.inner.WithGroup(name),
		records: h.records,
		level:   h.level,
		menu:    h.menu,
	}
}

// menuAnchor extracts the "menu" attribute of the record, falling back to
// the one bound with WithAttrs.
func (h *MetricsHandler) menuAnchor(r slog.Record) string {
	menu := h.menu
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "menu" {
			menu = a.Value.String()
			return false
		}
		return true
	})
	return menu
}
