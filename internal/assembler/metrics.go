// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package assembler

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/olegiv/ocms-menu/internal/assembler"

type metrics struct {
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	builds      metric.Int64Counter
	buildErrors metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}

	cacheHits, err := meter.Int64Counter(
		"menu.cache.hits",
		metric.WithDescription("Menus served from the cache"),
		metric.WithUnit("{menu}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"menu.cache.misses",
		metric.WithDescription("Menus not found in the cache"),
		metric.WithUnit("{menu}"),
	)
	if err != nil {
		return nil, err
	}

	builds, err := meter.Int64Counter(
		"menu.builds",
		metric.WithDescription("Menus built from the data source"),
		metric.WithUnit("{menu}"),
	)
	if err != nil {
		return nil, err
	}

	buildErrors, err := meter.Int64Counter(
		"menu.build.errors",
		metric.WithDescription("Menu builds that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		builds:      builds,
		buildErrors: buildErrors,
	}, nil
}

func menuAttrs(anchor, locale string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("menu.anchor", anchor),
		attribute.String("menu.locale", locale),
	)
}

func (m *metrics) cacheHit(ctx context.Context, anchor, locale string) {
	m.cacheHits.Add(ctx, 1, menuAttrs(anchor, locale))
}

func (m *metrics) cacheMiss(ctx context.Context, anchor, locale string) {
	m.cacheMisses.Add(ctx, 1, menuAttrs(anchor, locale))
}

func (m *metrics) build(ctx context.Context, anchor, locale string, err error) {
	opt := menuAttrs(anchor, locale)
	m.builds.Add(ctx, 1, opt)
	if err != nil {
		m.buildErrors.Add(ctx, 1, opt)
	}
}
