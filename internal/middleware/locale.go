// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the menu API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/olegiv/ocms-menu/internal/config"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyLocale holds the menu locale of the request.
const ContextKeyLocale ContextKey = "locale"

// LocaleQueryParam is the query parameter selecting a locale explicitly.
const LocaleQueryParam = "locale"

// Locale creates middleware that resolves the menu locale of a request.
// Priority order:
// 1. Query parameter ?locale=xx_YY (any valid BCP 47 tag)
// 2. Accept-Language header, matched against supported
// 3. fallback
//
// Invalid values are ignored and the next source is tried.
func Locale(supported []string, fallback string) func(http.Handler) http.Handler {
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, code := range supported {
		tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	var matcher language.Matcher
	if len(tags) > 0 {
		matcher = language.NewMatcher(tags)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := fallback

			if q := r.URL.Query().Get(LocaleQueryParam); q != "" {
				if normalized, err := config.NormalizeLocale(q); err == nil {
					locale = normalized
					next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
					return
				}
			}

			if accept := r.Header.Get("Accept-Language"); accept != "" && matcher != nil {
				if code, ok := matchAcceptLanguage(matcher, codes, accept); ok {
					locale = code
				}
			}

			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
		})
	}
}

// matchAcceptLanguage returns the supported locale best matching the header.
func matchAcceptLanguage(matcher language.Matcher, codes []string, accept string) (string, bool) {
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return "", false
	}
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return "", false
	}
	return codes[index], true
}

// WithLocale stores a locale in the context.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ContextKeyLocale, locale)
}

// GetLocale retrieves the request locale. Returns "" if none is set.
func GetLocale(r *http.Request) string {
	locale, _ := r.Context().Value(ContextKeyLocale).(string)
	return locale
}
