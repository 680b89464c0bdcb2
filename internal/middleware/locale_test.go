// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestLocale(t *testing.T) {
	supported := []string{"en_US", "cs_CZ"}

	tests := []struct {
		name   string
		query  string
		accept string
		want   string
	}{
		{"fallback", "", "", "en_US"},
		{"query", "cs_CZ", "", "cs_CZ"},
		{"query with dash", "de-AT", "", "de_AT"},
		{"query wins over header", "en_US", "cs", "en_US"},
		{"invalid query falls back", "not a locale", "", "en_US"},
		{"invalid query uses header", "not a locale", "cs", "cs_CZ"},
		{"accept language", "", "cs,en;q=0.5", "cs_CZ"},
		{"unsupported accept language", "", "ja", "en_US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := Locale(supported, "en_US")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetLocale(r)
			}))

			target := "/api/menus/main"
			if tt.query != "" {
				target += "?locale=" + url.QueryEscape(tt.query)
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("locale = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetLocaleEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLocale(req); got != "" {
		t.Errorf("GetLocale() = %q, want empty", got)
	}
}
