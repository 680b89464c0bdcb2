// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, "sqlite")
	}
	if cfg.DSN() != "./data/menu.db" {
		t.Errorf("DSN() = %q, want %q", cfg.DSN(), "./data/menu.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if cfg.Locale != "en_US" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "en_US")
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled should default to true")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be false without MENU_REDIS_URL")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() should be true by default")
	}
	if got := cfg.Locales(); len(got) != 1 || got[0] != "en_US" {
		t.Errorf("Locales() = %v, want [en_US]", got)
	}
	if cfg.MetricsExporter != "none" {
		t.Errorf("MetricsExporter = %q, want %q", cfg.MetricsExporter, "none")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MENU_DB_DRIVER", "mysql")
	setEnv(t, "MENU_DB_DSN", "menu:secret@tcp(db:3306)/menu")
	setEnv(t, "MENU_SERVER_HOST", "0.0.0.0")
	setEnv(t, "MENU_SERVER_PORT", "3000")
	setEnv(t, "MENU_LOG_LEVEL", "debug")
	setEnv(t, "MENU_LOCALE", "cs-cz")
	setEnv(t, "MENU_REDIS_URL", "redis://localhost:6379/1")
	setEnv(t, "MENU_CACHE_TTL", "60")
	setEnv(t, "MENU_WARM_SCHEDULE", "@every 5m")
	setEnv(t, "MENU_WARM_LOCALES", "en_US,cs_CZ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DSN() != "menu:secret@tcp(db:3306)/menu" {
		t.Errorf("DSN() = %q", cfg.DSN())
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want %v", cfg.SlogLevel(), slog.LevelDebug)
	}
	if cfg.Locale != "cs_CZ" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "cs_CZ")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be true")
	}
	cc := cfg.CacheConfig()
	if cc.DefaultTTL != time.Minute || cc.Prefix != "menu:" || cc.Backend() != "redis" {
		t.Errorf("CacheConfig() = %+v", cc)
	}
	if got := cfg.Locales(); len(got) != 2 || got[1] != "cs_CZ" {
		t.Errorf("Locales() = %v, want [en_US cs_CZ]", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"MENU_DB_DRIVER": "postgres"}},
		{"mysql without dsn", map[string]string{"MENU_DB_DRIVER": "mysql"}},
		{"bad port", map[string]string{"MENU_SERVER_PORT": "70000"}},
		{"port not a number", map[string]string{"MENU_SERVER_PORT": "http"}},
		{"negative ttl", map[string]string{"MENU_CACHE_TTL": "-1"}},
		{"bad locale", map[string]string{"MENU_LOCALE": "not a locale"}},
		{"bad warm locale", map[string]string{"MENU_WARM_LOCALES": "en_US,??"}},
		{"unknown metrics exporter", map[string]string{"MENU_METRICS_EXPORTER": "statsd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for level, want := range tests {
		if got := (Config{LogLevel: level}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"en_US", "en_US", false},
		{"en-us", "en_US", false},
		{"cs", "cs", false},
		{"", "", true},
		{"not a locale", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeLocale(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeLocale(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
