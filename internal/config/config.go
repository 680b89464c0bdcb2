// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/olegiv/ocms-menu/internal/cache"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver   string `env:"MENU_DB_DRIVER" envDefault:"sqlite"`
	DBPath     string `env:"MENU_DB_PATH" envDefault:"./data/menu.db"`
	DBDSN      string `env:"MENU_DB_DSN"` // MySQL DSN, e.g. user:pass@tcp(localhost:3306)/menu
	ServerHost string `env:"MENU_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"MENU_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"MENU_ENV" envDefault:"development"`
	LogLevel   string `env:"MENU_LOG_LEVEL" envDefault:"info"`

	// Menu generation
	Locale          string `env:"MENU_LOCALE" envDefault:"en_US"`
	BaseURL         string `env:"MENU_BASE_URL" envDefault:"http://localhost:8080"`
	DefinitionsFile string `env:"MENU_DEFINITIONS"` // YAML routes and menu options

	// Cache configuration
	CacheEnabled bool   `env:"MENU_CACHE_ENABLED" envDefault:"true"`
	RedisURL     string `env:"MENU_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"MENU_CACHE_PREFIX" envDefault:"menu:"`   // Redis key prefix
	CacheTTL     int    `env:"MENU_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"MENU_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Cache warming
	WarmSchedule string   `env:"MENU_WARM_SCHEDULE"` // Cron expression, empty disables warming
	WarmLocales  []string `env:"MENU_WARM_LOCALES" envSeparator:","`

	// Metrics exporter: none, stdout, prometheus or otlp
	MetricsExporter string `env:"MENU_METRICS_EXPORTER" envDefault:"none"`

	// Seeding configuration
	DoSeed bool `env:"MENU_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "mysql" {
		return c.DBDSN
	}
	return c.DBPath
}

// CacheConfig returns the cache store configuration.
func (c Config) CacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.RedisURL = c.RedisURL
	cfg.Prefix = c.CachePrefix
	cfg.DefaultTTL = time.Duration(c.CacheTTL) * time.Second
	cfg.MaxSize = c.CacheMaxSize
	return cfg
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Locales returns the locales to warm: WarmLocales, or Locale when unset.
func (c Config) Locales() []string {
	if len(c.WarmLocales) > 0 {
		return c.WarmLocales
	}
	return []string{c.Locale}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "mysql":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("MENU_DB_DSN is required for the mysql driver")
		}
	default:
		return nil, fmt.Errorf("MENU_DB_DRIVER must be sqlite or mysql, got %q", cfg.DBDriver)
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("MENU_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("MENU_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}

	switch cfg.MetricsExporter {
	case "none", "stdout", "prometheus", "otlp":
	default:
		return nil, fmt.Errorf("MENU_METRICS_EXPORTER must be none, stdout, prometheus or otlp, got %q", cfg.MetricsExporter)
	}

	locale, err := NormalizeLocale(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("MENU_LOCALE: %w", err)
	}
	cfg.Locale = locale

	for i, l := range cfg.WarmLocales {
		locale, err := NormalizeLocale(l)
		if err != nil {
			return nil, fmt.Errorf("MENU_WARM_LOCALES: %w", err)
		}
		cfg.WarmLocales[i] = locale
	}

	return cfg, nil
}

// NormalizeLocale validates a BCP 47 locale written with either "-" or "_"
// and returns it in the underscore form used by menu cache keys (en_US).
func NormalizeLocale(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty locale")
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return strings.ReplaceAll(tag.String(), "-", "_"), nil
}
