// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-menu/internal/cache"
	"github.com/olegiv/ocms-menu/internal/config"
	"github.com/olegiv/ocms-menu/internal/logging"
	"github.com/olegiv/ocms-menu/internal/service"
	"github.com/olegiv/ocms-menu/internal/store"
	"github.com/olegiv/ocms-menu/internal/telemetry"
)

// cli carries the configuration loaded before any subcommand runs.
type cli struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "ocms-menu",
		Short:         "Navigation menu builder and API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env files if present (development)
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}

	root.AddCommand(
		c.newServeCmd(),
		c.newRenderCmd(),
		c.newMigrateCmd(),
		c.newSeedCmd(),
		c.newCacheCmd(),
		newVersionCmd(),
	)
	return root
}

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	db        *sql.DB
	cache     cache.Store
	defs      *config.Definitions
	menus     *service.MenuService
}

// openApp wires telemetry, logging, the database, the cache and the menu
// service. Logs go to logOut. The database is migrated before returning.
func (c *cli) openApp(ctx context.Context, logOut io.Writer) (_ *app, err error) {
	cfg := c.cfg
	a := &app{cfg: cfg}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	a.telemetry, err = telemetry.Setup(ctx, cfg.MetricsExporter)
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}

	a.logger, err = logging.New(logOut, cfg.SlogLevel(), a.telemetry.Meter())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	slog.SetDefault(a.logger)

	if cfg.DBDriver == store.DriverSQLite {
		// Ensure data directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	a.logger.Debug("initializing database", "driver", cfg.DBDriver)
	a.db, err = store.Open(cfg.DBDriver, cfg.DSN(), store.DefaultDBConfig())
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := store.Migrate(a.db, cfg.DBDriver); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	a.defs, err = config.LoadDefinitions(cfg.DefinitionsFile)
	if err != nil {
		return nil, err
	}
	routes, err := a.defs.RouteTable(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("building route table: %w", err)
	}

	if cfg.CacheEnabled {
		cacheCfg := cfg.CacheConfig()
		a.cache, err = cache.NewStore(cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("initializing cache: %w", err)
		}
		a.logger.Debug("cache ready", "backend", cacheCfg.Backend())
	}

	a.menus = service.NewMenuService(service.MenuServiceConfig{
		Source:        store.NewDataSource(a.db),
		Routes:        routes,
		Cache:         a.cache,
		UseCache:      a.cache != nil,
		Definitions:   a.defs,
		DefaultLocale: cfg.Locale,
		Logger:        a.logger,
		Meter:         a.telemetry.Meter(),
	})
	return a, nil
}

// Close releases the cache, the database and the meter provider.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing cache: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
