// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-menu/internal/handler"
	"github.com/olegiv/ocms-menu/internal/scheduler"
	"github.com/olegiv/ocms-menu/internal/store"
)

func (c *cli) newServeCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the menu API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				if seed || a.cfg.DoSeed {
					if err := store.Seed(ctx, a.db); err != nil {
						return fmt.Errorf("seeding database: %w", err)
					}
				}
				return a.serve()
			})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Seed the demo menus before serving")
	return cmd
}

// handler builds the HTTP handler of the menu API.
func (a *app) handler() http.Handler {
	return handler.NewRouter(handler.RouterConfig{
		Menus:         handler.NewMenuHandler(a.menus, a.logger),
		Health:        handler.NewHealthHandler(a.db, a.cache, versionInfo()),
		Locales:       a.cfg.Locales(),
		DefaultLocale: a.cfg.Locale,
		AccessLog:     a.cfg.IsDevelopment(),
		Metrics:       a.telemetry.Handler(),
	})
}

// startWarmer schedules cache warming when a schedule is configured. It
// returns nil when warming is disabled.
func (a *app) startWarmer() (*scheduler.Scheduler, error) {
	if a.cfg.WarmSchedule == "" || a.cache == nil {
		return nil, nil
	}
	s, err := scheduler.New(a.menus, scheduler.Config{
		Schedule: a.cfg.WarmSchedule,
		Locales:  a.cfg.Locales(),
	}, a.logger)
	if err != nil {
		return nil, err
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) serve() error {
	warmer, err := a.startWarmer()
	if err != nil {
		return fmt.Errorf("starting cache warmer: %w", err)
	}
	if warmer != nil {
		defer warmer.Stop()
	}

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              a.cfg.ServerAddr(),
		Handler:           a.handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second, // Reduced from 120s to mitigate slowloris attacks
		MaxHeaderBytes:    1 << 20,          // 1MB max header size
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", srv.Addr, "env", a.cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	a.logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
