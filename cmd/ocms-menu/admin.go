// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-menu/internal/store"
)

// withApp runs fn with a wired app and closes it afterwards.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := c.openApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			slog.Error("error closing resources", "error", err)
		}
	}()
	return fn(ctx, a)
}

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app) error {
				v, err := store.SchemaVersion(a.db, a.cfg.DBDriver)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
				return nil
			})
		},
	}
}

func (c *cli) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo menus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				if err := store.Seed(ctx, a.db); err != nil {
					return fmt.Errorf("seeding database: %w", err)
				}
				if err := a.menus.Invalidate(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "demo menus ready")
				return nil
			})
		},
	}
}

func (c *cli) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the menu cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear [anchor...]",
		Short: "Invalidate cached menus (all configured menus when no anchor is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				if a.cache == nil {
					return fmt.Errorf("cache is disabled")
				}
				if err := a.menus.Invalidate(ctx, args...); err != nil {
					return err
				}
				cleared := args
				if len(cleared) == 0 {
					cleared = a.menus.Anchors()
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "invalidated %d menu(s)\n", len(cleared))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "warm [locale...]",
		Short: "Build and cache every configured menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				if a.cache == nil {
					return fmt.Errorf("cache is disabled")
				}
				locales := args
				if len(locales) == 0 {
					locales = a.cfg.Locales()
				}
				if err := a.menus.Warm(ctx, locales...); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "warmed %d menu(s) for %d locale(s)\n", len(a.menus.Anchors()), len(locales))
				return nil
			})
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Skip configuration loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo()
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ocms-menu %s\n", info.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}
