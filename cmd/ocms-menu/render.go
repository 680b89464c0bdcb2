// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-menu/internal/menu"
)

func (c *cli) newRenderCmd() *cobra.Command {
	var (
		locale string
		root   string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <anchor>",
		Short: "Build a menu and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "tree" {
				return fmt.Errorf("unknown format %q: want json or tree", format)
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				m, err := a.menus.Render(ctx, args[0], locale, root)
				if err != nil {
					return err
				}

				var buf bytes.Buffer
				if format == "tree" {
					printTree(&buf, m.Tree(), 0)
				} else {
					enc := json.NewEncoder(&buf)
					enc.SetIndent("", "  ")
					if err := enc.Encode(m); err != nil {
						return fmt.Errorf("encoding menu: %w", err)
					}
				}

				if output == "" {
					_, err := cmd.OutOrStdout().Write(buf.Bytes())
					return err
				}
				// Readers of output never see a partially written menu.
				if err := atomic.WriteFile(output, &buf); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				a.logger.Info("menu written", "menu", m.Anchor(), "locale", m.Locale(), "path", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale to render (default: MENU_LOCALE)")
	cmd.Flags().StringVarP(&root, "root", "r", "", "Anchor of the item to use as root")
	cmd.Flags().StringVarP(&format, "format", "f", "tree", "Output format: tree or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// printTree writes one line per node, indented by depth.
func printTree(w io.Writer, nodes []menu.Node, depth int) {
	for _, n := range nodes {
		line := strings.Repeat("  ", depth) + "- " + n.Name + " [" + n.Anchor + "]"
		if n.URI != "" {
			line += " " + n.URI
		}
		if n.Active {
			line += " *"
		}
		_, _ = fmt.Fprintln(w, line)
		printTree(w, n.Children, depth+1)
	}
}
