// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menu/internal/menu"
	"github.com/olegiv/ocms-menu/internal/route"
)

const sampleDefinitions = `
routes:
  page: /page/{slug}
  permalink: /*
menus:
  sidebar:
    root: products
  main:
    options:
      slug:
        auto_generate: true
        remove_words: [a, the]
      uri:
        path_type: absolute-url
`

func TestParseDefinitions(t *testing.T) {
	d, err := ParseDefinitions([]byte(sampleDefinitions))
	require.NoError(t, err)

	assert.Equal(t, []string{"sidebar", "main"}, d.Menus.Anchors())
	assert.Equal(t, map[string]string{"sidebar": "products"}, d.Menus.RootNodes())

	opts := d.Menus.Options()
	require.Contains(t, opts, "main")
	assert.NotContains(t, opts, "sidebar")

	parsed, err := menu.ParseOptions(opts["main"])
	require.NoError(t, err)
	assert.True(t, parsed.Slug.AutoGenerate)
	assert.Equal(t, []string{"a", "the"}, parsed.Slug.RemoveWords)
	assert.Equal(t, route.AbsoluteURL, parsed.URI.PathType)

	table, err := d.RouteTable("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"page", "permalink"}, table.Names())
}

func TestParseDefinitionsErrors(t *testing.T) {
	tests := map[string]string{
		"no routes":      "menus:\n  main: {}\n",
		"menus not map":  "routes:\n  page: /p\nmenus: [main]\n",
		"duplicate menu": "routes:\n  page: /p\nmenus:\n  main: {}\n  main: {}\n",
		"bad yaml":       "routes: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefinitions(t *testing.T) {
	d, err := LoadDefinitions("")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "footer"}, d.Menus.Anchors())
	assert.Len(t, d.Routes, 3)

	path := filepath.Join(t.TempDir(), "menus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDefinitions), 0o600))
	d, err = LoadDefinitions(path)
	require.NoError(t, err)
	def, ok := d.Menus.Get("sidebar")
	require.True(t, ok)
	assert.Equal(t, "products", def.Root)

	_, err = LoadDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDefinitionsJSON(t *testing.T) {
	const data = `{
	// comments and trailing commas are allowed
	"routes": {"page": "/page/{slug}", "permalink": "/*",},
	"menus": {
		"footer": {},
		"main": {"root": "products", "options": {"slug": {"auto_generate": true}}},
	},
}`
	path := filepath.Join(t.TempDir(), "menus.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	d, err := LoadDefinitions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"footer", "main"}, d.Menus.Anchors())
	assert.Equal(t, map[string]string{"main": "products"}, d.Menus.RootNodes())
	assert.Equal(t, map[string]any{"auto_generate": true}, d.Menus.Options()["main"]["slug"])

	bad := filepath.Join(t.TempDir(), "menus.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"routes": `), 0o600))
	_, err = LoadDefinitions(bad)
	assert.Error(t, err)
}

func TestRouteTableInvalidPattern(t *testing.T) {
	d := &Definitions{Routes: map[string]string{"broken": "no-slash"}}
	_, err := d.RouteTable("https://example.com")
	assert.ErrorIs(t, err, route.ErrInvalidPattern)
}
