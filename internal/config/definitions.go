// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/olegiv/ocms-menu/internal/route"
)

// Definitions describes the routes and menus served by the application.
//
//	routes:
//	  page: /page/{slug}
//	  permalink: /*
//	menus:
//	  main:
//	    root: products
//	    options:
//	      slug:
//	        auto_generate: true
type Definitions struct {
	Routes map[string]string `yaml:"routes"`
	Menus  MenuDefinitions   `yaml:"menus"`
}

// MenuDefinition holds the generation settings of one menu.
type MenuDefinition struct {
	Root    string         `yaml:"root"`
	Options map[string]any `yaml:"options"`
}

// MenuDefinitions keeps menus in file order.
type MenuDefinitions struct {
	anchors []string
	menus   map[string]MenuDefinition
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *MenuDefinitions) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: menus must be a mapping", value.Line)
	}
	m.anchors = nil
	m.menus = make(map[string]MenuDefinition, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, node := value.Content[i], value.Content[i+1]
		var def MenuDefinition
		if err := node.Decode(&def); err != nil {
			return fmt.Errorf("menu %q: %w", key.Value, err)
		}
		if _, dup := m.menus[key.Value]; dup {
			return fmt.Errorf("line %d: duplicate menu %q", key.Line, key.Value)
		}
		m.anchors = append(m.anchors, key.Value)
		m.menus[key.Value] = def
	}
	return nil
}

// Add appends a menu definition, replacing an existing one in place.
func (m *MenuDefinitions) Add(anchor string, def MenuDefinition) {
	if m.menus == nil {
		m.menus = make(map[string]MenuDefinition)
	}
	if _, ok := m.menus[anchor]; !ok {
		m.anchors = append(m.anchors, anchor)
	}
	m.menus[anchor] = def
}

// Anchors returns the menu anchors in file order.
func (m MenuDefinitions) Anchors() []string {
	return slices.Clone(m.anchors)
}

// Get returns the definition of one menu.
func (m MenuDefinitions) Get(anchor string) (MenuDefinition, bool) {
	def, ok := m.menus[anchor]
	return def, ok
}

// RootNodes returns the configured root items keyed by menu anchor.
func (m MenuDefinitions) RootNodes() map[string]string {
	roots := make(map[string]string)
	for anchor, def := range m.menus {
		if def.Root != "" {
			roots[anchor] = def.Root
		}
	}
	return roots
}

// Options returns the builder options keyed by menu anchor.
func (m MenuDefinitions) Options() map[string]map[string]any {
	opts := make(map[string]map[string]any)
	for anchor, def := range m.menus {
		if len(def.Options) > 0 {
			opts[anchor] = def.Options
		}
	}
	return opts
}

// DefaultDefinitions serves the demo menus created by the seed command.
func DefaultDefinitions() *Definitions {
	d := &Definitions{
		Routes: map[string]string{
			"home":      "/",
			"page":      "/page/{slug}",
			"permalink": "/*",
		},
	}
	d.Menus.Add("main", MenuDefinition{})
	d.Menus.Add("footer", MenuDefinition{})
	return d
}

// LoadDefinitions reads a definitions file. Files ending in .json, .jsonc or
// .hujson may carry comments and trailing commas; anything else is YAML.
// An empty path yields DefaultDefinitions.
func LoadDefinitions(path string) (*Definitions, error) {
	if path == "" {
		return DefaultDefinitions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".hujson":
		// Standard JSON is valid YAML.
		data, err = hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("parsing definitions %s: %w", path, err)
		}
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes YAML definitions.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var d Definitions
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing definitions: %w", err)
	}
	if len(d.Routes) == 0 {
		return nil, fmt.Errorf("definitions: at least one route is required")
	}
	return &d, nil
}

// RouteTable builds the route table for baseURL.
func (d *Definitions) RouteTable(baseURL string) (*route.Table, error) {
	table, err := route.NewTable(baseURL)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(d.Routes))
	for name := range d.Routes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := table.Add(name, d.Routes[name]); err != nil {
			return nil, err
		}
	}
	return table, nil
}
