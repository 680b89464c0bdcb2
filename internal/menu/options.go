// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"fmt"
	"maps"
	"slices"

	"github.com/olegiv/ocms-menu/internal/route"
)

// SlugOptions controls slug generation.
type SlugOptions struct {
	AutoGenerate    bool
	Delimiter       string
	RemoveWords     []string
	GenerateFrom    []string
	RewriteOriginal bool
}

// PermalinkOptions controls permalink generation.
type PermalinkOptions struct {
	AutoGenerate    bool
	SlashStart      bool
	SlashEnd        bool
	RewriteOriginal bool
}

// URIOptions controls URI generation.
type URIOptions struct {
	AutoGenerate bool
	PathType     route.PathType
}

// Options are the validated builder options of one menu.
type Options struct {
	Slug           SlugOptions
	Permalink      PermalinkOptions
	URI            URIOptions
	TryFindParents bool
}

// DefaultOptions returns the option schema with its default values. User
// options must use the same keys and value kinds.
func DefaultOptions() map[string]any {
	return map[string]any{
		"slug": map[string]any{
			"auto_generate":    false,
			"delimiter":        "-",
			"remove_words":     []string{},
			"generate_from":    []string{"name"},
			"rewrite_original": false,
		},
		"permalink": map[string]any{
			"auto_generate":    false,
			"slash_start":      false,
			"slash_end":        false,
			"rewrite_original": false,
		},
		"uri": map[string]any{
			"auto_generate": true,
			"path_type":     string(route.AbsolutePath),
		},
		"try_find_parents": true,
	}
}

type valueKind string

const (
	kindBool    valueKind = "bool"
	kindString  valueKind = "string"
	kindList    valueKind = "list"
	kindGroup   valueKind = "group"
	kindUnknown valueKind = "unknown"
)

func kindOf(v any) valueKind {
	switch v := v.(type) {
	case bool:
		return kindBool
	case string:
		return kindString
	case []string:
		return kindList
	case []any:
		if _, ok := stringList(v); ok {
			return kindList
		}
	case map[string]any:
		return kindGroup
	}
	return kindUnknown
}

// stringList accepts []string and []any holding only strings (YAML and JSON
// decode lists that way).
func stringList(v any) ([]string, bool) {
	switch v := v.(type) {
	case []string:
		return slices.Clone(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// mergeOptions overlays user on defaults, checking every key and value kind
// against the defaults. Groups are merged key by key.
func mergeOptions(defaults, user map[string]any, path string) (map[string]any, error) {
	merged := maps.Clone(defaults)
	for _, key := range sortedKeys(user) {
		name := key
		if path != "" {
			name = path + "." + key
		}
		def, ok := defaults[key]
		if !ok {
			return nil, fmt.Errorf("option %q: %w", name, ErrUnknownOption)
		}
		val := user[key]
		want, got := kindOf(def), kindOf(val)
		if want != got {
			return nil, fmt.Errorf("option %q: expected %s, got %T: %w", name, want, val, ErrOptionType)
		}
		if want == kindGroup {
			sub, err := mergeOptions(def.(map[string]any), val.(map[string]any), name)
			if err != nil {
				return nil, err
			}
			merged[key] = sub
			continue
		}
		merged[key] = val
	}
	return merged, nil
}

// ParseOptions validates user options against DefaultOptions and returns the
// typed result. A nil map yields the defaults.
func ParseOptions(user map[string]any) (Options, error) {
	merged, err := mergeOptions(DefaultOptions(), user, "")
	if err != nil {
		return Options{}, err
	}

	slug := merged["slug"].(map[string]any)
	permalink := merged["permalink"].(map[string]any)
	uri := merged["uri"].(map[string]any)

	removeWords, _ := stringList(slug["remove_words"])
	generateFrom, _ := stringList(slug["generate_from"])

	pathType, err := route.ParsePathType(uri["path_type"].(string))
	if err != nil {
		return Options{}, fmt.Errorf("option %q: %v: %w", "uri.path_type", err, ErrInvalidPathType)
	}

	return Options{
		Slug: SlugOptions{
			AutoGenerate:    slug["auto_generate"].(bool),
			Delimiter:       slug["delimiter"].(string),
			RemoveWords:     removeWords,
			GenerateFrom:    generateFrom,
			RewriteOriginal: slug["rewrite_original"].(bool),
		},
		Permalink: PermalinkOptions{
			AutoGenerate:    permalink["auto_generate"].(bool),
			SlashStart:      permalink["slash_start"].(bool),
			SlashEnd:        permalink["slash_end"].(bool),
			RewriteOriginal: permalink["rewrite_original"].(bool),
		},
		URI: URIOptions{
			AutoGenerate: uri["auto_generate"].(bool),
			PathType:     pathType,
		},
		TryFindParents: merged["try_find_parents"].(bool),
	}, nil
}
