// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menu/internal/route"
)

func TestParseOptionsDefaults(t *testing.T) {
	got, err := ParseOptions(nil)
	require.NoError(t, err)

	want := Options{
		Slug: SlugOptions{
			Delimiter:    "-",
			RemoveWords:  []string{},
			GenerateFrom: []string{"name"},
		},
		URI:            URIOptions{AutoGenerate: true, PathType: route.AbsolutePath},
		TryFindParents: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("default options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOptionsMerge(t *testing.T) {
	got, err := ParseOptions(map[string]any{
		"slug":             map[string]any{"generate_from": []any{"name", "id"}, "delimiter": "_"},
		"permalink":        map[string]any{"slash_end": true},
		"try_find_parents": false,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "id"}, got.Slug.GenerateFrom)
	assert.Equal(t, "_", got.Slug.Delimiter)
	assert.False(t, got.Slug.AutoGenerate)
	assert.True(t, got.Permalink.SlashEnd)
	assert.False(t, got.Permalink.SlashStart)
	assert.False(t, got.TryFindParents)
	assert.True(t, got.URI.AutoGenerate)
}

func TestParseOptionsListOfNonStrings(t *testing.T) {
	_, err := ParseOptions(map[string]any{"slug": map[string]any{"remove_words": []any{1, 2}}})
	assert.ErrorIs(t, err, ErrOptionType)
	assert.Contains(t, err.Error(), "slug.remove_words")
}

func TestDefaultOptionsIsFresh(t *testing.T) {
	a := DefaultOptions()
	a["slug"].(map[string]any)["delimiter"] = "+"

	b := DefaultOptions()
	assert.Equal(t, "-", b["slug"].(map[string]any)["delimiter"])
}
