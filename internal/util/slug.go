// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides URL slug generation with Unicode
// normalization and transliteration, plus small database/sql helpers.
package util

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultDelimiter separates slug words when no other delimiter is given.
const DefaultDelimiter = "-"

// Slugify converts a string to a URL-friendly slug.
// It removes accents, transliterates other scripts to ASCII, lowercases the
// result and joins the remaining words with hyphens.
func Slugify(s string) string {
	return SlugifyWith(s, nil, DefaultDelimiter)
}

// SlugifyWith converts a string to a slug, dropping every word listed in
// removeWords (case-insensitive) and joining the rest with delimiter.
func SlugifyWith(s string, removeWords []string, delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	// Transliterate what is left outside ASCII
	result = strings.ToLower(unidecode.Unidecode(result))

	words := strings.FieldsFunc(result, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})

	if len(removeWords) > 0 {
		stop := make([]string, len(removeWords))
		for i, w := range removeWords {
			stop[i] = strings.ToLower(w)
		}
		words = slices.DeleteFunc(words, func(w string) bool {
			return slices.Contains(stop, w)
		})
	}

	return strings.Join(words, delimiter)
}
