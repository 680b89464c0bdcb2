// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package route resolves named chi route patterns into navigation URIs.
package route

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Errors returned by the route table.
var (
	ErrUnknownRoute    = errors.New("route: unknown route")
	ErrInvalidPattern  = errors.New("route: invalid pattern")
	ErrMissingParam    = errors.New("route: missing parameter")
	ErrNoMatch         = errors.New("route: generated path does not match pattern")
	ErrInvalidPathType = errors.New("route: invalid path type")
)

// PathType selects the shape of a generated URI.
type PathType string

// Supported path types.
const (
	AbsolutePath PathType = "absolute-path"
	AbsoluteURL  PathType = "absolute-url"
	RelativePath PathType = "relative-path"
	NetworkPath  PathType = "network-path"
)

// ParsePathType validates s as a path type.
func ParsePathType(s string) (PathType, error) {
	p := PathType(s)
	if !p.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidPathType)
	}
	return p, nil
}

// Valid reports whether p is one of the supported path types.
func (p PathType) Valid() bool {
	switch p {
	case AbsolutePath, AbsoluteURL, RelativePath, NetworkPath:
		return true
	}
	return false
}

// CatchAll is the parameter name of a trailing "/*" segment.
const CatchAll = "*"

// Route is a named pattern and the names of its parameters in order.
type Route struct {
	Name    string   `json:"name"`
	Pattern string   `json:"pattern"`
	Params  []string `json:"params"`
}

type entry struct {
	route Route
	mux   *chi.Mux
}

// Table is a set of named routes sharing one base URL.
type Table struct {
	base   *url.URL
	routes map[string]entry
}

// NewTable creates an empty table. baseURL is used for absolute and network
// URIs; its path is prefixed to every generated path.
func NewTable(baseURL string) (*Table, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	return &Table{base: base, routes: make(map[string]entry)}, nil
}

// Add registers pattern under name, replacing an existing route.
func (t *Table) Add(name, pattern string) error {
	if name == "" || !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("route %q %q: %w", name, pattern, ErrInvalidPattern)
	}
	mux, err := newMatcher(pattern)
	if err != nil {
		return fmt.Errorf("route %q: %w", name, err)
	}
	t.routes[name] = entry{
		route: Route{Name: name, Pattern: pattern, Params: paramNames(pattern)},
		mux:   mux,
	}
	return nil
}

// newMatcher builds a single-route mux; chi panics on malformed patterns.
func newMatcher(pattern string) (mux *chi.Mux, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%q: %v: %w", pattern, r, ErrInvalidPattern)
		}
	}()
	mux = chi.NewRouter()
	mux.Get(pattern, func(http.ResponseWriter, *http.Request) {})
	return mux, nil
}

// ResolveRoute returns the route registered under name.
func (t *Table) ResolveRoute(name string) (Route, bool) {
	e, ok := t.routes[name]
	if !ok {
		return Route{}, false
	}
	e.route.Params = slices.Clone(e.route.Params)
	return e.route, true
}

// Names returns the registered route names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.routes))
	for name := range t.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateURI fills the route parameters and renders the URI in the given
// path type. Parameters not used by the pattern become the query string.
func (t *Table) GenerateURI(name string, params map[string]string, pathType PathType) (string, error) {
	e, ok := t.routes[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownRoute)
	}
	if !pathType.Valid() {
		return "", fmt.Errorf("%q: %w", pathType, ErrInvalidPathType)
	}

	path, used, err := expand(e.route.Pattern, params)
	if err != nil {
		return "", fmt.Errorf("route %q: %w", name, err)
	}
	if !e.mux.Match(chi.NewRouteContext(), http.MethodGet, path) {
		return "", fmt.Errorf("route %q, path %q: %w", name, path, ErrNoMatch)
	}

	query := url.Values{}
	for key, value := range params {
		if !used[key] {
			query.Set(key, value)
		}
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	prefixed := t.base.Path + path
	switch pathType {
	case AbsoluteURL:
		return t.base.Scheme + "://" + t.base.Host + prefixed, nil
	case NetworkPath:
		return "//" + t.base.Host + prefixed, nil
	case RelativePath:
		return strings.TrimPrefix(prefixed, "/"), nil
	default:
		return prefixed, nil
	}
}

// paramNames lists the {name} and {name:regexp} placeholders of a pattern,
// plus CatchAll for a trailing "*".
func paramNames(pattern string) []string {
	var names []string
	for rest := pattern; ; {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			break
		}
		end := closingBrace(rest, start)
		if end < 0 {
			break
		}
		name, _, _ := strings.Cut(rest[start+1:end], ":")
		names = append(names, name)
		rest = rest[end+1:]
	}
	if strings.HasSuffix(pattern, "*") {
		names = append(names, CatchAll)
	}
	return names
}

// closingBrace returns the index of the brace closing the one at start,
// accounting for braces nested in regexp quantifiers.
func closingBrace(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func expand(pattern string, params map[string]string) (string, map[string]bool, error) {
	used := make(map[string]bool)
	var b strings.Builder
	rest := pattern
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			break
		}
		end := closingBrace(rest, start)
		if end < 0 {
			return "", nil, fmt.Errorf("%q: %w", pattern, ErrInvalidPattern)
		}
		name, _, _ := strings.Cut(rest[start+1:end], ":")
		value, ok := params[name]
		if !ok || value == "" {
			return "", nil, fmt.Errorf("%q: %w", name, ErrMissingParam)
		}
		b.WriteString(rest[:start])
		b.WriteString(url.PathEscape(value))
		used[name] = true
		rest = rest[end+1:]
	}

	if strings.HasSuffix(rest, "*") {
		value, ok := params[CatchAll]
		if !ok {
			return "", nil, fmt.Errorf("%q: %w", CatchAll, ErrMissingParam)
		}
		b.WriteString(strings.TrimSuffix(rest, "*"))
		b.WriteString(escapeSegments(strings.TrimPrefix(value, "/")))
		used[CatchAll] = true
	} else {
		b.WriteString(rest)
	}
	return b.String(), used, nil
}

func escapeSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
