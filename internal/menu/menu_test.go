// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMenu builds:
//
//	root
//	├── a
//	│   ├── b
//	│   │   └── c
//	│   └── e
//	└── d
func newTestMenu(t *testing.T) *Menu {
	t.Helper()
	m := New("main", "page", "en_US")
	for _, pair := range [][2]string{{"a", ""}, {"b", "a"}, {"c", "b"}, {"d", ""}, {"e", "a"}} {
		item := NewItem(pair[0])
		item.SetName(strings.ToUpper(pair[0]))
		item.SetSlug(pair[0])
		require.NoError(t, m.AddMenuItem(item, pair[1]))
	}
	return m
}

func anchors(items []*Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Anchor())
	}
	return out
}

// equalValues compares attribute bags pair by pair, order included.
var equalValues = cmp.Comparer(func(a, b *Attributes) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	for pa, pb := a.Oldest(), b.Oldest(); pa != nil; pa, pb = pa.Next(), pb.Next() {
		if pa.Key != pb.Key || !cmp.Equal(pa.Value, pb.Value) {
			return false
		}
	}
	return true
})

func valueKeys(values *Attributes) []string {
	var keys []string
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func walkOrder(m *Menu) []string {
	var out []string
	m.Walk(func(item *Item) bool {
		out = append(out, item.Anchor())
		return true
	})
	return out
}

func TestAddMenuItem(t *testing.T) {
	m := newTestMenu(t)

	assert.Equal(t, 5, m.Len())
	assert.Equal(t, []string{"a", "b", "c", "e", "d"}, walkOrder(m))

	err := m.AddMenuItem(NewItem(RootAnchor), "")
	assert.ErrorIs(t, err, ErrReservedAnchor)

	err = m.AddMenuItem(NewItem("x"), "ghost")
	assert.ErrorIs(t, err, ErrParentNotFound)
	assert.Contains(t, err.Error(), `"x"`)

	err = m.AddMenuItem(NewItem("c"), "d")
	assert.ErrorIs(t, err, ErrDuplicateChild)

	require.NoError(t, m.AddMenuItem(NewItem("f"), RootAnchor))
	parent, ok := m.Parent(mustFind(t, m, "f"))
	require.True(t, ok)
	assert.True(t, parent.IsRoot())
}

func mustFind(t *testing.T, m *Menu, anchor string) *Item {
	t.Helper()
	item, ok := m.FindMenuItem(anchor)
	require.True(t, ok, "item %q not found", anchor)
	return item
}

func TestFindMenuItem(t *testing.T) {
	m := newTestMenu(t)

	assert.Equal(t, "c", mustFind(t, m, "c").Anchor())

	_, ok := m.FindMenuItem("missing")
	assert.False(t, ok)

	_, ok = m.FindMenuItem(RootAnchor)
	assert.False(t, ok)
}

func TestParentsAndBreadcrumbs(t *testing.T) {
	m := newTestMenu(t)

	assert.Equal(t, []string{"a", "b"}, anchors(m.Parents("c")))
	assert.Empty(t, m.Parents("a"))
	assert.Nil(t, m.Parents("missing"))

	assert.Equal(t, []string{"a", "b", "c"}, anchors(m.Breadcrumbs("c", true)))
	assert.Equal(t, []string{"a", "b"}, anchors(m.Breadcrumbs("c", false)))
}

func TestRootParent(t *testing.T) {
	m := newTestMenu(t)

	for _, anchor := range []string{"b", "c", "e"} {
		top, ok := m.RootParent(anchor)
		require.True(t, ok, anchor)
		assert.Equal(t, "a", top.Anchor(), anchor)
	}
	for _, anchor := range []string{"a", "d", RootAnchor, "missing"} {
		_, ok := m.RootParent(anchor)
		assert.False(t, ok, anchor)
	}

	require.NoError(t, m.Reroot("b"))
	top, ok := m.RootParent("c")
	require.True(t, ok)
	assert.Equal(t, "b", top.Anchor())
}

func TestLevel(t *testing.T) {
	m := newTestMenu(t)

	for anchor, want := range map[string]int{RootAnchor: 0, "a": 1, "b": 2, "c": 3, "d": 1} {
		got, err := m.Level(anchor)
		require.NoError(t, err)
		assert.Equal(t, want, got, anchor)
	}

	_, err := m.Level("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, m.MoveToParent("b", "d"))
	got, err := m.Level("c")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	require.NoError(t, m.MoveToParent("b", ""))
	got, err = m.Level("c")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestFindMenuItems(t *testing.T) {
	m := newTestMenu(t)
	mustFind(t, m, "e").SetName("B")

	found, err := m.FindMenuItems(By("name", "B"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "e"}, anchors(found))

	found, err = m.FindMenuItems(By("name", "B").And("level", 2).And("slug", "e"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, anchors(found))

	found, err = m.FindMenuItems(By("slug", "c").And("anchor", "d"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, anchors(found))

	found, err = m.FindMenuItemsBy("route_name", "")
	require.NoError(t, err)
	assert.Len(t, found, 5)

	_, err = m.FindMenuItems(By("colour", "red"), true)
	assert.ErrorIs(t, err, ErrUnknownCriterion)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = m.FindMenuItems(nil, true)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestItemPosition(t *testing.T) {
	m := newTestMenu(t)
	for _, anchor := range []string{"f", "g"} {
		require.NoError(t, m.AddMenuItem(NewItem(anchor), "a"))
	}
	// a: b, e, f, g

	pos, err := m.ItemPosition("f")
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	pos, err = m.ItemPosition(RootAnchor)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	_, err = m.ItemPosition("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMoveItemToPosition(t *testing.T) {
	tests := []struct {
		name     string
		anchor   string
		position int
		want     []string
	}{
		{"forward", "b", 3, []string{"e", "f", "b", "g"}},
		{"backward", "g", 2, []string{"b", "g", "e", "f"}},
		{"same place", "e", 2, []string{"b", "e", "f", "g"}},
		{"clamped high", "b", 99, []string{"e", "f", "g", "b"}},
		{"clamped low", "f", -3, []string{"f", "b", "e", "g"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMenu(t)
			for _, anchor := range []string{"f", "g"} {
				require.NoError(t, m.AddMenuItem(NewItem(anchor), "a"))
			}

			require.NoError(t, m.MoveItemToPosition(tt.anchor, tt.position))
			assert.Equal(t, tt.want, mustFind(t, m, "a").ChildAnchors())

			pos, err := m.ItemPosition(tt.anchor)
			require.NoError(t, err)
			assert.Equal(t, max(1, min(tt.position, 4)), pos)
		})
	}
}

func TestMoveItemToFirstAndLast(t *testing.T) {
	m := newTestMenu(t)

	require.NoError(t, m.MoveItemToFirstPosition("d"))
	assert.Equal(t, []string{"d", "a"}, m.Root().ChildAnchors())

	require.NoError(t, m.MoveItemToLastPosition("d"))
	assert.Equal(t, []string{"a", "d"}, m.Root().ChildAnchors())
}

func TestMoveToParent(t *testing.T) {
	m := newTestMenu(t)

	require.NoError(t, m.ChangeParent("b", "d"))
	assert.Equal(t, []string{"e"}, mustFind(t, m, "a").ChildAnchors())
	assert.Equal(t, []string{"b"}, mustFind(t, m, "d").ChildAnchors())
	assert.Equal(t, []string{"d", "b"}, anchors(m.Parents("c")))

	assert.ErrorIs(t, m.MoveToParent("b", "ghost"), ErrParentNotFound)
	assert.ErrorIs(t, m.MoveToParent("d", "c"), ErrParentNotFound)
	assert.ErrorIs(t, m.MoveToParent("missing", "a"), ErrItemNotFound)
}

func TestSetActiveItemByPermalink(t *testing.T) {
	m := newTestMenu(t)
	require.NoError(t, m.GenerateMenuPermalinks(false, false))

	assert.True(t, m.SetActiveItemByPermalink("a/b", true, true))
	assert.True(t, mustFind(t, m, "a").IsActive())
	assert.True(t, mustFind(t, m, "b").IsActive())
	assert.False(t, mustFind(t, m, "c").IsActive())

	active, ok := m.ActiveItem()
	require.True(t, ok)
	assert.Equal(t, "b", active.Anchor())

	before := walkActive(m)
	assert.False(t, m.SetActiveItemByPermalink("nope", true, true))
	assert.Equal(t, before, walkActive(m))
}

func walkActive(m *Menu) map[string]bool {
	out := map[string]bool{}
	m.Walk(func(item *Item) bool {
		out[item.Anchor()] = item.IsActive()
		return true
	})
	return out
}

func TestSetActiveItemBySlugAndName(t *testing.T) {
	m := newTestMenu(t)

	assert.True(t, m.SetActiveItemBySlug("c", true, false))
	assert.False(t, mustFind(t, m, "b").IsActive())
	assert.True(t, m.HasActiveItem())

	assert.True(t, m.SetActiveItemByName("D", true, false))
	active, _ := m.ActiveItem()
	assert.Equal(t, "d", active.Anchor())
}

func TestGeneratePermalink(t *testing.T) {
	m := newTestMenu(t)

	require.NoError(t, m.GeneratePermalink("c", true, false, "", ""))
	assert.Equal(t, "/a/b/c", mustFind(t, m, "c").Permalink())

	require.NoError(t, m.GeneratePermalink("c", true, true, "en", ".html"))
	assert.Equal(t, "en/a/b/c/.html", mustFind(t, m, "c").Permalink())

	require.NoError(t, m.GeneratePermalink("c", true, false, "https://example.com", "?v=1"))
	assert.Equal(t, "https://example.com/a/b/c?v=1", mustFind(t, m, "c").Permalink())

	mustFind(t, m, "b").SetSlug("")
	err := m.GeneratePermalink("c", true, false, "", "")
	assert.ErrorIs(t, err, ErrMissingSlug)
	assert.ErrorIs(t, err, ErrDerivation)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestGenerateMenuPermalinks(t *testing.T) {
	m := newTestMenu(t)

	require.NoError(t, m.GenerateMenuPermalinks(true, true))

	got := map[string]string{}
	m.Walk(func(item *Item) bool {
		got[item.Anchor()] = item.Permalink()
		return true
	})
	want := map[string]string{"a": "/a/", "b": "/a/b/", "c": "/a/b/c/", "d": "/d/", "e": "/a/e/"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("permalinks mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateSpecial(t *testing.T) {
	m := newTestMenu(t)
	own := NewSpecialFrom(map[string]any{"own": true})
	mustFind(t, m, "c").SetSpecial(own)

	shared := NewSpecialFrom(map[string]any{"shared": true})
	m.GenerateSpecial(true, false, shared)
	assert.Same(t, shared, mustFind(t, m, "a").Special())
	assert.Same(t, own, mustFind(t, m, "c").Special())

	m.GenerateSpecial(false, true, nil)
	assert.NotSame(t, mustFind(t, m, "a").Special(), mustFind(t, m, "b").Special())

	m.SetSpecialForAll(shared)
	assert.Same(t, shared, mustFind(t, m, "c").Special())
}

func TestRemoveItemsAndReroot(t *testing.T) {
	m := newTestMenu(t)
	m.SetActiveItem(mustFind(t, m, "d"))

	require.NoError(t, m.Reroot("b"))
	assert.Equal(t, []string{"b", "c"}, walkOrder(m))
	assert.False(t, m.HasActiveItem())

	lvl, err := m.Level("c")
	require.NoError(t, err)
	assert.Equal(t, 2, lvl)

	assert.ErrorIs(t, m.Reroot("a"), ErrRootNodeNotFound)

	m.RemoveItems()
	assert.Equal(t, 0, m.Len())
	assert.NotNil(t, m.Root())
}

func TestTree(t *testing.T) {
	m := newTestMenu(t)
	require.NoError(t, mustFind(t, m, "a").SetAttribute("class", "top", false))

	tree := m.Tree()
	require.Len(t, tree, 2)
	assert.Equal(t, "a", tree[0].Anchor)
	require.NotNil(t, tree[0].Attributes)
	assert.Equal(t, []string{"class"}, valueKeys(tree[0].Attributes))
	class, _ := tree[0].Attributes.Get("class")
	assert.Equal(t, "top", class)
	assert.Nil(t, tree[1].Attributes)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, 3, tree[0].Children[0].Children[0].Level)
	assert.Empty(t, tree[1].Children)

	// The node holds a copy.
	tree[0].Attributes.Set("class", "changed")
	got, _ := mustFind(t, m, "a").Attribute("class")
	assert.Equal(t, "top", got)
}

func TestTreeKeepsValueOrder(t *testing.T) {
	m := newTestMenu(t)
	a := mustFind(t, m, "a")
	for _, key := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, a.SetAttribute(key, key+"-value", false))
	}
	special := NewSpecial()
	special.Set("z", 1)
	special.Set("a", 2)
	a.SetSpecial(special)

	tree := m.Tree()
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, valueKeys(tree[0].Attributes))
	assert.Equal(t, []string{"z", "a"}, valueKeys(tree[0].Special))

	data, err := json.Marshal(tree[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"attributes":{"zeta":"zeta-value","alpha":"alpha-value","mid":"mid-value"}`)
	assert.Contains(t, string(data), `"special":{"z":1,"a":2}`)

	var decoded Node
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, valueKeys(decoded.Attributes))
}
