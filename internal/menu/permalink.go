// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import "strings"

// GeneratePermalink joins the slugs of the item's breadcrumbs with "/" and
// stores the result as the item's permalink. The optional slashes wrap the
// joined path; prepend and appendStr are then added verbatim outside them.
func (m *Menu) GeneratePermalink(anchor string, startSlash, endSlash bool, prepend, appendStr string) error {
	item, ok := m.FindMenuItem(anchor)
	if !ok {
		return itemError(ErrItemNotFound, m.anchor, anchor, "")
	}
	permalink, err := m.permalinkFor(item, startSlash, endSlash, prepend, appendStr)
	if err != nil {
		return err
	}
	item.SetPermalink(permalink)
	return nil
}

func (m *Menu) permalinkFor(item *Item, startSlash, endSlash bool, prepend, appendStr string) (string, error) {
	crumbs := append(m.ancestors(item), item)
	slugs := make([]string, 0, len(crumbs))
	for _, crumb := range crumbs {
		if !crumb.HasSlug() {
			return "", itemError(ErrMissingSlug, m.anchor, crumb.anchor,
				"needed for the permalink of %q", item.anchor)
		}
		slugs = append(slugs, crumb.slug)
	}

	var b strings.Builder
	b.WriteString(prepend)
	if startSlash {
		b.WriteByte('/')
	}
	b.WriteString(strings.Join(slugs, "/"))
	if endSlash {
		b.WriteByte('/')
	}
	b.WriteString(appendStr)
	return b.String(), nil
}

// GenerateMenuPermalinks regenerates the permalink of every item in pre-order.
func (m *Menu) GenerateMenuPermalinks(startSlash, endSlash bool) error {
	var err error
	m.Walk(func(item *Item) bool {
		var permalink string
		permalink, err = m.permalinkFor(item, startSlash, endSlash, "", "")
		if err != nil {
			return false
		}
		item.SetPermalink(permalink)
		return true
	})
	return err
}

// GenerateSpecial attaches special bags to the items. With sameForAll one bag
// (special, or a new one if nil) is shared by every item; otherwise each item
// gets its own empty bag. Items that already have a bag keep it unless
// rewrite is set.
func (m *Menu) GenerateSpecial(sameForAll, rewrite bool, special *Special) {
	if sameForAll && special == nil {
		special = NewSpecial()
	}
	m.Walk(func(item *Item) bool {
		if !rewrite && item.HasSpecial() {
			return true
		}
		if sameForAll {
			item.SetSpecial(special)
		} else {
			item.SetSpecial(NewSpecial())
		}
		return true
	})
}

// SetSpecialForAll attaches the same bag to every item.
func (m *Menu) SetSpecialForAll(special *Special) {
	m.GenerateSpecial(true, true, special)
}
