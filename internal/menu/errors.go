// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of them,
// so callers can classify failures with errors.Is.
var (
	// ErrConfiguration marks bad builder options or search criteria.
	ErrConfiguration = errors.New("menu: configuration error")
	// ErrStructural marks inconsistent tree input (duplicates, dangling parents).
	ErrStructural = errors.New("menu: structural error")
	// ErrPrecondition marks calls made in the wrong lifecycle state.
	ErrPrecondition = errors.New("menu: precondition error")
	// ErrDerivation marks failures while deriving slugs, permalinks or URIs.
	ErrDerivation = errors.New("menu: derivation error")
)

// Concrete failures.
var (
	ErrUnknownOption       = kindError(ErrConfiguration, "unknown option")
	ErrOptionType          = kindError(ErrConfiguration, "invalid option type")
	ErrUnrecognizedOption  = kindError(ErrConfiguration, "unrecognized item option")
	ErrUnknownCriterion    = kindError(ErrConfiguration, "unknown search criterion")
	ErrInvalidActiveValue  = kindError(ErrConfiguration, "invalid active value")
	ErrInvalidPathType     = kindError(ErrConfiguration, "invalid path type")
	ErrDuplicateChild      = kindError(ErrStructural, "duplicate child anchor")
	ErrDuplicateMenu       = kindError(ErrStructural, "duplicate menu anchor")
	ErrReservedAnchor      = kindError(ErrStructural, "reserved anchor \"root\"")
	ErrExplicitRootParent  = kindError(ErrStructural, "parent \"root\" must not be set explicitly")
	ErrParentNotFound      = kindError(ErrStructural, "parent not found")
	ErrUnresolvedParents   = kindError(ErrStructural, "cannot find parent for items")
	ErrItemNotFound        = kindError(ErrStructural, "item not found")
	ErrRootNodeNotFound    = kindError(ErrStructural, "root node not found")
	ErrAttributeExists     = kindError(ErrStructural, "attribute already exists")
	ErrSpecialNotFound     = kindError(ErrStructural, "special value not found")
	ErrAlreadyCreated      = kindError(ErrPrecondition, "menu already created")
	ErrNotCreated          = kindError(ErrPrecondition, "menu not created")
	ErrMissingSlug         = kindError(ErrDerivation, "missing slug")
	ErrRouteNotFound       = kindError(ErrDerivation, "route not found")
	ErrSlugSourceUnknown   = kindError(ErrDerivation, "unknown slug source field")
	ErrURIGenerationFailed = kindError(ErrDerivation, "uri generation failed")
)

// kindedError is a sentinel that also matches its kind.
type kindedError struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &kindedError{kind: kind, msg: msg}
}

func (e *kindedError) Error() string { return e.msg }

func (e *kindedError) Unwrap() error { return e.kind }

// Kind returns the kind sentinel wrapped by err, or nil if err does not
// originate from this package.
func Kind(err error) error {
	for _, kind := range []error{ErrConfiguration, ErrStructural, ErrPrecondition, ErrDerivation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// itemError wraps a sentinel with the menu and item anchors involved.
func itemError(sentinel error, menuAnchor, itemAnchor string, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	if detail != "" {
		detail = ": " + detail
	}
	return fmt.Errorf("menu %q, item %q%s: %w", menuAnchor, itemAnchor, detail, sentinel)
}
