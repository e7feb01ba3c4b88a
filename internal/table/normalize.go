// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldForSearch lowercases s and strips diacritics so a search for
// "malmo" matches "Malmö". Decomposes to NFKD, drops combining marks,
// then lowercases rune by rune.
func foldForSearch(s string) string {
	t := transform.Chain(norm.NFKD)
	normalized, _, err := transform.String(t, s)
	if err != nil {
		normalized = s // Fall back to the original on transform error
	}

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		// Skip combining marks (Unicode category Mn range used by Latin scripts)
		if r >= 0x300 && r <= 0x36f {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
