// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// OUTBOUND KEY-CASING TRANSFORM
// =============================================================================

// The backend expects PascalCase keys on write but serves camelCase on
// read, so the transform is applied on outgoing bodies only. Two kinds
// of values are dropped during the transform: nil and the empty string.
// Zero and false are meaningful (a zero-cost trip, an inactive flag)
// and MUST survive.

// ToPascalCase re-keys a decoded JSON object for transmission. Nested
// objects and arrays are transformed recursively. The input map is not
// modified.
func ToPascalCase(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		transformed, keep := transformValue(value)
		if !keep {
			continue
		}
		out[pascalKey(key)] = transformed
	}
	return out
}

// transformValue recurses into containers and decides whether a value
// is carried at all. Only nil and "" are omitted.
func transformValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		if v == "" {
			return nil, false
		}
		return v, true
	case map[string]any:
		return ToPascalCase(v), true
	case []any:
		out := make([]any, 0, len(v))
		for _, elem := range v {
			transformed, keep := transformValue(elem)
			if !keep {
				continue
			}
			out = append(out, transformed)
		}
		return out, true
	default:
		return value, true
	}
}

// pascalKey upper-cases the first rune of a key: "firstName" ->
// "FirstName". Keys that already start upper-case pass through.
func pascalKey(key string) string {
	if key == "" {
		return key
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
