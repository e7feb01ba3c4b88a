// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Small shared helpers for the root model.
package app

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jeranaias/tripdesk-tui/internal/api"
)

// chromeHeight is the vertical budget the header, status bar, and toast
// area take away from screen bodies.
const chromeHeight = 5

// intOf coerces a resolved record value to int. Table records come from
// a JSON round-trip, so numbers arrive as float64.
func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

// formatCount renders "1 row" / "3 rows".
func formatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// isAuthFailure reports whether the error means the session is gone.
func isAuthFailure(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}

// isNetworkFailure reports whether no usable response arrived.
func isNetworkFailure(err error) bool {
	return errors.Is(err, api.ErrNetwork)
}

// friendlyError extracts the normalized message for toast display,
// falling back to the raw error text.
func friendlyError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
