// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strconv"

// IntToString converts an int to string.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// IntToStr is a short alias for IntToString, kept because table and
// status-bar rendering call it constantly.
func IntToStr(i int) string {
	return strconv.Itoa(i)
}

// FloatToString converts a float64 to string with 2 decimal places,
// the format every money column uses.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
