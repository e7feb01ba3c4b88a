// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across tripdesk:
// UTF-8-safe string truncation, numeric formatting for table cells,
// and crash-safe atomic file writes.
//
//	display := util.TruncateRunes(longText, 50)
//	s := util.IntToStr(42)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
