// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes travel-request collections to files.
//
// This package supports exporting the filtered request set from the
// dashboard or the `requests` command to machine- and human-readable
// formats, with optional opening in external applications.
//
// # Key Types
//
//   - Exporter: Main export interface
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - CSV: Raw-key headers through the table engine's export contract
//   - JSON: Machine-readable, the complete backend representation
//   - Markdown: Summary table plus a section per request
//
// # Usage
//
// Export with a generated timestamped filename:
//
//	path, err := export.ExportCSV(requests, export.DefaultOptions())
//
// Export to a file the user named:
//
//	exporter := export.NewCSVExporter(nil)
//	err := export.ExportToPath(requests, exporter, "trips.csv")
package export
