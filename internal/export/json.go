// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports request collections to JSON format.
// NOTE: JSON exports always include the complete request data structure
// and do not respect formatting options. This ensures the exported JSON
// is a faithful representation of what the backend served.
type JSONExporter struct {
	// Options are accepted for consistency with other exporters.
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a request collection to pretty-printed JSON.
func (e *JSONExporter) Export(reqs []model.TravelRequest) ([]byte, error) {
	if reqs == nil {
		reqs = []model.TravelRequest{}
	}
	return json.MarshalIndent(reqs, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
