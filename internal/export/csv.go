// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"

	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/table"
)

// =============================================================================
// CSV EXPORTER
// =============================================================================

// csvColumns is the stable column set for request CSV exports. Header
// cells are the raw keys below; display titles never appear in CSV, so
// downstream spreadsheets and scripts survive UI wording changes.
var csvColumns = []table.Column{
	{Key: "id"},
	{Key: "userName"},
	{Key: "departmentName"},
	{Key: "projectName"},
	{Key: "origin"},
	{Key: "destination"},
	{Key: "departureDate"},
	{Key: "returnDate"},
	{Key: "purpose"},
	{Key: "estimatedCost"},
	{Key: "status"},
	{Key: "approverName"},
	{Key: "decisionNote"},
	{Key: "booking.ticketRef"},
	{Key: "booking.finalCost"},
}

// CSVExporter exports request collections through the table engine, so
// CSV output always matches what a dashboard export produces.
type CSVExporter struct {
	options *Options
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(opts *Options) *CSVExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &CSVExporter{options: opts}
}

// Export converts a request collection to CSV.
func (e *CSVExporter) Export(reqs []model.TravelRequest) ([]byte, error) {
	rows, err := table.RecordsOf(reqs)
	if err != nil {
		return nil, fmt.Errorf("convert requests: %w", err)
	}

	engine := table.NewEngine(csvColumns, rows)

	var buf bytes.Buffer
	if err := engine.ExportCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for CSV.
func (e *CSVExporter) FileExtension() string {
	return ".csv"
}

// MimeType returns the MIME type for CSV.
func (e *CSVExporter) MimeType() string {
	return "text/csv"
}
