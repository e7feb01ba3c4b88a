// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes travel-request collections to CSV, JSON, and
// Markdown files with timestamped names.
package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for travel-request exporters.
type Exporter interface {
	// Export converts a request collection to the target format.
	Export(reqs []model.TravelRequest) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".csv").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// Label names the exported set in generated filenames, e.g. the
	// active status filter. Default: "all"
	Label string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata includes a metadata header (count, export time)
	// in formats that support one.
	IncludeMetadata bool

	// DateFormat is the layout for trip dates in human-readable formats.
	// Default: "2006-01-02"
	DateFormat string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		Label:           "all",
		OpenAfterExport: false,
		IncludeMetadata: true,
		DateFormat:      "2006-01-02",
	}
}

// dateFormat returns the configured date layout, falling back to ISO.
func (o *Options) dateFormat() string {
	if o.DateFormat == "" {
		return "2006-01-02"
	}
	return o.DateFormat
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a request collection using the specified exporter,
// generating a timestamped filename in opts.OutputDir. Returns the output
// file path or an error.
func ExportToFile(reqs []model.TravelRequest, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(reqs)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	label := opts.Label
	if label == "" {
		label = "all"
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("requests_%s_%s%s",
		sanitizeFilename(label),
		timestamp,
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			fmt.Printf("Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// ExportToPath exports a request collection to an explicit path, creating
// parent directories as needed. Used by `requests --export FILE` where the
// user names the destination.
func ExportToPath(reqs []model.TravelRequest, exporter Exporter, path string) error {
	content, err := exporter.Export(reqs)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ExportCSV exports to CSV format with a generated filename.
func ExportCSV(reqs []model.TravelRequest, opts *Options) (string, error) {
	return ExportToFile(reqs, NewCSVExporter(opts), opts)
}

// ExportJSON exports to JSON format with a generated filename.
func ExportJSON(reqs []model.TravelRequest, opts *Options) (string, error) {
	return ExportToFile(reqs, NewJSONExporter(opts), opts)
}

// ExportMarkdown exports to Markdown format with a generated filename.
func ExportMarkdown(reqs []model.TravelRequest, opts *Options) (string, error) {
	return ExportToFile(reqs, NewMarkdownExporter(opts), opts)
}

// ForFormat returns the exporter registered for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	// Limit length
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	// Replace problematic characters (Windows and Unix)
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			// Replace control characters
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "requests"
	}

	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Properly quote path for Windows cmd - use quoted empty string for window title
		// and the path should be the last argument
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatMoney formats a currency amount for human-readable output.
func formatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
