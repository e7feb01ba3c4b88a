// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports request collections to Markdown format: a
// summary table followed by a section per request.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a request collection to Markdown.
func (e *MarkdownExporter) Export(reqs []model.TravelRequest) ([]byte, error) {
	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString("title: Travel Requests\n")
		sb.WriteString(fmt.Sprintf("requests: %d\n", len(reqs)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: tripdesk\n")
		sb.WriteString("---\n\n")
	}

	// Title
	sb.WriteString("# Travel Requests\n\n")

	if len(reqs) == 0 {
		sb.WriteString("No requests to export.\n")
		return []byte(sb.String()), nil
	}

	// Summary table
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| ID | Traveler | Route | Departure | Status | Est. Cost |\n")
	sb.WriteString("|----|----------|-------|-----------|--------|-----------|\n")
	for _, r := range reqs {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			r.ID,
			escapeTableCell(r.UserName),
			escapeTableCell(r.Route()),
			r.DepartureDate.Format(e.options.dateFormat()),
			r.Status.String(),
			formatMoney(r.EstimatedCost),
		))
	}
	sb.WriteString("\n")

	// Per-request detail sections
	sb.WriteString("## Requests\n\n")
	for i, r := range reqs {
		e.writeRequest(&sb, &r)
		if i < len(reqs)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from tripdesk on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// writeRequest renders one request's detail section.
func (e *MarkdownExporter) writeRequest(sb *strings.Builder, r *model.TravelRequest) {
	layout := e.options.dateFormat()

	sb.WriteString(fmt.Sprintf("### #%d %s\n\n", r.ID, escapeMarkdown(r.Route())))

	sb.WriteString(fmt.Sprintf("- **Status**: %s\n", r.Status.String()))
	if r.UserName != "" {
		sb.WriteString(fmt.Sprintf("- **Traveler**: %s\n", r.UserName))
	}
	if r.DepartmentName != "" {
		sb.WriteString(fmt.Sprintf("- **Department**: %s\n", r.DepartmentName))
	}
	if r.ProjectName != "" {
		sb.WriteString(fmt.Sprintf("- **Project**: %s\n", r.ProjectName))
	}
	sb.WriteString(fmt.Sprintf("- **Dates**: %s to %s (%d days)\n",
		r.DepartureDate.Format(layout), r.ReturnDate.Format(layout), r.TripDays()))
	sb.WriteString(fmt.Sprintf("- **Estimated Cost**: %s\n", formatMoney(r.EstimatedCost)))
	if r.Purpose != "" {
		sb.WriteString(fmt.Sprintf("- **Purpose**: %s\n", r.Purpose))
	}
	sb.WriteString(fmt.Sprintf("- **Created**: %s\n", formatTimestamp(r.CreatedAt)))

	// Decision details once a manager has acted
	if r.IsDecided() && r.ApproverName != "" {
		sb.WriteString(fmt.Sprintf("- **Decided By**: %s\n", r.ApproverName))
	}
	if r.DecisionNote != "" {
		sb.WriteString(fmt.Sprintf("- **Decision Note**: %s\n", r.DecisionNote))
	}

	// Booking details
	if r.Booking != nil {
		sb.WriteString("\n**Booking**\n\n")
		sb.WriteString(fmt.Sprintf("- **Ticket**: `%s`\n", r.Booking.TicketRef))
		sb.WriteString(fmt.Sprintf("- **Final Cost**: %s\n", formatMoney(r.Booking.FinalCost)))
		if r.Booking.BookedBy != "" {
			sb.WriteString(fmt.Sprintf("- **Booked By**: %s\n", r.Booking.BookedBy))
		}
		sb.WriteString(fmt.Sprintf("- **Booked At**: %s\n", formatTimestamp(r.Booking.BookedAt)))
	}

	sb.WriteString("\n")
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeTableCell keeps user text from breaking table rows.
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
