// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// PLAIN-TEXT RENDERING
// =============================================================================

// NoDataPlaceholder is rendered instead of an empty table when the
// collection (or the current filter result) has no rows.
const NoDataPlaceholder = "No records to display."

// maxAutoColumnWidth caps content-sized columns so one long value cannot
// blow out the layout.
const maxAutoColumnWidth = 40

// RenderText renders the engine's current page as an aligned plain-text
// table for non-TUI output: header titles, a separator, one line per row,
// and a page footer. Cells honor column Render functions; header and
// widths are display-only concerns and leave engine state untouched.
func RenderText(e *Engine) string {
	rows, p := e.Visible()
	if len(rows) == 0 {
		if e.SearchTerm() != "" {
			return NoDataPlaceholder + fmt.Sprintf(" (no matches for %q)\n", e.SearchTerm())
		}
		return NoDataPlaceholder + "\n"
	}

	cols := e.Columns()
	widths := ColumnWidths(cols, rows, (p.Page-1)*p.PageSize)

	var b strings.Builder

	// Header
	for i, c := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(PadCell(c.Title, widths[i], c.Align))
	}
	b.WriteString("\n")

	// Separator
	for i := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
	}
	b.WriteString("\n")

	// Rows
	for ri, row := range rows {
		index := (p.Page-1)*p.PageSize + ri
		for ci, c := range cols {
			if ci > 0 {
				b.WriteString("  ")
			}
			b.WriteString(PadCell(CellText(c, row, index), widths[ci], c.Align))
		}
		b.WriteString("\n")
	}

	// Footer
	pages := p.TotalPages()
	if pages > 1 {
		b.WriteString(fmt.Sprintf("\nPage %d of %d (%d records)\n", p.Page, pages, p.Total))
	} else {
		b.WriteString(fmt.Sprintf("\n%d records\n", p.Total))
	}

	return b.String()
}

// CellText produces the display text for one cell: the column's Render
// function when present, otherwise the coerced raw value. A key that does
// not resolve on this row degrades to an empty cell.
func CellText(c Column, row Record, index int) string {
	v, ok := row.Resolve(c.Key)
	if !ok {
		v = nil
	}
	if c.Render != nil {
		return c.Render(v, row, index)
	}
	if v == nil {
		return ""
	}
	return CoerceString(v)
}

// ColumnWidths computes display widths: a column's fixed Width wins;
// otherwise the widest of title and visible cell contents, capped.
func ColumnWidths(cols []Column, rows []Record, firstIndex int) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			continue
		}
		w := runewidth.StringWidth(c.Title)
		for ri, row := range rows {
			cw := runewidth.StringWidth(CellText(c, row, firstIndex+ri))
			if cw > w {
				w = cw
			}
		}
		if w > maxAutoColumnWidth {
			w = maxAutoColumnWidth
		}
		widths[i] = w
	}
	return widths
}

// PadCell truncates and pads s to exactly width display columns.
func PadCell(s string, width int, align Align) string {
	s = runewidth.Truncate(s, width, "...")
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
