// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/table"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// =============================================================================
// TABLE VIEW COMPONENT
// =============================================================================

// TableView wraps a table engine as an interactive list: cursor movement,
// live search, sortable headers, pagination, and a CSV export key. Every
// list screen (requests, approvals, booking queue, lookups) is one of
// these with different column descriptors.
type TableView struct {
	engine      *table.Engine
	theme       *styles.Theme
	width       int
	height      int
	cursor      int // row index within the visible page
	searching   bool
	searchInput textinput.Model
}

// RowActivatedMsg is emitted when the user presses enter on a row.
type RowActivatedMsg struct {
	Row   table.Record
	Index int // absolute index in the filtered collection
}

// ExportRequestedMsg is emitted when the user presses the export key.
// The parent screen decides the destination and calls Engine().ExportCSV.
type ExportRequestedMsg struct{}

// NewTableView creates a table view over an engine.
func NewTableView(engine *table.Engine, theme *styles.Theme) *TableView {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 32

	return &TableView{
		engine:      engine,
		theme:       theme,
		width:       80,
		height:      24,
		searchInput: ti,
	}
}

// Engine exposes the underlying table engine for export and row updates.
func (v *TableView) Engine() *table.Engine {
	return v.engine
}

// Searching reports whether the search input currently owns the keyboard.
func (v *TableView) Searching() bool {
	return v.searching
}

// Cursor returns the selected row index within the visible page.
func (v *TableView) Cursor() int {
	return v.cursor
}

// SelectedRow returns the record under the cursor, if any.
func (v *TableView) SelectedRow() (table.Record, bool) {
	rows, _ := v.engine.Visible()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return nil, false
	}
	return rows[v.cursor], true
}

// SetSize updates dimensions and refits the page size so one page fills
// the available height. Chrome rows: search bar, header, footer, margins.
func (v *TableView) SetSize(width, height int) {
	v.width = width
	v.height = height

	pageRows := height - 6
	if pageRows < 5 {
		pageRows = 5
	}
	_, p := v.engine.Visible()
	if p.PageSize != pageRows {
		v.engine.SetPageSize(pageRows)
		v.cursor = 0
	}
}

// Init returns the initial command (none; the search input starts blurred).
func (v *TableView) Init() tea.Cmd {
	return nil
}

// Update handles key input. The parent routes keys here only while the
// table owns the screen.
func (v *TableView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.searching {
		return v.updateSearch(keyMsg)
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}

	case "down", "j":
		rows, _ := v.engine.Visible()
		if v.cursor < len(rows)-1 {
			v.cursor++
		}

	case "left", "h", "pgup":
		_, p := v.engine.Visible()
		if p.Page > 1 {
			v.engine.SetPage(p.Page - 1)
			v.cursor = 0
		}

	case "right", "l", "pgdown":
		_, p := v.engine.Visible()
		if p.Page < p.TotalPages() {
			v.engine.SetPage(p.Page + 1)
			v.cursor = 0
		}

	case "home", "g":
		v.engine.SetPage(1)
		v.cursor = 0

	case "end", "G":
		_, p := v.engine.Visible()
		v.engine.SetPage(p.TotalPages())
		v.cursor = 0

	case "/":
		v.searching = true
		v.searchInput.SetValue(v.engine.SearchTerm())
		v.searchInput.Focus()
		return textinput.Blink

	case "esc":
		if v.engine.SearchTerm() != "" {
			v.engine.Search("")
			v.searchInput.SetValue("")
			v.cursor = 0
		}

	case "e":
		return func() tea.Msg { return ExportRequestedMsg{} }

	case "0":
		v.engine.ClearSort()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(keyMsg.String()[0]-'0') - 1
		cols := v.engine.Columns()
		if idx < len(cols) && cols[idx].Sortable {
			v.engine.Sort(cols[idx].Key)
			v.cursor = 0
		}

	case "enter":
		row, ok := v.SelectedRow()
		if !ok {
			return nil
		}
		_, p := v.engine.Visible()
		index := (p.Page-1)*p.PageSize + v.cursor
		return func() tea.Msg { return RowActivatedMsg{Row: row, Index: index} }
	}

	return nil
}

// updateSearch handles keys while the search input is focused. The filter
// applies live on every keystroke.
func (v *TableView) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.searching = false
		v.searchInput.Blur()
		v.searchInput.SetValue("")
		v.engine.Search("")
		v.cursor = 0
		return nil

	case "enter":
		v.searching = false
		v.searchInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.engine.Search(v.searchInput.Value())
	v.cursor = 0
	return cmd
}

// View renders the search bar, header, visible rows, and pagination footer.
func (v *TableView) View() string {
	var b strings.Builder

	rows, p := v.engine.Visible()
	cols := v.engine.Columns()

	// Search bar: live input while searching, a static filter line after.
	if v.searching {
		count := v.theme.SearchCount.Render(formatNumber(p.Total) + " matches")
		b.WriteString(v.theme.SearchContainer.Render(v.searchInput.View() + "  " + count))
		b.WriteString("\n")
	} else if term := v.engine.SearchTerm(); term != "" {
		line := v.theme.SearchPrompt.Render("/") +
			v.theme.SearchText.Render(term) +
			v.theme.SearchCount.Render("  "+formatNumber(p.Total)+" of "+formatNumber(v.engine.Len())+"  (esc clears)")
		b.WriteString(v.theme.SearchContainer.Render(line))
		b.WriteString("\n")
	}

	if len(rows) == 0 {
		placeholder := table.NoDataPlaceholder
		if term := v.engine.SearchTerm(); term != "" {
			placeholder += fmt.Sprintf(" (no matches for %q)", term)
		}
		b.WriteString(v.theme.TableEmpty.Render(placeholder))
		b.WriteString("\n")
		return b.String()
	}

	firstIndex := (p.Page - 1) * p.PageSize
	widths := table.ColumnWidths(cols, rows, firstIndex)

	// Widen the sorted column so its direction marker fits.
	sortState, sorted := v.engine.SortState()
	if sorted {
		for i, c := range cols {
			if c.Key == sortState.Key {
				widths[i] += 2
			}
		}
	}

	// Header row with sort markers. Number prefixes double as sort keys.
	var header []string
	for i, c := range cols {
		title := c.Title
		if sorted && c.Key == sortState.Key {
			if sortState.Descending {
				title += " v"
			} else {
				title += " ^"
			}
		}
		cell := table.PadCell(title, widths[i], c.Align)
		if sorted && c.Key == sortState.Key {
			header = append(header, v.theme.TableHeaderSorted.Render(cell))
		} else {
			header = append(header, v.theme.TableHeader.Render(cell))
		}
	}
	b.WriteString("  " + strings.Join(header, "  "))
	b.WriteString("\n")

	// Rows. The cursor row carries an ASCII marker as well as a style.
	// ACCESSIBILITY: selection must survive a monochrome terminal.
	for ri, row := range rows {
		var cells []string
		for ci, c := range cols {
			cells = append(cells, table.PadCell(table.CellText(c, row, firstIndex+ri), widths[ci], c.Align))
		}
		line := strings.Join(cells, "  ")
		if ri == v.cursor {
			b.WriteString(v.theme.TableRowSelected.Render("> " + line))
		} else {
			b.WriteString(v.theme.TableRow.Render("  " + line))
		}
		b.WriteString("\n")
	}

	// Footer: pagination plus the filtered count when a search is active.
	footer := fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages()) +
		" - " + formatNumber(p.Total) + " records"
	if v.engine.SearchTerm() != "" {
		footer += " (filtered from " + formatNumber(v.engine.Len()) + ")"
	}
	b.WriteString(v.theme.TableFooter.Render(footer))

	return b.String()
}
