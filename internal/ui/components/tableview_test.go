// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/table"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

func testTableEngine() *table.Engine {
	cols := []table.Column{
		{Key: "id", Title: "ID", Sortable: true, Align: table.AlignRight},
		{Key: "route", Title: "Route", Sortable: true},
		{Key: "status", Title: "Status"},
	}
	rows := []table.Record{
		{"id": 1, "route": "SFO -> NRT", "status": "pending"},
		{"id": 2, "route": "OAK -> LHR", "status": "approved"},
		{"id": 3, "route": "SJC -> CDG", "status": "booked"},
	}
	return table.NewEngine(cols, rows)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewTableView(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	if tv.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0", tv.Cursor())
	}
	if tv.Searching() {
		t.Error("new table view should not start in search mode")
	}
	if tv.Engine() == nil {
		t.Error("Engine() returned nil")
	}
}

func TestTableViewCursorMovement(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	tv.Update(keyRune('j'))
	tv.Update(keyRune('j'))
	if tv.Cursor() != 2 {
		t.Errorf("cursor after two downs = %d, want 2", tv.Cursor())
	}

	// Cursor stops at the last visible row.
	tv.Update(keyRune('j'))
	if tv.Cursor() != 2 {
		t.Errorf("cursor past end = %d, want 2", tv.Cursor())
	}

	tv.Update(keyRune('k'))
	if tv.Cursor() != 1 {
		t.Errorf("cursor after up = %d, want 1", tv.Cursor())
	}

	// And stops at the first row.
	tv.Update(keyRune('k'))
	tv.Update(keyRune('k'))
	if tv.Cursor() != 0 {
		t.Errorf("cursor past start = %d, want 0", tv.Cursor())
	}
}

func TestTableViewPaging(t *testing.T) {
	engine := testTableEngine()
	engine.SetPageSize(2) // 3 rows -> 2 pages
	tv := NewTableView(engine, styles.NewTheme())

	tv.Update(keyRune('l'))
	_, p := engine.Visible()
	if p.Page != 2 {
		t.Errorf("page after right = %d, want 2", p.Page)
	}
	if tv.Cursor() != 0 {
		t.Errorf("cursor after page change = %d, want 0", tv.Cursor())
	}

	// No page past the last one.
	tv.Update(keyRune('l'))
	_, p = engine.Visible()
	if p.Page != 2 {
		t.Errorf("page past end = %d, want 2", p.Page)
	}

	tv.Update(keyRune('h'))
	_, p = engine.Visible()
	if p.Page != 1 {
		t.Errorf("page after left = %d, want 1", p.Page)
	}
}

func TestTableViewSearchFlow(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	cmd := tv.Update(keyRune('/'))
	if !tv.Searching() {
		t.Fatal("'/' should enter search mode")
	}
	if cmd == nil {
		t.Error("entering search mode should return a blink command")
	}

	// Typing filters live.
	tv.Update(keyRune('b'))
	tv.Update(keyRune('o'))
	if got := tv.Engine().SearchTerm(); got != "bo" {
		t.Errorf("SearchTerm = %q, want %q", got, "bo")
	}
	rows, _ := tv.Engine().Visible()
	if len(rows) != 1 {
		t.Errorf("filtered rows = %d, want 1", len(rows))
	}

	// Enter keeps the filter and returns the keyboard.
	tv.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if tv.Searching() {
		t.Error("enter should leave search mode")
	}
	if got := tv.Engine().SearchTerm(); got != "bo" {
		t.Errorf("SearchTerm after enter = %q, want %q", got, "bo")
	}

	// Esc outside search mode clears the filter.
	tv.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := tv.Engine().SearchTerm(); got != "" {
		t.Errorf("SearchTerm after esc = %q, want empty", got)
	}
}

func TestTableViewSearchEscCancels(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	tv.Update(keyRune('/'))
	tv.Update(keyRune('p'))
	tv.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if tv.Searching() {
		t.Error("esc should leave search mode")
	}
	if got := tv.Engine().SearchTerm(); got != "" {
		t.Errorf("SearchTerm after esc = %q, want empty", got)
	}
	rows, _ := tv.Engine().Visible()
	if len(rows) != 3 {
		t.Errorf("rows after cancel = %d, want 3", len(rows))
	}
}

func TestTableViewSortKeys(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	tv.Update(keyRune('1'))
	state, ok := tv.Engine().SortState()
	if !ok {
		t.Fatal("'1' should sort the first column")
	}
	if state.Key != "id" || state.Descending {
		t.Errorf("sort state = %+v, want id ascending", state)
	}

	// Same key again flips direction.
	tv.Update(keyRune('1'))
	state, _ = tv.Engine().SortState()
	if !state.Descending {
		t.Error("second press should toggle to descending")
	}

	// Non-sortable column is ignored.
	tv.Update(keyRune('3'))
	state, _ = tv.Engine().SortState()
	if state.Key != "id" {
		t.Errorf("sort key = %q, want %q (status is not sortable)", state.Key, "id")
	}

	// Zero clears.
	tv.Update(keyRune('0'))
	if _, ok := tv.Engine().SortState(); ok {
		t.Error("'0' should clear the sort")
	}
}

func TestTableViewEnterActivatesRow(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	tv.Update(keyRune('j'))
	cmd := tv.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a row should return a command")
	}

	msg, ok := cmd().(RowActivatedMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want RowActivatedMsg", cmd())
	}
	if msg.Index != 1 {
		t.Errorf("Index = %d, want 1", msg.Index)
	}
	if route, _ := msg.Row.Resolve("route"); route != "OAK -> LHR" {
		t.Errorf("Row route = %v, want OAK -> LHR", route)
	}
}

func TestTableViewExportKey(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	cmd := tv.Update(keyRune('e'))
	if cmd == nil {
		t.Fatal("'e' should return a command")
	}
	if _, ok := cmd().(ExportRequestedMsg); !ok {
		t.Errorf("cmd returned %T, want ExportRequestedMsg", cmd())
	}
}

func TestTableViewViewRendersRows(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())
	view := tv.View()

	for _, want := range []string{"Route", "Status", "SFO -> NRT", "approved", "Page 1 of 1", "3 records"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestTableViewViewShowsSortMarker(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	tv.Update(keyRune('2'))
	if !strings.Contains(tv.View(), "Route ^") {
		t.Error("ascending sort should mark the header with ^")
	}

	tv.Update(keyRune('2'))
	if !strings.Contains(tv.View(), "Route v") {
		t.Error("descending sort should mark the header with v")
	}
}

func TestTableViewViewEmpty(t *testing.T) {
	engine := table.NewEngine([]table.Column{{Key: "id", Title: "ID"}}, nil)
	tv := NewTableView(engine, styles.NewTheme())

	if !strings.Contains(tv.View(), table.NoDataPlaceholder) {
		t.Error("empty table should render the no-data placeholder")
	}
}

func TestTableViewViewEmptyAfterFilter(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	tv.Update(keyRune('/'))
	tv.Update(keyRune('z'))
	tv.Update(keyRune('z'))

	view := tv.View()
	if !strings.Contains(view, table.NoDataPlaceholder) {
		t.Error("filtered-out table should render the no-data placeholder")
	}
	if !strings.Contains(view, "zz") {
		t.Error("placeholder should echo the unmatched term")
	}
}

func TestTableViewSetSizeRefitsPage(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	tv.SetSize(100, 26)
	_, p := tv.Engine().Visible()
	if p.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", p.PageSize)
	}

	// Tiny terminals still get a usable page.
	tv.SetSize(100, 8)
	_, p = tv.Engine().Visible()
	if p.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", p.PageSize)
	}
}

func TestTableViewSelectedRow(t *testing.T) {
	tv := NewTableView(testTableEngine(), styles.NewTheme())

	row, ok := tv.SelectedRow()
	if !ok {
		t.Fatal("SelectedRow should find the first row")
	}
	if id, _ := row.Resolve("id"); table.CoerceString(id) != "1" {
		t.Errorf("selected id = %v, want 1", id)
	}

	empty := NewTableView(table.NewEngine(nil, nil), styles.NewTheme())
	if _, ok := empty.SelectedRow(); ok {
		t.Error("SelectedRow on empty table should report false")
	}
}
