// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"strings"
	"testing"
)

// =============================================================================
// TEXT RENDER TESTS
// =============================================================================

func TestRenderText_NoDataPlaceholder(t *testing.T) {
	e := NewEngine(testColumns(), nil)

	out := RenderText(e)
	if !strings.Contains(out, NoDataPlaceholder) {
		t.Errorf("empty collection should render the placeholder, got %q", out)
	}
}

func TestRenderText_NoMatchesMentionsTerm(t *testing.T) {
	e := NewEngine(testColumns(), testRows())
	e.Search("zzz-not-there")

	out := RenderText(e)
	if !strings.Contains(out, NoDataPlaceholder) || !strings.Contains(out, "zzz-not-there") {
		t.Errorf("filtered-empty render should name the term, got %q", out)
	}
}

func TestRenderText_HeaderUsesTitles(t *testing.T) {
	e := NewEngine(testColumns(), testRows())

	out := RenderText(e)
	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.Contains(first, "Destination") {
		t.Errorf("header should use display titles, got %q", first)
	}
	if strings.Contains(first, "destination") {
		t.Errorf("header should not expose raw keys, got %q", first)
	}
}

func TestRenderText_UsesRenderFunc(t *testing.T) {
	cols := []Column{{
		Key:   "status",
		Title: "Status",
		Render: func(v any, _ Record, _ int) string {
			return "[" + CoerceString(v) + "]"
		},
	}}
	e := NewEngine(cols, []Record{{"status": "pending"}})

	out := RenderText(e)
	if !strings.Contains(out, "[pending]") {
		t.Errorf("render function should shape cells, got %q", out)
	}
}

func TestRenderText_MalformedKeyRendersEmptyCell(t *testing.T) {
	cols := []Column{
		{Key: "id", Title: "ID"},
		{Key: "ghost.path", Title: "Ghost"},
	}
	e := NewEngine(cols, []Record{{"id": 1}})

	// Must not panic; the ghost column renders empty.
	out := RenderText(e)
	if !strings.Contains(out, "1") {
		t.Errorf("valid cells should still render, got %q", out)
	}
}

func TestRenderText_FooterShowsPages(t *testing.T) {
	rows := make([]Record, 12)
	for i := range rows {
		rows[i] = Record{"id": i}
	}
	e := NewEngine([]Column{{Key: "id", Title: "ID"}}, rows)
	e.SetPageSize(5)

	out := RenderText(e)
	if !strings.Contains(out, "Page 1 of 3 (12 records)") {
		t.Errorf("footer missing page info, got %q", out)
	}
}

func TestPadCell_Alignment(t *testing.T) {
	if got := PadCell("ab", 5, AlignLeft); got != "ab   " {
		t.Errorf("left pad = %q", got)
	}
	if got := PadCell("ab", 5, AlignRight); got != "   ab" {
		t.Errorf("right pad = %q", got)
	}
	if got := PadCell("ab", 6, AlignCenter); got != "  ab  " {
		t.Errorf("center pad = %q", got)
	}
}

func TestFoldForSearch(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Malmö", "malmo"},
		{"BERLIN", "berlin"},
		{"café", "cafe"},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := foldForSearch(tc.in); got != tc.want {
			t.Errorf("foldForSearch(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
