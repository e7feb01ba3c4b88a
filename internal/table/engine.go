// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package table implements the generic data table engine behind every
// tripdesk list screen: in-memory search, single-key sorting, pagination,
// and CSV export over arbitrary records, driven entirely by column
// descriptors. The engine never mutates its source collection.
package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// RECORDS
// =============================================================================

// Record is one row: an opaque mapping from string keys to primitive or
// nested values. The engine assumes no schema beyond what column
// descriptors reference.
type Record map[string]any

// Resolve looks up a dotted property path ("requester.name") on the record.
// The second return is false when any path segment is missing or a
// non-record value is traversed; callers render such cells empty.
func (r Record) Resolve(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			if rec, isRec := cur.(Record); isRec {
				m = map[string]any(rec)
			} else {
				return nil, false
			}
		}
		v, present := m[seg]
		if !present {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// RecordsOf converts a slice of structs (or anything JSON-encodable) into
// records via a JSON round trip, so struct tags decide the keys.
func RecordsOf(v any) ([]Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	var rows []Record
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

// =============================================================================
// COLUMN DESCRIPTORS
// =============================================================================

// Align controls horizontal cell alignment in rendered output.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// RenderFunc maps a raw cell value, its row, and the row index to display
// text. It affects display only; search, sort, and CSV export always use
// the raw value.
type RenderFunc func(value any, row Record, index int) string

// Column describes one table column. Key must be a property path resolvable
// on every row; two descriptors sharing a Key are last-wins. A Key that
// resolves on no row degrades to empty cells, never an error.
type Column struct {
	Key      string
	Title    string
	Width    int // 0 = size to content
	Sortable bool
	Align    Align
	Render   RenderFunc
}

// =============================================================================
// SORT AND PAGE STATE
// =============================================================================

// SortState is the single active sort: a column key and a direction.
type SortState struct {
	Key        string
	Descending bool
}

// Pagination describes the visible slice. Page is 1-based. Total is the
// client-computed count of rows after the current search filter, applied
// uniformly across all screens.
type Pagination struct {
	Page     int
	PageSize int
	Total    int
}

// TotalPages returns the page count implied by Total and PageSize.
func (p Pagination) TotalPages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	pages := p.Total / p.PageSize
	if p.Total%p.PageSize != 0 {
		pages++
	}
	return pages
}

// DefaultPageSize is used when a caller provides no page size.
const DefaultPageSize = 25

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes the currently visible subset of a row collection:
// search, then sort, then paginate. The source slice is treated as an
// immutable snapshot; sorting copies.
type Engine struct {
	columns []Column
	source  []Record

	term     string
	sortable map[string]bool
	sortKey  string
	sortDesc bool
	sorted   bool

	page     int
	pageSize int
}

// NewEngine creates an engine over the given columns and rows.
// Initial state: no search, no sort (insertion order), page 1.
func NewEngine(columns []Column, rows []Record) *Engine {
	e := &Engine{
		columns:  columns,
		source:   rows,
		page:     1,
		pageSize: DefaultPageSize,
	}
	e.sortable = make(map[string]bool, len(columns))
	for _, c := range columns {
		e.sortable[c.Key] = c.Sortable
	}
	return e
}

// Columns returns the column descriptors.
func (e *Engine) Columns() []Column {
	return e.columns
}

// SetRows replaces the source collection (a server refresh). Search and
// sort state persist; the page resets to 1 because row positions moved.
func (e *Engine) SetRows(rows []Record) {
	e.source = rows
	e.page = 1
}

// Len returns the unfiltered source count.
func (e *Engine) Len() int {
	return len(e.source)
}

// =============================================================================
// SEARCH
// =============================================================================

// Search sets the active search term: a case- and accent-insensitive
// substring match across the string representation of every property of
// each row, including nested values and properties no column displays.
// An empty term is the identity filter. A changed term resets to page 1.
func (e *Engine) Search(term string) {
	if term == e.term {
		return
	}
	e.term = term
	e.page = 1
}

// SearchTerm returns the active search term.
func (e *Engine) SearchTerm() string {
	return e.term
}

// filtered applies the current search term to the source. With an empty
// term the source slice itself is returned, same backing array and order.
func (e *Engine) filtered() []Record {
	if e.term == "" {
		return e.source
	}
	needle := foldForSearch(e.term)
	out := make([]Record, 0, len(e.source))
	for _, row := range e.source {
		if recordMatches(row, needle) {
			out = append(out, row)
		}
	}
	return out
}

// recordMatches walks every value of the row, nested maps and slices
// included, and reports whether any folded string form contains needle.
func recordMatches(row Record, needle string) bool {
	return valueMatches(map[string]any(row), needle)
}

func valueMatches(v any, needle string) bool {
	switch val := v.(type) {
	case map[string]any:
		for _, nested := range val {
			if valueMatches(nested, needle) {
				return true
			}
		}
		return false
	case Record:
		return valueMatches(map[string]any(val), needle)
	case []any:
		for _, item := range val {
			if valueMatches(item, needle) {
				return true
			}
		}
		return false
	case nil:
		return false
	default:
		return strings.Contains(foldForSearch(CoerceString(v)), needle)
	}
}

// =============================================================================
// SORT
// =============================================================================

// Sort applies or toggles the sort on columnKey. The same key toggles
// ascending to descending and back; a different key resets to ascending.
// Keys whose descriptor is not sortable (or that no descriptor declares)
// are a strict no-op. Ordering compares lowercase string coercions; nil
// and missing values order after every defined value in both directions.
func (e *Engine) Sort(columnKey string) {
	if !e.sortable[columnKey] {
		return
	}
	if e.sorted && e.sortKey == columnKey {
		e.sortDesc = !e.sortDesc
		return
	}
	e.sortKey = columnKey
	e.sortDesc = false
	e.sorted = true
}

// ClearSort restores insertion order.
func (e *Engine) ClearSort() {
	e.sorted = false
	e.sortKey = ""
	e.sortDesc = false
}

// SortState returns the active sort, if any.
func (e *Engine) SortState() (SortState, bool) {
	if !e.sorted {
		return SortState{}, false
	}
	return SortState{Key: e.sortKey, Descending: e.sortDesc}, true
}

// applySort returns rows ordered by the active sort. The input slice is
// never reordered in place; a sorted copy is returned.
func (e *Engine) applySort(rows []Record) []Record {
	if !e.sorted {
		return rows
	}
	out := make([]Record, len(rows))
	copy(out, rows)

	key := e.sortKey
	desc := e.sortDesc
	sort.SliceStable(out, func(i, j int) bool {
		vi, iok := out[i].Resolve(key)
		vj, jok := out[j].Resolve(key)
		iMissing := !iok || vi == nil
		jMissing := !jok || vj == nil

		// Missing values sink to the end regardless of direction.
		if iMissing || jMissing {
			return !iMissing && jMissing
		}

		si := strings.ToLower(CoerceString(vi))
		sj := strings.ToLower(CoerceString(vj))
		if desc {
			return si > sj
		}
		return si < sj
	})
	return out
}

// =============================================================================
// PAGINATION
// =============================================================================

// Filtered returns the full post-search, post-sort collection, all pages.
func (e *Engine) Filtered() []Record {
	return e.applySort(e.filtered())
}

// Paginate slices the post-search, post-sort collection for the given
// 1-based page. The engine does not clamp the page number: out-of-range
// pages yield an empty slice and range validity stays with the caller.
func (e *Engine) Paginate(page, pageSize int) []Record {
	rows := e.Filtered()
	if page < 1 || pageSize <= 0 {
		return []Record{}
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []Record{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// SetPage moves the engine's own page cursor.
func (e *Engine) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	e.page = page
}

// SetPageSize changes the page size and resets to page 1.
func (e *Engine) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	e.pageSize = size
	e.page = 1
}

// Visible returns the engine's current page and the pagination that
// produced it. Total is the post-search count.
func (e *Engine) Visible() ([]Record, Pagination) {
	rows := e.Filtered()
	p := Pagination{Page: e.page, PageSize: e.pageSize, Total: len(rows)}
	start := (e.page - 1) * e.pageSize
	if start >= len(rows) || start < 0 {
		return []Record{}, p
	}
	end := start + e.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], p
}

// =============================================================================
// CSV EXPORT
// =============================================================================

// ExportCSV writes the current post-search, post-sort collection (all
// pages, not just the visible one) as UTF-8 CSV. The header row uses raw
// column keys rather than display titles: the keys are the stable
// machine-readable contract and do not churn when titles are reworded.
// Cell values are string coercions of the raw value; Render transforms
// are bypassed.
func (e *Engine) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(e.columns))
	for i, c := range e.columns {
		header[i] = c.Key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range e.Filtered() {
		cells := make([]string, len(e.columns))
		for i, c := range e.columns {
			v, ok := row.Resolve(c.Key)
			if !ok || v == nil {
				cells[i] = ""
				continue
			}
			cells[i] = CoerceString(v)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// =============================================================================
// VALUE COERCION
// =============================================================================

// CoerceString converts a raw cell value to its canonical string form.
// JSON decoding yields float64 for all numbers, so integral floats print
// without a trailing ".0".
func CoerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return CoerceString(float64(val))
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
