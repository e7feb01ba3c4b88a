// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// requests.go - The requests dashboard: a role-scoped listing through
// the shared table engine, with live search, sortable columns,
// pagination, and CSV export.
package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/notify"
	"github.com/jeranaias/tripdesk-tui/internal/table"
	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// requestColumns defines the dashboard table. Keys are record property
// paths; they double as the CSV header row on export.
func requestColumns() []table.Column {
	return []table.Column{
		{Key: "id", Title: "ID", Sortable: true, Align: table.AlignRight},
		{Key: "userName", Title: "Requester", Sortable: true},
		{Key: "origin", Title: "From"},
		{Key: "destination", Title: "To", Sortable: true},
		{Key: "departureDate", Title: "Departure", Sortable: true, Render: dateCell},
		{Key: "estimatedCost", Title: "Est. Cost", Sortable: true, Align: table.AlignRight, Render: moneyCell},
		{Key: "status", Title: "Status", Sortable: true},
	}
}

// dateCell trims RFC3339 timestamps to the date part.
func dateCell(v any, _ table.Record, _ int) string {
	s := table.CoerceString(v)
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// moneyCell formats cost values with two decimals.
func moneyCell(v any, _ table.Record, _ int) string {
	f, ok := v.(float64)
	if !ok {
		return table.CoerceString(v)
	}
	return fmt.Sprintf("%.2f", f)
}

// requestsModel is the dashboard screen.
type requestsModel struct {
	theme *styles.Theme
	deps  Deps

	list    *components.TableView
	loading bool
	spinner components.Spinner

	// requests mirrors the engine rows so row activation can hand the
	// detail screen a typed request instead of a raw record.
	requests []model.TravelRequest

	width  int
	height int
}

func newRequestsModel(theme *styles.Theme, deps Deps) requestsModel {
	engine := table.NewEngine(requestColumns(), nil)
	if deps.Config.UI.PageSize > 0 {
		engine.SetPageSize(deps.Config.UI.PageSize)
	}
	return requestsModel{
		theme:   theme,
		deps:    deps,
		list:    components.NewTableView(engine, theme),
		spinner: components.NewFetchSpinner(),
	}
}

// fetcher returns the role-scoped listing call: employees see their own
// requests, managers their approval queue, travel admins and
// administrators the full listing. The notifier polls with the same
// fetcher so toasts and table rows agree.
func (m *requestsModel) fetcher() notify.Fetcher {
	gw, store := m.deps.Gateway, m.deps.Store
	return func(ctx context.Context) ([]model.TravelRequest, error) {
		switch store.Role() {
		case model.RoleManager:
			return gw.RequestsByApprover(ctx, store.UserID())
		case model.RoleTravelAdmin, model.RoleAdministrator:
			return gw.Requests(ctx)
		default:
			return gw.RequestsByUser(ctx, store.UserID())
		}
	}
}

// fetchCmd starts a listing fetch and the loading spinner.
func (m *requestsModel) fetchCmd() tea.Cmd {
	m.loading = true
	m.spinner.SetMessage("Loading requests...")
	return tea.Batch(m.spinner.Start(), fetchRequestsCmd(m.fetcher()))
}

// setRequests replaces the engine rows, preserving the active search,
// sort, and page so a background refresh does not yank the view around.
func (m *requestsModel) setRequests(reqs []model.TravelRequest) {
	m.loading = false
	m.spinner.Stop()
	m.requests = reqs

	records, err := table.RecordsOf(reqs)
	if err != nil {
		records = nil
	}
	m.list.Engine().SetRows(records)
}

// requestByID finds the typed request behind an activated row.
func (m *requestsModel) requestByID(id int) (*model.TravelRequest, bool) {
	for i := range m.requests {
		if m.requests[i].ID == id {
			return &m.requests[i], true
		}
	}
	return nil, false
}

func (m *requestsModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-chromeHeight)
}

// searching reports whether the table's search input owns the keyboard,
// so root-level shortcuts stay out of the way while the user types.
func (m *requestsModel) searching() bool {
	return m.list.Searching()
}

func (m *requestsModel) update(msg tea.Msg) tea.Cmd {
	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			return cmd
		}
	}
	return m.list.Update(msg)
}

func (m *requestsModel) view() string {
	if m.loading && len(m.requests) == 0 {
		return m.spinner.View()
	}
	body := m.list.View()
	if m.loading {
		body += "\n" + m.spinner.View()
	}
	return body
}
