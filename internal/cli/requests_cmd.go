// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// requests_cmd.go - The requests list command: role-scoped fetch, then
// search/sort/page through the same table engine the TUI uses.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/export"
	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/table"
)

// =============================================================================
// COLUMNS
// =============================================================================

// requestColumns defines the request listing table. Shared by the CLI
// renderer and CSV export so both stay in agreement about keys.
func requestColumns() []table.Column {
	return []table.Column{
		{Key: "id", Title: "ID", Sortable: true, Align: table.AlignRight},
		{Key: "userName", Title: "Requester", Sortable: true},
		{Key: "origin", Title: "From"},
		{Key: "destination", Title: "To", Sortable: true},
		{Key: "departureDate", Title: "Departure", Sortable: true, Render: renderDateCell},
		{Key: "returnDate", Title: "Return", Render: renderDateCell},
		{Key: "estimatedCost", Title: "Est. Cost", Sortable: true, Align: table.AlignRight, Render: renderMoneyCell},
		{Key: "status", Title: "Status", Sortable: true},
	}
}

// renderDateCell trims RFC3339 timestamps to the date part.
func renderDateCell(v any, _ table.Record, _ int) string {
	s := table.CoerceString(v)
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// renderMoneyCell formats cost values with two decimals.
func renderMoneyCell(v any, _ table.Record, _ int) string {
	f, ok := v.(float64)
	if !ok {
		return table.CoerceString(v)
	}
	return fmt.Sprintf("%.2f", f)
}

// sortKeyAliases maps user-facing --sort names to record keys. Raw
// record keys are accepted too so whatever a CSV header or JSON field
// shows works directly as a sort key.
var sortKeyAliases = map[string]string{
	"id":            "id",
	"requester":     "userName",
	"user":          "userName",
	"name":          "userName",
	"username":      "userName",
	"origin":        "origin",
	"from":          "origin",
	"destination":   "destination",
	"to":            "destination",
	"departure":     "departureDate",
	"date":          "departureDate",
	"departuredate": "departureDate",
	"return":        "returnDate",
	"returndate":    "returnDate",
	"cost":          "estimatedCost",
	"estimatedcost": "estimatedCost",
	"status":        "status",
}

func resolveSortKey(name string) (string, error) {
	key, ok := sortKeyAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		allowed := []string{"id", "requester", "destination", "departure", "cost", "status"}
		return "", ErrUnsupportedValue("sort key", name, allowed)
	}
	return key, nil
}

// =============================================================================
// REQUESTS COMMAND
// =============================================================================

// HandleRequests lists travel requests with search, sort, pagination,
// and optional file export.
func HandleRequests(args Args) error {
	gw, store, cfg, err := newClient(&args)
	if err != nil {
		return err
	}

	if err := requireLogin(store); err != nil {
		return err
	}
	if err := unlockAppLock(cfg, store); err != nil {
		return err
	}

	// Validate flags before any network round trip
	var statusFilter model.RequestStatus
	filtering := false
	if args.Status != "" {
		st, ok := model.ParseRequestStatus(args.Status)
		if !ok {
			allowed := make([]string, 0, len(model.AllStatuses()))
			for _, s := range model.AllStatuses() {
				allowed = append(allowed, s.String())
			}
			return ErrUnsupportedValue("status", args.Status, allowed)
		}
		statusFilter = st
		filtering = true
	}

	sortKey := ""
	if args.SortKey != "" {
		sortKey, err = resolveSortKey(args.SortKey)
		if err != nil {
			return err
		}
	}

	if args.ExportPath != "" {
		if err := ValidateOutputPath(args.ExportPath); err != nil {
			return err
		}
		if _, err := exportFormatFor(args.ExportPath); err != nil {
			return err
		}
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, "requests", func() (interface{}, error) {
		reqs, err := fetchVisibleRequests(ctx, gw, store)
		if err != nil {
			return nil, err
		}

		if filtering {
			kept := make([]model.TravelRequest, 0, len(reqs))
			for _, r := range reqs {
				if r.Status == statusFilter {
					kept = append(kept, r)
				}
			}
			reqs = kept
		}

		records, err := table.RecordsOf(reqs)
		if err != nil {
			return nil, WrapError(err, "could not build table rows")
		}

		engine := table.NewEngine(requestColumns(), records)
		if args.SearchTerm != "" {
			engine.Search(args.SearchTerm)
		}
		if sortKey != "" {
			engine.Sort(sortKey)
			if args.SortDesc {
				// Second call on the same key toggles to descending
				engine.Sort(sortKey)
			}
		}

		pageSize := args.PageSize
		if pageSize <= 0 {
			pageSize = cfg.UI.PageSize
		}
		engine.SetPageSize(pageSize)
		engine.SetPage(args.Page)

		exported := ""
		if args.ExportPath != "" {
			if err := exportFilteredRequests(engine, reqs, args.ExportPath, exportLabel(statusFilter, filtering)); err != nil {
				return nil, err
			}
			exported = args.ExportPath
		}

		visible, p := engine.Visible()

		meta := PageMeta{
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: p.TotalPages(),
			TotalRows:  p.Total,
		}
		if len(visible) > 0 {
			meta.From = (p.Page-1)*p.PageSize + 1
			meta.To = meta.From + len(visible) - 1
		}

		data := RequestListData{
			Requests:   visible,
			Pagination: meta,
			Search:     args.SearchTerm,
			SortKey:    sortKey,
			Exported:   exported,
		}
		if filtering {
			data.Filter = statusFilter.String()
		}

		if !args.JSON {
			fmt.Println()
			title := "Travel Requests"
			if filtering {
				title += " - " + statusFilter.String()
			}
			fmt.Println(TitleStyle.Render(title))
			if args.SearchTerm != "" {
				fmt.Println(DimStyle.Render(fmt.Sprintf("  search: %q", args.SearchTerm)))
			}
			fmt.Println()
			fmt.Print(table.RenderText(engine))
			if exported != "" {
				fmt.Printf("\n%s Exported %d requests to %s\n",
					SuccessStyle.Render("[OK]"), p.Total, exported)
			}
			fmt.Println()
		}

		return data, nil
	})
}

// fetchVisibleRequests applies the server's visibility rules client-side
// when picking an endpoint: admins and travel admins see everything,
// managers see their approval queue, employees see their own requests.
func fetchVisibleRequests(ctx context.Context, gw *api.Gateway, store *auth.Store) ([]model.TravelRequest, error) {
	switch store.Role() {
	case model.RoleAdministrator, model.RoleTravelAdmin:
		return gw.Requests(ctx)
	case model.RoleManager:
		return gw.RequestsByApprover(ctx, store.UserID())
	default:
		return gw.RequestsByUser(ctx, store.UserID())
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// exportFormatFor derives the export format from the destination
// extension, defaulting to CSV.
func exportFormatFor(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv", "json", "markdown", "md":
		return format, nil
	default:
		return "", ErrUnsupportedValue("export format", format,
			[]string{"csv", "json", "md"})
	}
}

func exportLabel(status model.RequestStatus, filtering bool) string {
	if filtering {
		return status.String()
	}
	return "all"
}

// exportFilteredRequests writes the engine's full post-search, post-sort
// collection (all pages) to path. Records are mapped back to the source
// requests by ID so exporters see typed structs in the engine's order.
func exportFilteredRequests(e *table.Engine, reqs []model.TravelRequest, path, label string) error {
	byID := make(map[int]model.TravelRequest, len(reqs))
	for _, r := range reqs {
		byID[r.ID] = r
	}

	rows := e.Filtered()
	out := make([]model.TravelRequest, 0, len(rows))
	for _, row := range rows {
		v, ok := row.Resolve("id")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(table.CoerceString(v))
		if err != nil {
			continue
		}
		if req, found := byID[id]; found {
			out = append(out, req)
		}
	}

	format, err := exportFormatFor(path)
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	opts.Label = label
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return err
	}

	return export.ExportToPath(out, exporter, path)
}
