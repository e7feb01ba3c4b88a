// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sync_cmd.go - Lookup cache refresh (sync) and cache reads (lookups).
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/config"
	"github.com/jeranaias/tripdesk-tui/internal/table"
)

// =============================================================================
// SYNC
// =============================================================================

// HandleSync refreshes the local lookup cache from the backend.
// The user list is role-restricted server-side; a 403 there skips users
// but keeps the rest of the sync.
func HandleSync(args Args) error {
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

	cache, err := openLookupCache(cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, "sync", func() (interface{}, error) {
		start := time.Now()

		deps, err := gw.Departments(ctx)
		if err != nil {
			return nil, err
		}
		projects, err := gw.Projects(ctx)
		if err != nil {
			return nil, err
		}

		usersSkipped := false
		users, err := gw.Users(ctx)
		if err != nil {
			if errors.Is(err, api.ErrForbidden) {
				// Employees cannot list users; keep whatever is cached
				usersSkipped = true
			} else {
				return nil, err
			}
		}

		if err := cache.ReplaceDepartments(ctx, deps); err != nil {
			return nil, WrapError(err, "could not store departments")
		}
		if err := cache.ReplaceProjects(ctx, projects); err != nil {
			return nil, WrapError(err, "could not store projects")
		}
		if !usersSkipped {
			if err := cache.ReplaceUsers(ctx, users); err != nil {
				return nil, WrapError(err, "could not store users")
			}
		}

		counts, err := cache.Counts()
		if err != nil {
			return nil, WrapError(err, "could not read cache counts")
		}

		elapsed := time.Since(start)
		data := SyncData{
			Departments:  counts.Departments,
			Projects:     counts.Projects,
			Users:        counts.Users,
			UsersSkipped: usersSkipped,
			SyncedAt:     time.Now().UTC().Format(time.RFC3339),
			Duration:     elapsed.Round(time.Millisecond).String(),
		}

		if !args.JSON {
			fmt.Println()
			fmt.Printf("%s Synced %d departments, %d projects, %d users in %s\n",
				SuccessStyle.Render("[OK]"),
				counts.Departments, counts.Projects, counts.Users,
				elapsed.Round(time.Millisecond))
			if usersSkipped {
				fmt.Println(WarningStyle.Render(
					"  User list not permitted for your role; cached users left as-is."))
			}
			fmt.Println()
		}

		return data, nil
	})
}

// =============================================================================
// LOOKUPS
// =============================================================================

// HandleLookups reads the local lookup cache: a summary by default, or
// one entity list. Works offline; never touches the network.
func HandleLookups(args Args) error {
	cfg := configForArgs(&args)

	cache, err := openLookupCache(cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	ctx, cancel := commandContext(cfg)
	defer cancel()

	counts, err := cache.Counts()
	if err != nil {
		return WrapError(err, "could not read cache counts")
	}

	lastSynced, _ := cache.LastSynced()
	staleAfter := time.Duration(cfg.Storage.CacheStaleHours) * time.Hour
	stale := cache.Stale(staleAfter)

	data := LookupsData{
		Departments: counts.Departments,
		Projects:    counts.Projects,
		Users:       counts.Users,
		Stale:       stale,
	}
	if !lastSynced.IsZero() {
		data.LastSynced = lastSynced.UTC().Format(time.RFC3339)
	}

	sub := args.Subcommand
	command := "lookups"
	if sub != "" {
		command = "lookups " + sub
	}

	return OutputJSON(args.JSON, command, func() (interface{}, error) {
		var listing string

		switch sub {
		case "", "summary":
			if !args.JSON {
				printLookupSummary(data, lastSynced, staleAfter)
			}
			return data, nil

		case "departments", "department", "deps":
			deps, err := cache.Departments(ctx)
			if err != nil {
				return nil, WrapError(err, "could not read cached departments")
			}
			data.Items = deps
			listing, err = renderLookupTable(deps, []table.Column{
				{Key: "id", Title: "ID", Sortable: true, Align: table.AlignRight},
				{Key: "name", Title: "Name", Sortable: true},
				{Key: "costCode", Title: "Cost Code"},
				{Key: "budget", Title: "Budget", Align: table.AlignRight, Render: renderMoneyCell},
			})
			if err != nil {
				return nil, err
			}

		case "projects", "project":
			projects, err := cache.Projects(ctx)
			if err != nil {
				return nil, WrapError(err, "could not read cached projects")
			}
			data.Items = projects
			listing, err = renderLookupTable(projects, []table.Column{
				{Key: "id", Title: "ID", Sortable: true, Align: table.AlignRight},
				{Key: "name", Title: "Name", Sortable: true},
				{Key: "code", Title: "Code"},
				{Key: "active", Title: "Active"},
			})
			if err != nil {
				return nil, err
			}

		case "users", "user":
			users, err := cache.Users(ctx)
			if err != nil {
				return nil, WrapError(err, "could not read cached users")
			}
			data.Items = users
			listing, err = renderLookupTable(users, []table.Column{
				{Key: "id", Title: "ID", Sortable: true, Align: table.AlignRight},
				{Key: "firstName", Title: "First"},
				{Key: "lastName", Title: "Last", Sortable: true},
				{Key: "email", Title: "Email"},
				{Key: "role", Title: "Role"},
			})
			if err != nil {
				return nil, err
			}

		default:
			return nil, ErrUnsupportedValue("subcommand", sub,
				[]string{"departments", "projects", "users"})
		}

		if !args.JSON {
			fmt.Println()
			fmt.Print(listing)
			if stale {
				fmt.Println(WarningStyle.Render(
					"  Cache is stale; refresh with 'tripdesk sync'."))
			}
			fmt.Println()
		}

		return data, nil
	})
}

// configForArgs resolves the effective config for commands that need no
// gateway (clone + flag overrides, same as newClient without the client).
func configForArgs(args *Args) *config.Config {
	cfg := config.Global().Clone()
	if args.BaseURL != "" {
		cfg.API.BaseURL = args.BaseURL
	}
	return cfg
}

// printLookupSummary renders the cache overview.
func printLookupSummary(data LookupsData, lastSynced time.Time, staleAfter time.Duration) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Lookup Cache"))
	fmt.Println()
	fmt.Println(RenderLabel("Departments", fmt.Sprintf("%d", data.Departments)))
	fmt.Println(RenderLabel("Projects", fmt.Sprintf("%d", data.Projects)))
	fmt.Println(RenderLabel("Users", fmt.Sprintf("%d", data.Users)))

	if lastSynced.IsZero() {
		fmt.Println(RenderLabel("Last synced", DimStyle.Render("never")))
		fmt.Println()
		fmt.Println(DimStyle.Render("  Populate it with 'tripdesk sync'."))
	} else {
		fmt.Println(RenderLabel("Last synced", fmt.Sprintf("%s (%s ago)",
			formatTimestamp(lastSynced), formatDuration(time.Since(lastSynced)))))
		if data.Stale {
			fmt.Println(RenderLabel("Freshness", WarningStyle.Render(
				fmt.Sprintf("stale (older than %s)", formatDuration(staleAfter)))))
		} else {
			fmt.Println(RenderLabel("Freshness", SuccessStyle.Render("fresh")))
		}
	}
	fmt.Println()
}

// renderLookupTable renders any cached entity slice through the table
// engine (content-sized columns, shared no-data placeholder).
func renderLookupTable(items any, cols []table.Column) (string, error) {
	records, err := table.RecordsOf(items)
	if err != nil {
		return "", WrapError(err, "could not build table rows")
	}
	e := table.NewEngine(cols, records)
	// Show everything; lookup lists are small
	e.SetPageSize(len(records) + 1)
	return table.RenderText(e), nil
}
