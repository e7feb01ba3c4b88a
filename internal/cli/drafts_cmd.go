// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// drafts_cmd.go - Local draft management: list, show, delete, clear.
//
// Drafts never touch the network, so none of these subcommands require
// a login or an app-lock challenge.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/config"
	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/storage"
)

// HandleDrafts routes the drafts subcommands.
func HandleDrafts(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls":
		return handleDraftsList(args)
	case "show":
		return handleDraftsShow(args, parser)
	case "delete", "rm", "remove":
		return handleDraftsDelete(args, parser)
	case "clear":
		return handleDraftsClear(args, parser)
	default:
		return ErrUnsupportedValue("subcommand", parser.Subcommand(),
			[]string{"list", "show", "delete", "clear"})
	}
}

// =============================================================================
// LIST
// =============================================================================

func handleDraftsList(args Args) error {
	ds, err := openDraftStore(config.Global())
	if err != nil {
		return err
	}

	return OutputJSON(args.JSON, "drafts list", func() (interface{}, error) {
		metas, err := ds.List()
		if err != nil {
			return nil, WrapError(err, "could not list drafts")
		}

		data := DraftListData{Drafts: metas, Count: len(metas)}

		if !args.JSON {
			fmt.Println()
			fmt.Println(TitleStyle.Render("Saved Drafts"))
			fmt.Println()
			if len(metas) == 0 {
				fmt.Println(DimStyle.Render("  No saved drafts. Start one with 'tripdesk request new'."))
			}
			for i, m := range metas {
				fmt.Printf("  %2d  %s  %s\n", i, m.ID, m.Summary)
				fmt.Printf("      %s\n", DimStyle.Render(
					fmt.Sprintf("updated %s ago", formatDuration(time.Since(m.UpdatedAt)))))
			}
			fmt.Println()
		}

		return data, nil
	})
}

// =============================================================================
// SHOW
// =============================================================================

func handleDraftsShow(args Args, parser *ArgParser) error {
	ref := parser.Positional(1)
	if ref == "" {
		return ErrMissingArgument("draft", "tripdesk drafts show draft_a1b2c3d4 (or a list index)")
	}

	ds, err := openDraftStore(config.Global())
	if err != nil {
		return err
	}

	return OutputJSON(args.JSON, "drafts show", func() (interface{}, error) {
		draft, err := loadDraftByRef(ds, ref)
		if err != nil {
			return nil, err
		}

		if !args.JSON {
			printDraftDetail(draft)
		}
		return draft, nil
	})
}

// loadDraftByRef resolves a draft by ID or by list index.
func loadDraftByRef(ds *storage.DraftStore, ref string) (*model.Draft, error) {
	var draft *model.Draft
	var err error

	if idx, convErr := strconv.Atoi(ref); convErr == nil {
		draft, err = ds.LoadByIndex(idx)
	} else {
		draft, err = ds.Load(ref)
	}

	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return nil, NewNotFoundError("draft", ref)
		}
		return nil, err
	}
	return draft, nil
}

func printDraftDetail(d *model.Draft) {
	in := d.Input

	fmt.Println()
	fmt.Println(TitleStyle.Render("Draft " + d.ID))
	fmt.Println()
	fmt.Println(RenderLabel("Summary", d.Summary()))
	if in.Origin != "" || in.Destination != "" {
		fmt.Println(RenderLabel("Route", in.Origin+" -> "+in.Destination))
	}
	if !in.DepartureDate.IsZero() {
		fmt.Println(RenderLabel("Departure", in.DepartureDate.Format("2006-01-02")))
	}
	if !in.ReturnDate.IsZero() {
		fmt.Println(RenderLabel("Return", in.ReturnDate.Format("2006-01-02")))
	}
	if in.Purpose != "" {
		fmt.Println(RenderLabel("Purpose", in.Purpose))
	}
	if in.EstimatedCost != 0 {
		fmt.Println(RenderLabel("Est. cost", fmt.Sprintf("%.2f", in.EstimatedCost)))
	}
	if in.DepartmentID != 0 {
		fmt.Println(RenderLabel("Department ID", strconv.Itoa(in.DepartmentID)))
	}
	if in.ProjectID != 0 {
		fmt.Println(RenderLabel("Project ID", strconv.Itoa(in.ProjectID)))
	}
	fmt.Println(RenderLabel("Created", formatTimestamp(d.CreatedAt)))
	fmt.Println(RenderLabel("Updated", formatTimestamp(d.UpdatedAt)))

	if errs := in.Validate(); len(errs) > 0 {
		fmt.Println()
		fmt.Println(WarningStyle.Render("Not ready to submit:"))
		for _, fe := range errs {
			fmt.Printf("  - %s\n", fe.Message)
		}
		fmt.Println(DimStyle.Render(fmt.Sprintf(
			"  Finish it with 'tripdesk request new --draft %s'.", d.ID)))
	} else {
		fmt.Println()
		fmt.Println(SuccessStyle.Render("Ready to submit") + DimStyle.Render(
			fmt.Sprintf("  (tripdesk request submit --draft %s)", d.ID)))
	}
	fmt.Println()
}

// =============================================================================
// DELETE
// =============================================================================

func handleDraftsDelete(args Args, parser *ArgParser) error {
	id := parser.Positional(1)
	if id == "" {
		return ErrMissingArgument("draft id", "tripdesk drafts delete draft_a1b2c3d4 --confirm")
	}

	ds, err := openDraftStore(config.Global())
	if err != nil {
		return err
	}

	// Load first so the confirmation names what is being deleted and a
	// bad ID fails before the prompt.
	draft, err := ds.Load(id)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return NewNotFoundError("draft", id)
		}
		return err
	}

	opts := ConfirmationOptions{
		ConfirmFlag: parser.BoolFlag("confirm"),
		JSONMode:    args.JSON,
	}
	if err := RequireConfirmationWithDetails(
		fmt.Sprintf("Delete draft %s", id),
		[]string{draft.Summary()},
		opts,
	); err != nil {
		return err
	}

	return OutputJSON(args.JSON, "drafts delete", func() (interface{}, error) {
		if err := ds.Delete(id); err != nil {
			if errors.Is(err, storage.ErrDraftNotFound) {
				return nil, NewNotFoundError("draft", id)
			}
			return nil, err
		}

		if !args.JSON {
			fmt.Println()
			fmt.Printf("%s Deleted draft %s\n", SuccessStyle.Render("[OK]"), id)
			fmt.Println()
		}

		return map[string]interface{}{"deleted": id}, nil
	})
}

// =============================================================================
// CLEAR
// =============================================================================

func handleDraftsClear(args Args, parser *ArgParser) error {
	ds, err := openDraftStore(config.Global())
	if err != nil {
		return err
	}

	metas, err := ds.List()
	if err != nil {
		return WrapError(err, "could not list drafts")
	}

	if len(metas) == 0 {
		return OutputJSON(args.JSON, "drafts clear", func() (interface{}, error) {
			if !args.JSON {
				fmt.Println(DimStyle.Render("No saved drafts, nothing to do."))
			}
			return map[string]interface{}{"cleared": 0}, nil
		})
	}

	details := make([]string, 0, len(metas))
	for i, m := range metas {
		if i == 5 {
			details = append(details, fmt.Sprintf("... and %d more", len(metas)-5))
			break
		}
		details = append(details, m.Summary)
	}

	opts := ConfirmationOptions{
		ConfirmFlag: parser.BoolFlag("confirm"),
		JSONMode:    args.JSON,
	}
	if err := RequireConfirmationWithDetails(
		fmt.Sprintf("Delete all %d saved drafts", len(metas)),
		details,
		opts,
	); err != nil {
		return err
	}

	return OutputJSON(args.JSON, "drafts clear", func() (interface{}, error) {
		if err := ds.Clear(); err != nil {
			return nil, WrapError(err, "could not clear drafts")
		}

		if !args.JSON {
			fmt.Println()
			fmt.Printf("%s Deleted %d drafts\n", SuccessStyle.Render("[OK]"), len(metas))
			fmt.Println()
		}

		return map[string]interface{}{"cleared": len(metas)}, nil
	})
}
