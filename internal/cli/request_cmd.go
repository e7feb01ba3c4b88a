// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// request_cmd.go - Single-request commands: show, the interactive
// new-request wizard, and draft submission.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/tripdesk-tui/internal/config"
	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/storage"
)

// HandleRequest routes the request subcommands.
func HandleRequest(args Args) error {
	switch args.Subcommand {
	case "show":
		return handleRequestShow(args)
	case "new":
		return handleRequestNew(args)
	case "submit":
		return handleRequestSubmit(args)
	default:
		return ErrUnsupportedValue("subcommand", args.Subcommand,
			[]string{"show", "new", "submit"})
	}
}

// =============================================================================
// SHOW
// =============================================================================

func handleRequestShow(args Args) error {
	if args.RequestID <= 0 {
		return ErrMissingArgument("request id", "tripdesk request show 42")
	}

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

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, "request show", func() (interface{}, error) {
		req, err := gw.Request(ctx, args.RequestID)
		if err != nil {
			return nil, err
		}

		if !args.JSON {
			printRequestDetail(req)
		}
		return req, nil
	})
}

// printRequestDetail renders the full field panel for one request.
func printRequestDetail(req *model.TravelRequest) {
	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Request #%d", req.ID)))
	fmt.Println()

	if req.UserName != "" {
		fmt.Println(RenderLabel("Requester", req.UserName))
	}
	if req.DepartmentName != "" {
		fmt.Println(RenderLabel("Department", req.DepartmentName))
	}
	if req.ProjectName != "" {
		fmt.Println(RenderLabel("Project", req.ProjectName))
	}
	fmt.Println(RenderLabel("Route", req.Route()))
	fmt.Println(RenderLabel("Departure", req.DepartureDate.Format("2006-01-02")))
	fmt.Println(RenderLabel("Return", fmt.Sprintf("%s (%d days)",
		req.ReturnDate.Format("2006-01-02"), req.TripDays())))
	fmt.Println(RenderLabel("Purpose", req.Purpose))
	fmt.Println(RenderLabel("Est. Cost", fmt.Sprintf("%.2f", req.EstimatedCost)))
	fmt.Println(RenderLabel("Status", RenderRequestStatus(req.Status)))

	if req.IsDecided() {
		if req.ApproverName != "" {
			fmt.Println(RenderLabel("Decided by", req.ApproverName))
		}
		if req.DecisionNote != "" {
			fmt.Println(RenderLabel("Decision note", req.DecisionNote))
		}
	}

	if req.Booking != nil {
		fmt.Println()
		fmt.Println(TitleStyle.Render("Booking"))
		fmt.Println()
		fmt.Println(RenderLabel("Ticket", req.Booking.TicketRef))
		fmt.Println(RenderLabel("Final cost", fmt.Sprintf("%.2f", req.Booking.FinalCost)))
		if req.Booking.BookedBy != "" {
			fmt.Println(RenderLabel("Booked by", req.Booking.BookedBy))
		}
		if !req.Booking.BookedAt.IsZero() {
			fmt.Println(RenderLabel("Booked at", formatTimestamp(req.Booking.BookedAt)))
		}
	}

	fmt.Println(RenderLabel("Created", formatTimestamp(req.CreatedAt)))
	fmt.Println()
}

// =============================================================================
// WIZARD INPUT
// =============================================================================

// wizard wraps liner for the new-request form: line editing plus
// pre-filled values when resuming a draft. No history file: form field
// values are itinerary data, not commands worth replaying.
type wizard struct {
	line *liner.State
}

func newWizard() *wizard {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &wizard{line: line}
}

func (w *wizard) Close() {
	w.line.Close()
}

// ask prompts for a value, pre-filling the previous one for editing.
func (w *wizard) ask(label, initial string) (string, error) {
	var s string
	var err error
	if initial != "" {
		s, err = w.line.PromptWithSuggestion(label, initial, -1)
	} else {
		s, err = w.line.Prompt(label)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// askDate prompts for a YYYY-MM-DD date, looping on parse failures.
func (w *wizard) askDate(label string, initial time.Time) (time.Time, error) {
	init := ""
	if !initial.IsZero() {
		init = initial.Format("2006-01-02")
	}
	for {
		s, err := w.ask(label, init)
		if err != nil {
			return time.Time{}, err
		}
		if s == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			fmt.Println(WarningStyle.Render("  Enter a date as YYYY-MM-DD (e.g. 2025-03-10)."))
			init = s
			continue
		}
		return t, nil
	}
}

// askFloat prompts for a non-negative amount, looping on parse failures.
func (w *wizard) askFloat(label string, initial float64) (float64, error) {
	init := ""
	if initial != 0 {
		init = strconv.FormatFloat(initial, 'f', -1, 64)
	}
	for {
		s, err := w.ask(label, init)
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			fmt.Println(WarningStyle.Render("  Enter a non-negative amount (e.g. 815.50)."))
			init = s
			continue
		}
		return f, nil
	}
}

// askID prompts for a numeric ID, optionally validated against a set of
// known IDs from the lookup cache.
func (w *wizard) askID(label string, initial int, known map[int]bool) (int, error) {
	init := ""
	if initial != 0 {
		init = strconv.Itoa(initial)
	}
	for {
		s, err := w.ask(label, init)
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		id, err := strconv.Atoi(s)
		if err != nil || id < 0 {
			fmt.Println(WarningStyle.Render("  Enter a numeric ID from the list above."))
			init = s
			continue
		}
		if len(known) > 0 && id != 0 && !known[id] {
			fmt.Println(WarningStyle.Render("  Unknown ID, pick one from the list above."))
			init = s
			continue
		}
		return id, nil
	}
}

// =============================================================================
// NEW (WIZARD)
// =============================================================================

// wizardOutcome is what the user chose at the review step.
type wizardOutcome int

const (
	wizardSubmit wizardOutcome = iota
	wizardSaveDraft
	wizardAbort
)

func handleRequestNew(args Args) error {
	if args.JSON {
		return NewValidationError("request new", "",
			"the wizard is interactive; use --json with other commands")
	}
	if err := RequiresTTY("the request wizard", ""); err != nil {
		return err
	}

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

	ds, err := openDraftStore(cfg)
	if err != nil {
		return err
	}

	// Resume a saved draft or start fresh
	var draft *model.Draft
	resumed := false
	if args.DraftID != "" {
		draft, err = ds.Load(args.DraftID)
		if err != nil {
			if errors.Is(err, storage.ErrDraftNotFound) {
				return NewNotFoundError("draft", args.DraftID)
			}
			return err
		}
		resumed = true
	} else {
		draft = model.NewDraft()
	}

	// Reference data for department/project selection. The wizard works
	// without it (numeric entry), just less comfortably.
	deps, projects := loadWizardLookups(cfg)

	fmt.Println()
	if resumed {
		fmt.Println(TitleStyle.Render("Edit Travel Request Draft"))
		fmt.Println(DimStyle.Render("  " + draft.Summary()))
	} else {
		fmt.Println(TitleStyle.Render("New Travel Request"))
	}
	fmt.Println(DimStyle.Render("  Ctrl+C saves your progress as a local draft."))
	fmt.Println()

	w := newWizard()
	defer w.Close()

	outcome, err := runRequestWizard(w, draft, deps, projects, store.User)
	if err != nil {
		return err
	}

	switch outcome {
	case wizardSubmit:
		ctx, cancel := commandContext(cfg)
		defer cancel()

		req, err := gw.CreateRequest(ctx, draft.Input)
		if err != nil {
			// The work is not lost on a failed submit
			draft.Touch()
			if _, saveErr := ds.Save(draft); saveErr == nil {
				fmt.Println(DimStyle.Render(fmt.Sprintf(
					"Draft %s kept; retry with 'tripdesk request submit --draft %s'.",
					draft.ID, draft.ID)))
			}
			return err
		}

		if resumed {
			// Best-effort: the request exists server-side either way
			ds.Delete(draft.ID)
		}

		fmt.Println()
		fmt.Printf("%s Request #%d submitted (%s)\n",
			SuccessStyle.Render("[OK]"), req.ID, RenderRequestStatus(req.Status))
		fmt.Println()
		return nil

	case wizardSaveDraft:
		draft.Touch()
		id, err := ds.Save(draft)
		if err != nil {
			return WrapError(err, "could not save draft")
		}
		fmt.Println()
		fmt.Printf("%s Draft saved as %s\n", SuccessStyle.Render("[OK]"), id)
		fmt.Println(DimStyle.Render(fmt.Sprintf(
			"  Resume with 'tripdesk request new --draft %s'.", id)))
		fmt.Println()
		return nil

	default: // wizardAbort
		if draftHasContent(draft) {
			draft.Touch()
			if id, err := ds.Save(draft); err == nil {
				fmt.Println()
				fmt.Printf("%s Progress saved as draft %s\n",
					WarningStyle.Render("[ABORTED]"), id)
				fmt.Println(DimStyle.Render(fmt.Sprintf(
					"  Resume with 'tripdesk request new --draft %s'.", id)))
				fmt.Println()
				return nil
			}
		}
		fmt.Println()
		fmt.Println(DimStyle.Render("Cancelled."))
		fmt.Println()
		return nil
	}
}

// loadWizardLookups reads cached reference data, tolerating a missing
// or empty cache.
func loadWizardLookups(cfg *config.Config) ([]model.Department, []model.Project) {
	cache, err := openLookupCache(cfg)
	if err != nil {
		return nil, nil
	}
	defer cache.Close()

	ctx, cancel := commandContext(cfg)
	defer cancel()

	deps, _ := cache.Departments(ctx)
	projects, _ := cache.Projects(ctx)
	return deps, projects
}

// draftHasContent reports whether anything worth keeping was entered.
func draftHasContent(d *model.Draft) bool {
	in := d.Input
	return in.Origin != "" || in.Destination != "" || in.Purpose != "" ||
		!in.DepartureDate.IsZero() || !in.ReturnDate.IsZero() ||
		in.EstimatedCost != 0 || in.DepartmentID != 0 || in.ProjectID != 0
}

// runRequestWizard drives the field/validate/review loop. A prompt
// abort (Ctrl+C) or EOF at any point yields wizardAbort with no error.
func runRequestWizard(w *wizard, draft *model.Draft, deps []model.Department,
	projects []model.Project, profile func() (*model.User, error)) (wizardOutcome, error) {

	for {
		err := collectRequestFields(w, &draft.Input, deps, projects, profile)
		if err != nil {
			if err == liner.ErrPromptAborted || isEOF(err) {
				return wizardAbort, nil
			}
			return wizardAbort, err
		}

		if errs := draft.Input.Validate(); len(errs) > 0 {
			fmt.Println()
			fmt.Println(ErrorStyle.Render("The request is not complete:"))
			for _, fe := range errs {
				fmt.Printf("  - %s\n", fe.Message)
			}
			fmt.Println(DimStyle.Render("  Fix the fields above (previous values are pre-filled)."))
			fmt.Println()
			continue
		}

		printWizardReview(&draft.Input, deps, projects)

		choice, err := w.askReviewChoice()
		if err != nil {
			if err == liner.ErrPromptAborted || isEOF(err) {
				return wizardAbort, nil
			}
			return wizardAbort, err
		}

		switch choice {
		case "submit":
			return wizardSubmit, nil
		case "draft":
			return wizardSaveDraft, nil
		case "abort":
			return wizardAbort, nil
		default: // "edit"
			continue
		}
	}
}

// askReviewChoice loops until the user picks a recognized action.
func (w *wizard) askReviewChoice() (string, error) {
	for {
		choice, err := w.ask("[s]ubmit / [d]raft / [e]dit / [a]bort: ", "")
		if err != nil {
			return "", err
		}
		switch strings.ToLower(choice) {
		case "s", "submit":
			return "submit", nil
		case "d", "draft", "save":
			return "draft", nil
		case "e", "edit":
			return "edit", nil
		case "a", "abort", "q", "quit":
			return "abort", nil
		default:
			fmt.Println(WarningStyle.Render("  Answer s, d, e, or a."))
		}
	}
}

// collectRequestFields walks every form field once, pre-filling current
// values so editing a draft or fixing a validation error never retypes
// the whole form.
func collectRequestFields(w *wizard, in *model.NewRequestInput,
	deps []model.Department, projects []model.Project,
	profile func() (*model.User, error)) error {

	var err error

	if in.Origin, err = w.ask("Origin city: ", in.Origin); err != nil {
		return err
	}
	if in.Destination, err = w.ask("Destination city: ", in.Destination); err != nil {
		return err
	}
	if in.DepartureDate, err = w.askDate("Departure (YYYY-MM-DD): ", in.DepartureDate); err != nil {
		return err
	}
	if in.ReturnDate, err = w.askDate("Return (YYYY-MM-DD): ", in.ReturnDate); err != nil {
		return err
	}
	if in.Purpose, err = w.ask("Purpose: ", in.Purpose); err != nil {
		return err
	}
	if in.EstimatedCost, err = w.askFloat("Estimated cost: ", in.EstimatedCost); err != nil {
		return err
	}

	// Department: default to the requester's own department
	deptInitial := in.DepartmentID
	if deptInitial == 0 {
		if user, uerr := profile(); uerr == nil && user != nil {
			deptInitial = user.DepartmentID
		}
	}
	knownDeps := make(map[int]bool, len(deps))
	if len(deps) > 0 {
		fmt.Println(DimStyle.Render("  Departments:"))
		for _, d := range deps {
			knownDeps[d.ID] = true
			line := fmt.Sprintf("    %3d  %s", d.ID, d.Name)
			if d.CostCode != "" {
				line += "  (" + d.CostCode + ")"
			}
			fmt.Println(DimStyle.Render(line))
		}
	} else {
		fmt.Println(DimStyle.Render("  (no cached departments; run 'tripdesk sync' for names)"))
	}
	if in.DepartmentID, err = w.askID("Department ID: ", deptInitial, knownDeps); err != nil {
		return err
	}

	// Project: optional, active projects only
	knownProjects := make(map[int]bool, len(projects))
	active := 0
	for _, p := range projects {
		if p.Active {
			active++
		}
	}
	if active > 0 {
		fmt.Println(DimStyle.Render("  Projects (blank to skip):"))
		for _, p := range projects {
			if !p.Active {
				continue
			}
			knownProjects[p.ID] = true
			line := fmt.Sprintf("    %3d  %s", p.ID, p.Name)
			if p.Code != "" {
				line += "  (" + p.Code + ")"
			}
			fmt.Println(DimStyle.Render(line))
		}
	}
	if in.ProjectID, err = w.askID("Project ID (optional): ", in.ProjectID, knownProjects); err != nil {
		return err
	}

	return nil
}

// printWizardReview shows the completed form before the submit choice.
func printWizardReview(in *model.NewRequestInput, deps []model.Department, projects []model.Project) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Review"))
	fmt.Println()
	fmt.Println(RenderLabel("Route", in.Origin+" -> "+in.Destination))
	fmt.Println(RenderLabel("Departure", in.DepartureDate.Format("2006-01-02")))
	fmt.Println(RenderLabel("Return", in.ReturnDate.Format("2006-01-02")))
	fmt.Println(RenderLabel("Purpose", in.Purpose))
	fmt.Println(RenderLabel("Est. cost", fmt.Sprintf("%.2f", in.EstimatedCost)))

	dept := strconv.Itoa(in.DepartmentID)
	for _, d := range deps {
		if d.ID == in.DepartmentID {
			dept = d.Name
			break
		}
	}
	fmt.Println(RenderLabel("Department", dept))

	if in.ProjectID != 0 {
		proj := strconv.Itoa(in.ProjectID)
		for _, p := range projects {
			if p.ID == in.ProjectID {
				proj = p.Name
				break
			}
		}
		fmt.Println(RenderLabel("Project", proj))
	}
	fmt.Println()
}

// isEOF reports whether the error is an end-of-input condition (Ctrl+D).
func isEOF(err error) bool {
	return err != nil && strings.Contains(err.Error(), "EOF")
}

// =============================================================================
// SUBMIT (FROM DRAFT)
// =============================================================================

func handleRequestSubmit(args Args) error {
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

	ds, err := openDraftStore(cfg)
	if err != nil {
		return err
	}

	var draft *model.Draft
	if args.DraftID != "" {
		draft, err = ds.Load(args.DraftID)
	} else {
		// Default to the most recently touched draft
		draft, err = ds.LoadByIndex(0)
	}
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			if args.DraftID != "" {
				return NewNotFoundError("draft", args.DraftID)
			}
			return NewNotFoundError("draft", "no saved drafts")
		}
		return err
	}

	if errs := draft.Input.Validate(); len(errs) > 0 {
		if !args.JSON {
			fmt.Println()
			fmt.Println(ErrorStyle.Render(fmt.Sprintf("Draft %s is not complete:", draft.ID)))
			for _, fe := range errs {
				fmt.Printf("  - %s\n", fe.Message)
			}
			fmt.Println()
		}
		return NewValidationErrorWithExample("draft", draft.ID,
			"draft is incomplete",
			fmt.Sprintf("tripdesk request new --draft %s", draft.ID))
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, "request submit", func() (interface{}, error) {
		req, err := gw.CreateRequest(ctx, draft.Input)
		if err != nil {
			return nil, err
		}

		// Best-effort: the request exists server-side even if cleanup fails
		ds.Delete(draft.ID)

		if !args.JSON {
			fmt.Println()
			fmt.Printf("%s Request #%d submitted (%s)\n",
				SuccessStyle.Render("[OK]"), req.ID, RenderRequestStatus(req.Status))
			fmt.Println(DimStyle.Render(fmt.Sprintf("  Draft %s removed.", draft.ID)))
			fmt.Println()
		}
		return req, nil
	})
}
