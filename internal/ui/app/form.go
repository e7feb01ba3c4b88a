// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// form.go - The new-request form. Validation failures render inline per
// field and never reach the network; abandoning the form saves a local
// draft so half-typed itineraries survive.
package app

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// Form field indexes, in visual order.
const (
	fieldOrigin = iota
	fieldDestination
	fieldDeparture
	fieldReturn
	fieldPurpose
	fieldCost
	fieldDepartment
	fieldProject
	fieldCount
)

// formModel is the new-request form screen.
type formModel struct {
	theme *styles.Theme
	deps  Deps

	fields [fieldCount]*components.FormField
	focus  int

	// draftID is set when the form was seeded from a saved draft, so
	// submitting can delete it.
	draftID string

	submitting bool
	spinner    components.ActionSpinner

	width  int
	height int
}

func newFormModel(theme *styles.Theme, deps Deps) formModel {
	m := formModel{
		theme:   theme,
		deps:    deps,
		spinner: components.NewActionSpinner("Submitting request"),
	}

	origin := components.NewFormField(theme, "From")
	origin.SetRequired(true)
	origin.SetPlaceholder("Amsterdam")

	dest := components.NewFormField(theme, "To")
	dest.SetRequired(true)
	dest.SetPlaceholder("Lisbon")

	departure := components.NewDateField(theme, "Departure date")
	departure.SetRequired(true)

	ret := components.NewDateField(theme, "Return date")
	ret.SetRequired(true)

	purpose := components.NewFormField(theme, "Purpose")
	purpose.SetRequired(true)
	purpose.SetMaxChars(240)
	purpose.SetHint("Why this trip is needed")

	cost := components.NewAmountField(theme, "Estimated cost")
	cost.SetRequired(true)

	department := components.NewFormField(theme, "Department ID")
	department.SetHint("Blank uses your own department")

	project := components.NewFormField(theme, "Project ID")
	project.SetHint("Optional")

	m.fields = [fieldCount]*components.FormField{
		origin, dest, departure, ret, purpose, cost, department, project,
	}
	return m
}

// reset clears the form for a fresh request.
func (m *formModel) reset() {
	for _, f := range m.fields {
		f.Reset()
		f.Blur()
	}
	m.focus = 0
	m.draftID = ""
	m.submitting = false
}

// seed fills the form from a saved draft.
func (m *formModel) seed(d *model.Draft) {
	m.reset()
	m.draftID = d.ID
	in := d.Input
	m.fields[fieldOrigin].SetValue(in.Origin)
	m.fields[fieldDestination].SetValue(in.Destination)
	if !in.DepartureDate.IsZero() {
		m.fields[fieldDeparture].SetValue(in.DepartureDate.Format("2006-01-02"))
	}
	if !in.ReturnDate.IsZero() {
		m.fields[fieldReturn].SetValue(in.ReturnDate.Format("2006-01-02"))
	}
	m.fields[fieldPurpose].SetValue(in.Purpose)
	if in.EstimatedCost > 0 {
		m.fields[fieldCost].SetValue(strconv.FormatFloat(in.EstimatedCost, 'f', 2, 64))
	}
	if in.DepartmentID > 0 {
		m.fields[fieldDepartment].SetValue(strconv.Itoa(in.DepartmentID))
	}
	if in.ProjectID > 0 {
		m.fields[fieldProject].SetValue(strconv.Itoa(in.ProjectID))
	}
}

func (m *formModel) setSize(width, height int) {
	m.width = width
	m.height = height
	fieldWidth := min(48, width-8)
	for _, f := range m.fields {
		f.SetWidth(fieldWidth)
	}
}

func (m *formModel) focusCmd() tea.Cmd {
	return m.fields[m.focus].Focus()
}

// hasContent reports whether anything worth drafting was typed.
func (m *formModel) hasContent() bool {
	for _, f := range m.fields {
		if strings.TrimSpace(f.Value()) != "" {
			return true
		}
	}
	return false
}

// input assembles a NewRequestInput from the current field values.
// Parse failures surface inline on the offending field.
func (m *formModel) input() (model.NewRequestInput, bool) {
	var in model.NewRequestInput
	ok := true

	in.Origin = strings.TrimSpace(m.fields[fieldOrigin].Value())
	in.Destination = strings.TrimSpace(m.fields[fieldDestination].Value())
	in.Purpose = strings.TrimSpace(m.fields[fieldPurpose].Value())

	parseDate := func(idx int) time.Time {
		s := strings.TrimSpace(m.fields[idx].Value())
		if s == "" {
			return time.Time{}
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			m.fields[idx].SetError("use YYYY-MM-DD")
			ok = false
			return time.Time{}
		}
		return t
	}
	in.DepartureDate = parseDate(fieldDeparture)
	in.ReturnDate = parseDate(fieldReturn)

	if s := strings.TrimSpace(m.fields[fieldCost].Value()); s != "" {
		cost, err := strconv.ParseFloat(s, 64)
		if err != nil {
			m.fields[fieldCost].SetError("enter a number")
			ok = false
		} else {
			in.EstimatedCost = cost
		}
	}

	parseID := func(idx int) int {
		s := strings.TrimSpace(m.fields[idx].Value())
		if s == "" {
			return 0
		}
		id, err := strconv.Atoi(s)
		if err != nil || id < 0 {
			m.fields[idx].SetError("enter a numeric ID")
			ok = false
			return 0
		}
		return id
	}
	in.DepartmentID = parseID(fieldDepartment)
	in.ProjectID = parseID(fieldProject)

	return in, ok
}

// saveDraft persists the current fields, pre-validation on purpose: a
// draft exists to hold incomplete work.
func (m *formModel) saveDraft() (string, error) {
	in, _ := m.input()
	d := model.NewDraft()
	if m.draftID != "" {
		d.ID = m.draftID
	}
	d.Input = in
	d.Touch()
	return m.deps.Drafts.Save(d)
}

// submit validates and fires the create call.
func (m *formModel) submit() tea.Cmd {
	in, parsed := m.input()
	if !parsed {
		return nil
	}

	errs := in.Validate()
	if len(errs) > 0 {
		for _, fe := range errs {
			if idx, known := fieldForName(fe.Field); known {
				m.fields[idx].SetError(fe.Message)
			}
		}
		return nil
	}

	m.submitting = true
	return tea.Batch(m.spinner.Start(), createRequestCmd(m.deps.Gateway, in))
}

// fieldForName maps validation field names onto form indexes.
func fieldForName(name string) (int, bool) {
	switch name {
	case "origin":
		return fieldOrigin, true
	case "destination":
		return fieldDestination, true
	case "departureDate":
		return fieldDeparture, true
	case "returnDate":
		return fieldReturn, true
	case "purpose":
		return fieldPurpose, true
	case "estimatedCost":
		return fieldCost, true
	case "departmentId":
		return fieldDepartment, true
	case "projectId":
		return fieldProject, true
	default:
		return 0, false
	}
}

// submitted absorbs a resolved create call: drop the backing draft.
func (m *formModel) submitted() {
	m.submitting = false
	m.spinner.Stop()
	if m.draftID != "" {
		_ = m.deps.Drafts.Delete(m.draftID)
		m.draftID = ""
	}
}

func (m *formModel) update(msg tea.Msg) tea.Cmd {
	if m.submitting {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "ctrl+d":
		return m.submit()
	case "enter":
		if m.focus == fieldCount-1 {
			return m.submit()
		}
		return m.moveFocus(1)
	}

	return m.fields[m.focus].Update(keyMsg)
}

func (m *formModel) moveFocus(delta int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m.fields[m.focus].Focus()
}

func (m *formModel) view() string {
	var parts []string

	if m.draftID != "" {
		parts = append(parts, m.theme.FormHelp.Render("Editing draft "+m.draftID))
		parts = append(parts, "")
	}

	for _, f := range m.fields {
		parts = append(parts, f.View())
	}

	if m.submitting {
		parts = append(parts, m.spinner.View())
	} else {
		parts = append(parts, m.theme.FormHelp.Render(
			"ctrl+d submits - tab moves - esc saves a draft and goes back"))
	}

	return m.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
