// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// detail.go - Request detail: a field panel with a raw-JSON inspector,
// plus the decision and booking actions gated by role.
package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// detailMode is the input state within the detail screen.
type detailMode int

const (
	detailViewing detailMode = iota
	detailNoting             // collecting an approve/reject note
	detailBooking            // collecting ticket ref + final cost
)

// detailModel is the request detail screen.
type detailModel struct {
	theme *styles.Theme

	request  *model.TravelRequest
	showJSON bool

	mode    detailMode
	approve bool // which decision detailNoting is for
	note    *components.FormField
	ticket  *components.FormField
	cost    *components.FormField
	focus   int // booking field focus: 0 ticket, 1 cost

	busy    bool
	spinner components.ActionSpinner

	width  int
	height int
}

func newDetailModel(theme *styles.Theme) detailModel {
	note := components.NewFormField(theme, "Decision note")
	note.SetPlaceholder("optional")
	note.SetMaxChars(240)

	ticket := components.NewFormField(theme, "Ticket reference")
	ticket.SetRequired(true)

	cost := components.NewAmountField(theme, "Final cost")
	cost.SetRequired(true)

	return detailModel{
		theme:   theme,
		note:    note,
		ticket:  ticket,
		cost:    cost,
		spinner: components.NewActionSpinner("Submitting"),
	}
}

// show resets the screen onto a request.
func (m *detailModel) show(req *model.TravelRequest) {
	m.request = req
	m.showJSON = false
	m.mode = detailViewing
	m.busy = false
	m.note.Reset()
	m.ticket.Reset()
	m.cost.Reset()
}

func (m *detailModel) setSize(width, height int) {
	m.width = width
	m.height = height
	fieldWidth := min(48, width-8)
	m.note.SetWidth(fieldWidth)
	m.ticket.SetWidth(fieldWidth)
	m.cost.SetWidth(fieldWidth)
}

// typing reports whether a form field owns the keyboard.
func (m *detailModel) typing() bool {
	return m.mode != detailViewing
}

// update handles detail-screen keys. Root handles navigation back.
func (m *detailModel) update(msg tea.Msg, deps Deps) tea.Cmd {
	if m.busy {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	if m.request == nil {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch m.mode {
	case detailNoting:
		return m.updateNoting(keyMsg, deps)
	case detailBooking:
		return m.updateBooking(keyMsg, deps)
	}

	switch keyMsg.String() {
	case "tab":
		m.showJSON = !m.showJSON

	case "a":
		if deps.Store.CanApprove() && m.request.Status == model.StatusPending {
			m.mode = detailNoting
			m.approve = true
			return m.note.Focus()
		}

	case "x":
		if deps.Store.CanApprove() && m.request.Status == model.StatusPending {
			m.mode = detailNoting
			m.approve = false
			return m.note.Focus()
		}

	case "b":
		if deps.Store.CanBook() && m.request.Status == model.StatusApproved {
			m.mode = detailBooking
			m.focus = 0
			m.cost.SetValue(fmt.Sprintf("%.2f", m.request.EstimatedCost))
			return m.ticket.Focus()
		}
	}

	return nil
}

func (m *detailModel) updateNoting(msg tea.KeyMsg, deps Deps) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = detailViewing
		m.note.Blur()
		m.note.Reset()
		return nil

	case "enter":
		m.mode = detailViewing
		m.note.Blur()
		m.busy = true
		return tea.Batch(
			m.spinner.Start(),
			decisionCmd(deps.Gateway, m.request.ID, m.approve, strings.TrimSpace(m.note.Value())),
		)
	}
	return m.note.Update(msg)
}

func (m *detailModel) updateBooking(msg tea.KeyMsg, deps Deps) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = detailViewing
		m.ticket.Blur()
		m.cost.Blur()
		return nil

	case "tab", "shift+tab":
		if m.focus == 0 {
			m.focus = 1
			m.ticket.Blur()
			return m.cost.Focus()
		}
		m.focus = 0
		m.cost.Blur()
		return m.ticket.Focus()

	case "enter":
		ref := strings.TrimSpace(m.ticket.Value())
		if ref == "" {
			m.ticket.SetError("ticket reference is required")
			return nil
		}
		cost, err := strconv.ParseFloat(strings.TrimSpace(m.cost.Value()), 64)
		if err != nil || cost < 0 {
			m.cost.SetError("enter a non-negative amount")
			return nil
		}
		m.mode = detailViewing
		m.ticket.Blur()
		m.cost.Blur()
		m.busy = true
		return tea.Batch(m.spinner.Start(), bookingCmd(deps.Gateway, m.request.ID, ref, cost))
	}

	if m.focus == 0 {
		return m.ticket.Update(msg)
	}
	return m.cost.Update(msg)
}

// actionResolved absorbs the outcome of a decision or booking.
func (m *detailModel) actionResolved(req *model.TravelRequest) {
	m.busy = false
	m.spinner.Stop()
	if req != nil {
		m.request = req
	}
	m.note.Reset()
	m.ticket.Reset()
	m.cost.Reset()
}

func (m *detailModel) view(deps Deps) string {
	if m.request == nil {
		return m.theme.DetailBox.Render("No request selected.")
	}
	if m.showJSON {
		return m.viewJSON()
	}

	r := m.request
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(m.theme.DetailLabel.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(m.theme.DetailValue.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.DetailSection.Render(fmt.Sprintf("Request #%d", r.ID)))
	b.WriteString("  ")
	b.WriteString(m.theme.StatusBadge(string(r.Status)).Render(" " + r.Status.String() + " "))
	b.WriteString("\n\n")

	row("Requester", r.UserName)
	row("Department", r.DepartmentName)
	row("Project", r.ProjectName)
	b.WriteString("\n")
	row("Route", r.Route())
	row("Departure", r.DepartureDate.Format("2006-01-02"))
	row("Return", r.ReturnDate.Format("2006-01-02"))
	row("Duration", fmt.Sprintf("%d days", r.TripDays()))
	row("Est. cost", fmt.Sprintf("%.2f", r.EstimatedCost))
	b.WriteString("\n")
	row("Purpose", r.Purpose)

	if r.IsDecided() {
		b.WriteString("\n")
		b.WriteString(m.theme.DetailSection.Render("Decision"))
		b.WriteString("\n")
		row("By", r.ApproverName)
		if r.DecisionNote != "" {
			b.WriteString(m.theme.DecisionNote.Render(r.DecisionNote))
			b.WriteString("\n")
		}
	}

	if r.Booking != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.DetailSection.Render("Booking"))
		b.WriteString("\n")
		row("Ticket", r.Booking.TicketRef)
		row("Final cost", fmt.Sprintf("%.2f", r.Booking.FinalCost))
		row("Booked by", r.Booking.BookedBy)
		row("Booked at", r.Booking.BookedAt.Format("2006-01-02 15:04"))
	}

	switch m.mode {
	case detailNoting:
		action := "Reject"
		if m.approve {
			action = "Approve"
		}
		b.WriteString("\n")
		b.WriteString(m.theme.DetailSection.Render(action + " request"))
		b.WriteString("\n")
		b.WriteString(m.note.View())
		b.WriteString("\n")
		b.WriteString(m.theme.FormHelp.Render("enter to confirm - esc to cancel"))

	case detailBooking:
		b.WriteString("\n")
		b.WriteString(m.theme.DetailSection.Render("Record booking"))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, m.ticket.View(), m.cost.View()))
		b.WriteString("\n")
		b.WriteString(m.theme.FormHelp.Render("enter to confirm - tab to switch - esc to cancel"))

	default:
		b.WriteString("\n")
		b.WriteString(m.theme.FormHelp.Render(m.shortcuts(deps)))
	}

	if m.busy {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
	}

	return m.theme.DetailBox.Render(b.String())
}

// shortcuts lists the actions available to the current role and status.
func (m *detailModel) shortcuts(deps Deps) string {
	parts := []string{"tab raw JSON", "esc back"}
	if deps.Store.CanApprove() && m.request.Status == model.StatusPending {
		parts = append([]string{"a approve", "x reject"}, parts...)
	}
	if deps.Store.CanBook() && m.request.Status == model.StatusApproved {
		parts = append([]string{"b book"}, parts...)
	}
	return strings.Join(parts, " - ")
}

// viewJSON renders the raw request as highlighted JSON, the inspector
// view for debugging mismatched fields against the backend.
func (m *detailModel) viewJSON() string {
	raw, err := json.MarshalIndent(m.request, "", "  ")
	if err != nil {
		return m.theme.DetailBox.Render("could not render JSON: " + err.Error())
	}
	block := components.NewJSONBlock(string(raw))
	block.SetMaxWidth(m.width - 4)
	return block.Render() + "\n" + m.theme.FormHelp.Render("tab to return")
}
