// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Root message routing: global keys, session lifecycle
// messages, gateway results, and per-screen delegation.
package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/session"
	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	// ---- session lifecycle -------------------------------------------------

	case session.TickMsg:
		m.refreshSessionChrome()
		return m, m.deps.Session.HandleTick()

	case session.TimeoutWarningMsg:
		m.overlay.Show(msg.Remaining)
		m.toasts.AddWarning("Session expires soon")
		return m, nil

	case session.TimeoutMsg:
		// Forced logout: clear credentials and land on sign-in with the
		// expired variant of the overlay visible.
		m.forceLogout()
		m.overlay.Show(0)
		return m, nil

	case components.SessionExtendedMsg:
		m.deps.Session.RecordActivity()
		return m, nil

	// ---- toasts ------------------------------------------------------------

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		return m, components.ToastTickCmd()

	// ---- notifier ----------------------------------------------------------

	case pollerEventMsg:
		m.toasts.AddEvent(msg.Event)
		cmds := []tea.Cmd{}
		if m.poller != nil {
			cmds = append(cmds, listenPollerCmd(m.poller))
		}
		if m.screen == ScreenRequests {
			cmds = append(cmds, m.requests.fetchCmd())
		}
		return m, tea.Batch(cmds...)

	case pollerClosedMsg:
		return m, nil

	// ---- gateway results ---------------------------------------------------

	case loginDoneMsg:
		m.login.finish()
		m.toasts.AddSuccess("Signed in as " + msg.User.DisplayName())
		return m, tea.Batch(m.enterRequests()...)

	case requestsLoadedMsg:
		m.requests.setRequests(msg.Requests)
		m.status.SetConn(components.ConnOnline)
		m.status.SetPendingCount(countPending(msg))
		return m, nil

	case requestLoadedMsg:
		m.detail.show(msg.Request)
		m.setScreen(ScreenDetail)
		return m, nil

	case actionDoneMsg:
		m.toasts.AddSuccess(msg.Label)
		if m.screen == ScreenForm {
			m.form.submitted()
			m.form.reset()
			m.setScreen(ScreenRequests)
		} else {
			m.detail.actionResolved(msg.Request)
		}
		return m, m.requests.fetchCmd()

	case policyLoadedMsg:
		m.policy.setDoc(msg.Doc)
		return m, nil

	case exportDoneMsg:
		m.toasts.AddSuccess("Exported " + formatCount(msg.Rows, "row") + " to " + msg.Path)
		return m, nil

	case apiFailureMsg:
		return m.updateFailure(msg)

	// ---- table view --------------------------------------------------------

	case components.RowActivatedMsg:
		if id, ok := msg.Row.Resolve("id"); ok {
			if req, found := m.requests.requestByID(intOf(id)); found {
				m.detail.show(req)
				m.detail.setSize(m.width, m.height)
				m.setScreen(ScreenDetail)
				return m, nil
			}
			return m, fetchRequestCmd(m.deps.Gateway, intOf(id))
		}
		return m, nil

	case components.ExportRequestedMsg:
		return m, exportCmd(m.requests.list.Engine())
	}

	// Everything else (spinner frames, input blinks) goes to the active
	// screen.
	return m, m.updateScreen(msg)
}

// updateKey handles keys: overlay first, then global shortcuts, then the
// active screen. Any key counts as user activity.
func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// No session runs on the login screen; activity counts once started.
	if m.deps.Session.Running() {
		m.deps.Session.RecordActivity()
	}

	// The error panel eats keys until dismissed.
	if m.errPanel.IsVisible() {
		var cmd tea.Cmd
		m.errPanel, cmd = m.errPanel.Update(msg)
		return m, cmd
	}

	// The timeout overlay eats keys while visible. The expired variant
	// dismisses to the login screen (credentials are already gone).
	if m.overlay.IsVisible() {
		if m.overlay.IsExpired() {
			m.overlay.Hide()
			return m, nil
		}
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	// Global shortcuts, suppressed while a text input owns the keyboard.
	if !m.inputActive() {
		switch msg.String() {
		case "ctrl+c", "q":
			if msg.String() == "q" && m.screen != ScreenRequests {
				break
			}
			m.quitting = true
			m.shutdown()
			return m, tea.Quit

		case "esc":
			if cmd, handled := m.navigateBack(); handled {
				return m, cmd
			}

		case "ctrl+l":
			if m.screen != ScreenLogin {
				m.forceLogout()
				m.toasts.AddStatus("Signed out")
				return m, nil
			}

		case "r":
			if m.screen == ScreenRequests {
				return m, m.requests.fetchCmd()
			}

		case "n":
			if m.screen == ScreenRequests {
				m.form.reset()
				m.form.setSize(m.width, m.height)
				m.setScreen(ScreenForm)
				return m, m.form.focusCmd()
			}

		case "p":
			if m.screen == ScreenRequests {
				m.policy.setSize(m.width, m.height)
				m.setScreen(ScreenPolicy)
				return m, m.policy.open(m.deps)
			}
		}
	} else if msg.String() == "ctrl+c" {
		m.quitting = true
		m.shutdown()
		return m, tea.Quit
	}

	return m, m.updateScreen(msg)
}

// inputActive reports whether the active screen has a focused text
// input, in which case single-letter global shortcuts must not trigger.
func (m *Model) inputActive() bool {
	switch m.screen {
	case ScreenLogin, ScreenForm:
		return true
	case ScreenRequests:
		return m.requests.searching()
	case ScreenDetail:
		return m.detail.typing()
	default:
		return false
	}
}

// navigateBack handles esc per screen. Returns handled=false when the
// screen wants the key itself (e.g. clearing an active search filter).
func (m *Model) navigateBack() (tea.Cmd, bool) {
	switch m.screen {
	case ScreenDetail, ScreenPolicy:
		m.setScreen(ScreenRequests)
		return nil, true

	case ScreenForm:
		// Abandoning the form keeps the work: save a draft when there
		// is anything to keep.
		if m.form.hasContent() {
			if id, err := m.form.saveDraft(); err == nil {
				m.toasts.AddStatus("Draft saved: " + id)
			} else {
				m.toasts.AddError("Could not save draft: " + err.Error())
			}
		}
		m.form.reset()
		m.setScreen(ScreenRequests)
		return nil, true
	}
	return nil, false
}

// updateScreen delegates a message to the active screen.
func (m *Model) updateScreen(msg tea.Msg) tea.Cmd {
	switch m.screen {
	case ScreenLogin:
		return m.login.update(msg)
	case ScreenRequests:
		return m.requests.update(msg)
	case ScreenDetail:
		return m.detail.update(msg, m.deps)
	case ScreenForm:
		return m.form.update(msg)
	case ScreenPolicy:
		return m.policy.update(msg)
	default:
		return nil
	}
}

// updateFailure routes a failed gateway call: auth failures force the
// login screen (the gateway already cleared credentials), everything
// else becomes a toast on the current screen.
func (m *Model) updateFailure(msg apiFailureMsg) (tea.Model, tea.Cmd) {
	m.login.finish()
	m.requests.loading = false
	m.requests.spinner.Stop()
	m.detail.busy = false
	m.form.submitting = false

	if isAuthFailure(msg.Err) && m.screen != ScreenLogin {
		m.forceLogout()
		m.toasts.AddWarning("Session ended, sign in again")
		return m, nil
	}

	if isNetworkFailure(msg.Err) {
		m.status.SetConn(components.ConnOffline)
	}

	// A failed load leaves the screen with nothing to show; that gets
	// the full panel with suggestions. Action failures keep the screen
	// and its typed input, a toast is enough.
	if strings.HasPrefix(msg.Op, "load ") {
		m.errPanel = components.SmartErrorFromError("Could not "+msg.Op, msg.Err)
		m.errPanel.SetDismissible(true)
		m.errPanel.SetSize(m.width, m.height-chromeHeight)
		m.errPanel.Show()
		return m, nil
	}

	m.toasts.AddError("Could not " + msg.Op + ": " + friendlyError(msg.Err))
	return m, nil
}

// setSize propagates dimensions to the chrome and every screen.
func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.header.SetWidth(width)
	m.status.SetWidth(width)
	m.overlay.SetSize(width, height)
	m.errPanel.SetSize(width, height-chromeHeight)
	m.login.setSize(width, height)
	m.requests.setSize(width, height)
	m.detail.setSize(width, height)
	m.form.setSize(width, height)
	m.policy.setSize(width, height)
}

// refreshSessionChrome pushes session timing into the status bar and the
// warning overlay countdown.
func (m *Model) refreshSessionChrome() {
	if !m.deps.Session.Running() {
		return
	}
	remaining := m.deps.Session.RemainingTime()
	m.status.SetSession(remaining, m.deps.Config.Session.Timeout())
	if m.overlay.IsVisible() && !m.overlay.IsExpired() {
		m.overlay.UpdateTime(remaining)
	}
}

// shutdown stops background machinery before quit.
func (m *Model) shutdown() {
	if m.poller != nil {
		m.poller.Stop()
		m.poller = nil
	}
	m.deps.Session.Stop()
}

// countPending counts pending rows for the status bar badge.
func countPending(msg requestsLoadedMsg) int {
	n := 0
	for i := range msg.Requests {
		if !msg.Requests[i].IsDecided() {
			n++
		}
	}
	return n
}
