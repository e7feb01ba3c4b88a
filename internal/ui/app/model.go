// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Root bubbletea model: routed screens plus shared chrome.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/config"
	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/notify"
	"github.com/jeranaias/tripdesk-tui/internal/session"
	"github.com/jeranaias/tripdesk-tui/internal/storage"
	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS
// =============================================================================

// Screen identifies the view that currently owns the keyboard.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRequests
	ScreenDetail
	ScreenForm
	ScreenPolicy
)

// String returns the screen title shown in the header.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "Sign In"
	case ScreenRequests:
		return "Travel Requests"
	case ScreenDetail:
		return "Request Detail"
	case ScreenForm:
		return "New Request"
	case ScreenPolicy:
		return "Travel Policy"
	default:
		return "tripdesk"
	}
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// Deps carries the long-lived collaborators main constructs once and the
// whole TUI shares. Everything is explicit so tests can hand in their own.
type Deps struct {
	Config  *config.Config
	Gateway *api.Gateway
	Store   *auth.Store
	Session *session.Manager
	Drafts  *storage.DraftStore
}

// Model is the root bubbletea model.
type Model struct {
	deps  Deps
	theme *styles.Theme

	width  int
	height int

	screen Screen

	// Chrome shared by every screen.
	header  *components.Header
	status  *components.StatusBar
	toasts  *components.ToastManager
	overlay components.SessionTimeoutOverlay

	// errPanel replaces the screen body when a load fails outright;
	// action failures stay toasts so typed input survives.
	errPanel components.ErrorDisplay

	// Screens. Each keeps its own transient state; the root routes
	// messages to whichever one the screen field names.
	login    loginModel
	requests requestsModel
	detail   detailModel
	form     formModel
	policy   policyModel

	// Notifier, started after login, stopped on logout/quit.
	poller *notify.Poller

	quitting bool
}

// New builds the root model. The landing screen depends on whether a
// usable session is already stored; role-based scoping happens when the
// requests screen fetches.
func New(deps Deps) *Model {
	theme := styles.NewTheme()

	m := &Model{
		deps:     deps,
		theme:    theme,
		width:    80,
		height:   24,
		header:   components.NewHeader(theme),
		status:   components.NewStatusBar(theme),
		toasts:   components.NewToastManager(),
		overlay:  components.NewSessionTimeoutOverlay(),
		errPanel: components.NewErrorDisplay(),
	}

	m.login = newLoginModel(theme, deps)
	m.requests = newRequestsModel(theme, deps)
	m.detail = newDetailModel(theme)
	m.form = newFormModel(theme, deps)
	m.policy = newPolicyModel(theme)

	m.overlay.SetWarningThreshold(deps.Config.Session.Warning())

	if deps.Store.LoggedIn() && !deps.Store.TokenExpired() {
		m.screen = ScreenRequests
		m.syncIdentity()
	} else {
		m.screen = ScreenLogin
	}
	m.header.SetScreen(m.screen.String())

	return m
}

// Init starts the session tick loop, the toast ticker, and the first
// fetch when a stored session lets us skip the login screen.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		session.TickCmd(),
		components.ToastTickCmd(),
		m.login.Init(),
	}
	if m.screen == ScreenRequests {
		cmds = append(cmds, m.enterRequests()...)
	}
	return tea.Batch(cmds...)
}

// syncIdentity pushes the cached profile into the status bar.
func (m *Model) syncIdentity() {
	user, err := m.deps.Store.User()
	if err != nil || user == nil {
		m.status.SetUser("", "", model.RoleEmployee)
		return
	}
	m.status.SetUser(user.DisplayName(), user.Email, user.Role)
}

// setScreen routes to a screen and keeps the header title in step.
func (m *Model) setScreen(s Screen) {
	m.screen = s
	m.header.SetScreen(s.String())
}

// enterRequests starts the session machinery and kicks off the first
// fetch. Called after login and when resuming a stored session.
func (m *Model) enterRequests() []tea.Cmd {
	m.setScreen(ScreenRequests)
	m.syncIdentity()

	m.deps.Gateway.ResetSessionExpiry()
	m.deps.Session.Start()
	m.deps.Session.RecordActivity()

	cmds := []tea.Cmd{m.requests.fetchCmd()}

	if m.poller == nil && m.deps.Config.Notify.Enabled {
		m.poller = notify.NewPoller(
			m.requests.fetcher(),
			m.deps.Config.Notify.PollInterval(),
		)
		m.poller.Start()
		m.status.SetNotifier(true)
		cmds = append(cmds, listenPollerCmd(m.poller))
	}

	return cmds
}

// forceLogout clears stored credentials and drops back to the login
// screen. Used for both the explicit logout key and session expiry;
// repeated calls are harmless, matching the gateway's own idempotent
// 401 handling.
func (m *Model) forceLogout() {
	_ = m.deps.Store.Clear()
	m.deps.Gateway.ResetSessionExpiry()
	m.deps.Session.Stop()

	if m.poller != nil {
		m.poller.Stop()
		m.poller = nil
		m.status.SetNotifier(false)
	}

	m.login = newLoginModel(m.theme, m.deps)
	m.login.setSize(m.width, m.height)
	m.setScreen(ScreenLogin)
	m.status.SetUser("", "", model.RoleEmployee)
}
