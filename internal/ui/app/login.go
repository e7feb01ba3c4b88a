// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Sign-in screen: email + masked password, and the TOTP
// unlock challenge when the app lock is enrolled.
package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// loginModel is the sign-in screen.
type loginModel struct {
	theme *styles.Theme
	deps  Deps

	email    *components.FormField
	password *components.FormField
	unlock   *components.FormField // TOTP code, only when the lock is enrolled
	locked   bool

	focus      int // index into fields()
	submitting bool
	spinner    components.Spinner

	width  int
	height int
}

func newLoginModel(theme *styles.Theme, deps Deps) loginModel {
	email := components.NewFormField(theme, "Email")
	email.SetRequired(true)
	email.SetPlaceholder("dana@example.com")

	password := components.NewPasswordField(theme, "Password")
	password.SetRequired(true)

	m := loginModel{
		theme:    theme,
		deps:     deps,
		email:    email,
		password: password,
		spinner:  components.NewSpinner(),
	}

	// The lock gates credential use, so it gates sign-in too.
	if deps.Config.Lock.Enabled && auth.NewAppLock(deps.Store).Enabled() {
		m.locked = true
		m.unlock = components.NewFormField(theme, "Unlock code")
		m.unlock.SetRequired(true)
		m.unlock.SetPlaceholder("6-digit code")
		m.unlock.SetHint("From your authenticator app")
	}

	return m
}

func (m *loginModel) fields() []*components.FormField {
	fs := []*components.FormField{m.email, m.password}
	if m.locked {
		fs = append(fs, m.unlock)
	}
	return fs
}

func (m *loginModel) Init() tea.Cmd {
	return m.email.Focus()
}

func (m *loginModel) setSize(width, height int) {
	m.width = width
	m.height = height
	fieldWidth := min(48, width-8)
	for _, f := range m.fields() {
		f.SetWidth(fieldWidth)
	}
}

// update handles keys while the login screen owns the keyboard. The
// returned command is either focus movement or the login call.
func (m *loginModel) update(msg tea.Msg) tea.Cmd {
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
	case "enter":
		if m.focus < len(m.fields())-1 {
			return m.moveFocus(1)
		}
		return m.submit()
	}

	return m.fields()[m.focus].Update(msg)
}

func (m *loginModel) moveFocus(delta int) tea.Cmd {
	fs := m.fields()
	fs[m.focus].Blur()
	m.focus = (m.focus + delta + len(fs)) % len(fs)
	return fs[m.focus].Focus()
}

// submit validates locally, unlocks the app lock when present, and
// fires the login call. Validation failures render inline and never
// reach the network.
func (m *loginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	valid := true
	if email == "" {
		m.email.SetError("email is required")
		valid = false
	}
	if password == "" {
		m.password.SetError("password is required")
		valid = false
	}

	if m.locked {
		code := strings.TrimSpace(m.unlock.Value())
		if code == "" {
			m.unlock.SetError("unlock code is required")
			valid = false
		} else if valid {
			lock := auth.NewAppLock(m.deps.Store)
			if remaining := lock.CooldownRemaining(); remaining > 0 {
				m.unlock.SetError("locked out, retry in " + remaining.Round(time.Second).String())
				return nil
			}
			ok, err := lock.Verify(code)
			if err != nil {
				m.unlock.SetError(err.Error())
				return nil
			}
			if !ok {
				m.unlock.SetError("incorrect code")
				return nil
			}
		}
	}

	if !valid {
		return nil
	}

	m.submitting = true
	m.spinner.SetMessage("Signing in...")
	return tea.Batch(m.spinner.Start(), loginCmd(m.deps.Gateway, email, password))
}

// finish clears the in-flight state after a login attempt resolves
// either way.
func (m *loginModel) finish() {
	m.submitting = false
	m.spinner.Stop()
	m.password.Reset()
	if m.unlock != nil {
		m.unlock.Reset()
	}
}

func (m *loginModel) view() string {
	var parts []string

	parts = append(parts, m.theme.LoginTitle.Render("tripdesk"))
	parts = append(parts, m.theme.LoginHint.Render("Sign in to the travel desk"))
	parts = append(parts, "")

	for _, f := range m.fields() {
		parts = append(parts, f.View())
		parts = append(parts, "")
	}

	if m.submitting {
		parts = append(parts, m.spinner.View())
	} else {
		parts = append(parts, m.theme.LoginHint.Render("enter to sign in - tab to move - ctrl+c to quit"))
	}

	box := m.theme.LoginBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
