// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Root rendering: chrome around the active screen, with the
// toast stack and the timeout overlay on top.
package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// The timeout overlay replaces the whole screen while visible so
	// the countdown cannot be missed.
	if m.overlay.IsVisible() {
		return m.overlay.View()
	}

	// The login screen draws its own centered chrome.
	if m.screen == ScreenLogin {
		body := m.login.view()
		if m.toasts.HasToasts() {
			body = m.toastLines() + "\n" + body
		}
		return body
	}

	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n")

	if m.toasts.HasToasts() {
		b.WriteString(m.toastLines())
		b.WriteString("\n")
	}

	b.WriteString(m.screenView())
	b.WriteString("\n")
	b.WriteString(m.status.View())

	return b.String()
}

// screenView renders the active screen body. A visible error panel
// replaces it until dismissed.
func (m *Model) screenView() string {
	if m.errPanel.IsVisible() {
		return m.errPanel.View()
	}
	switch m.screen {
	case ScreenRequests:
		return m.requests.view()
	case ScreenDetail:
		return m.detail.view(m.deps)
	case ScreenForm:
		return m.form.view()
	case ScreenPolicy:
		return m.policy.view()
	default:
		return ""
	}
}

// toastLines renders the active toasts right-aligned under the header.
func (m *Model) toastLines() string {
	var lines []string
	for _, t := range m.toasts.GetToasts() {
		lines = append(lines, components.RenderToast(t, min(m.width-2, 60)))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, lines...)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack)
}
