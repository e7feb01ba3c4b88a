// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// policy.go - Travel policy viewer: glamour-rendered markdown in a
// scrolling viewport. Server copy when reachable, bundled copy when not.
package app

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/ui/components"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// bundledPolicy ships with the client so the policy reads offline and
// before first login. The server copy wins whenever it is reachable.
const bundledPolicy = `# Company Travel Policy

## Before You Travel

- Every trip needs an approved travel request **before** anything is booked.
- Submit requests at least **14 days** before departure; shorter notice
  requires a written justification in the purpose field.
- Estimate costs honestly: transport, lodging, and per-diems.

## Approval

- Your department manager approves or rejects requests.
- Rejected requests may be resubmitted after addressing the decision note.
- Approved requests are booked by the travel desk, not by travelers.

## Booking and Changes

- The travel desk records the ticket reference and final cost.
- Itinerary changes after booking go through the travel desk.
- Cancel trips you will not take so budget can be released.

*Questions go to the travel desk.*
`

// policyModel is the policy viewer screen.
type policyModel struct {
	theme *styles.Theme

	viewport viewport.Model
	loaded   bool
	loading  bool
	spinner  components.Spinner
	source   string // "server" or "bundled"

	width  int
	height int
}

func newPolicyModel(theme *styles.Theme) policyModel {
	return policyModel{
		theme:    theme,
		viewport: viewport.New(80, 20),
		spinner:  components.NewFetchSpinner(),
	}
}

// open starts a fetch the first time the screen is shown; later visits
// reuse the loaded document.
func (m *policyModel) open(deps Deps) tea.Cmd {
	if m.loaded || m.loading {
		return nil
	}
	m.loading = true
	m.spinner.SetMessage("Loading policy...")
	return tea.Batch(m.spinner.Start(), fetchPolicyCmd(deps.Gateway))
}

// setDoc renders the document into the viewport. A nil doc selects the
// bundled fallback.
func (m *policyModel) setDoc(doc *api.PolicyDoc) {
	m.loading = false
	m.spinner.Stop()
	m.loaded = true

	content := bundledPolicy
	m.source = "bundled"
	if doc != nil && doc.Content != "" {
		content = doc.Content
		m.source = "server"
	}

	m.viewport.SetContent(m.render(content))
	m.viewport.GotoTop()
}

// render runs glamour over the markdown, falling back to the raw text
// when the renderer cannot initialize.
func (m *policyModel) render(content string) string {
	width := m.width - 4
	if width < 20 || width > 100 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (m *policyModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 2
	m.viewport.Height = height - chromeHeight - 2
}

func (m *policyModel) update(msg tea.Msg) tea.Cmd {
	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			return cmd
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *policyModel) view() string {
	if m.loading && !m.loaded {
		return m.spinner.View()
	}

	meta := "bundled copy"
	if m.source == "server" {
		meta = "from server"
	}
	header := m.theme.PolicyTitle.Render("Travel Policy") + "  " +
		m.theme.PolicyMeta.Render(meta)

	return header + "\n" + m.theme.PolicyViewport.Render(m.viewport.View())
}
