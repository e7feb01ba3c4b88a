// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the tripdesk TUI.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually consistent with the tripdesk design language and to degrade
cleanly on narrow or monochrome terminals.

# Core Components

## Display Components

Header (header.go) - Application header with screen title and connection badge.
StatusBar (statusbar.go) - Bottom bar with identity, role, session clock, and shortcuts.
TableView (tableview.go) - Interactive list over the table engine: search, sort, paging, export.
CodeBlock (codeblock.go) - Syntax-highlighted payload inspector using Chroma.

## Progress and Feedback

Spinner (spinner.go) - Animated spinner shown while a gateway call is in flight.
SyncIndicator (spinner.go) - Lookup sync progress with per-collection detail.
ErrorToast (error_toast.go) - Non-blocking toast notifications with retry support.

## Session Components

SessionTimeoutOverlay (session_timeout_overlay.go) - Idle-session warning and sign-out.

# Key Types

## Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetScreen("My Requests")
	view := header.View()

## Bubble Tea Integration

Interactive components follow the Bubble Tea update cycle: the parent model
routes tea.KeyMsg values to the focused component's Update method and
renders its View into the screen layout. Components that raise events do so
through commands (RowActivatedMsg, ExportRequestedMsg, SessionExtendedMsg).

# Helper Functions

The package includes shared helper functions in helpers.go:
  - toStr() - Integer to string conversion without fmt
  - fmtNumber() - Row and record counts with thousand separators
  - fmtPercent() - Percentage formatting for the session clock
*/
package components
