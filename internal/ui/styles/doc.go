// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the tripdesk TUI application.

This package defines the complete color palette, typography, and animation
system used throughout the application. All colors use Lip Gloss AdaptiveColor
for automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for selections and the active screen
  - Cyan - Brand color for info, shortcut keys, and request ID links
  - Emerald - Success states and the connected indicator
  - Amber - Warnings, pending requests, and the session countdown
  - Rose - Errors and rejected requests

## Request Status Colors

Every workflow status has a badge pair shared by the table, the detail
panel, and the status bar:

	StatusPendingFg/Bg   - Amber, waiting on a manager
	StatusApprovedFg/Bg  - Emerald, cleared for booking
	StatusRejectedFg/Bg  - Rose, turned down
	StatusBookedFg/Bg    - Blue, ticket issued
	StatusCancelledFg/Bg - Gray, withdrawn
	StatusDraftFg/Bg     - Violet, local only

Use StatusColors(status) to resolve a pair by name.

## Surface Colors

Layered surface system for depth:

	Surface    - Main background
	SurfaceDim - Subtle backgrounds (headers, status bars)
	Overlay    - Overlays and popups

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	if theme.HasTrueColor {
		// Terminal supports 16M colors
	}

Theme also carries the per-screen style sets (table, form, detail,
status bar, toasts, timeout overlay, login) plus helpers:

	theme.RenderStatusBadge("pending")  // " PENDING " badge
	theme.RoleStyle("manager")          // status bar role style

# Animation System (animations.go)

## Spinner Configurations

Pre-defined spinner styles:

	LineSpinner  - Simple line rotation, default for API calls
	DotsSpinner  - Classic three-dot animation
	BlockSpinner - Growing bar for lookup sync

## Status Indicators

ASCII indicators for various states:

	StatusIndicators.Success - [OK]
	StatusIndicators.Error   - [X]
	StatusIndicators.Warning - [!]
	StatusIndicators.Info    - [i]

# Usage Example

	import "github.com/jeranaias/tripdesk-tui/internal/ui/styles"

	// Use adaptive colors
	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	// Use theme for runtime detection
	theme := styles.NewTheme()
	badge := theme.RenderStatusBadge("approved")

	// Use spinner configuration
	spinner := styles.LineSpinner
	frameDuration := spinner.Duration()
*/
package styles
