// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for CLI output.
//
// Keep command output visually consistent: define styles once here,
// render everywhere else.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

func init() {
	// Respect NO_COLOR and non-TTY stdout for everything lipgloss renders.
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle for section headings
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Bright blue

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	// DimStyle for secondary text
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Gray

	// LabelStyle for aligned field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(20)

	// AccentStyle for values worth drawing the eye to
	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // Cyan
)

// Status styles for travel request lifecycle states.
var (
	statusPendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // Orange
	statusApprovedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // Green
	statusRejectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
	statusBookedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // Blue
	statusCancelledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")) // Gray
)

// RenderRequestStatus colorizes a request status for terminal display.
func RenderRequestStatus(status model.RequestStatus) string {
	label := status.String()
	switch status {
	case model.StatusPending:
		return statusPendingStyle.Render(label)
	case model.StatusApproved:
		return statusApprovedStyle.Render(label)
	case model.StatusRejected:
		return statusRejectedStyle.Render(label)
	case model.StatusBooked:
		return statusBookedStyle.Render(label)
	case model.StatusCancelled:
		return statusCancelledStyle.Render(label)
	default:
		return label
	}
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// RenderSeparator renders a horizontal separator line.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 60
	}
	return DimStyle.Render(strings.Repeat("-", width))
}

// RenderStatus renders an [OK]/[FAIL]/[WARN] marker with the right style.
func RenderStatus(ok bool, okText, failText string) string {
	if ok {
		return SuccessStyle.Render(okText)
	}
	return ErrorStyle.Render(failText)
}

// RenderLabel renders an aligned "Label: value" line.
func RenderLabel(label, value string) string {
	return LabelStyle.Render(label+":") + " " + value
}

// RenderConditional renders text with a style only when colors are on.
func RenderConditional(style lipgloss.Style, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return style.Render(text)
}

// GetStyleForTTY returns the style when stdout is a TTY, or an empty
// style for piped output.
func GetStyleForTTY(style lipgloss.Style) lipgloss.Style {
	if IsStdoutTTY() {
		return style
	}
	return lipgloss.NewStyle()
}
