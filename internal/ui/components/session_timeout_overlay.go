// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the tripdesk TUI.
package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// =============================================================================
// SESSION TIMEOUT OVERLAY
// =============================================================================

// SessionTimeoutOverlay displays a warning when the idle session is about
// to expire. SECURITY: an expired session clears stored credentials, so
// the overlay gives the user a chance to stay signed in before that
// happens.
type SessionTimeoutOverlay struct {
	// State
	visible       bool
	timeRemaining time.Duration
	expired       bool

	// Configuration
	warningThreshold time.Duration // Default: 5 minutes

	// Dimensions
	width  int
	height int
}

// NewSessionTimeoutOverlay creates a new session timeout overlay.
func NewSessionTimeoutOverlay() SessionTimeoutOverlay {
	return SessionTimeoutOverlay{
		visible:          false,
		warningThreshold: DefaultWarningThreshold,
	}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetSize sets the overlay dimensions.
func (o *SessionTimeoutOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// SetWarningThreshold sets when to show the warning (default: 5 minutes).
func (o *SessionTimeoutOverlay) SetWarningThreshold(threshold time.Duration) {
	o.warningThreshold = threshold
}

// =============================================================================
// STATE MANAGEMENT
// =============================================================================

// Show displays the overlay with the given time remaining.
func (o *SessionTimeoutOverlay) Show(remaining time.Duration) {
	o.visible = true
	o.timeRemaining = remaining
	o.expired = remaining <= 0
}

// Hide hides the overlay.
func (o *SessionTimeoutOverlay) Hide() {
	o.visible = false
	o.expired = false
}

// UpdateTime updates the countdown timer.
func (o *SessionTimeoutOverlay) UpdateTime(remaining time.Duration) {
	o.timeRemaining = remaining
	if remaining <= 0 {
		o.expired = true
	}
}

// IsVisible returns whether the overlay is currently visible.
func (o *SessionTimeoutOverlay) IsVisible() bool {
	return o.visible
}

// IsExpired returns whether the session has expired.
func (o *SessionTimeoutOverlay) IsExpired() bool {
	return o.expired
}

// TimeRemaining returns the current time remaining.
func (o *SessionTimeoutOverlay) TimeRemaining() time.Duration {
	return o.timeRemaining
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// SessionTimeoutTickMsg signals a countdown tick for the session timeout overlay.
type SessionTimeoutTickMsg struct {
	Time time.Time
}

// SessionTimeoutWarningMsg signals the session is about to expire.
type SessionTimeoutWarningMsg struct {
	TimeRemaining time.Duration
}

// SessionExpiredMsg signals the session has expired; the app clears the
// token store and returns to the sign-in screen.
type SessionExpiredMsg struct{}

// SessionExtendedMsg signals the user extended their session by pressing a key.
type SessionExtendedMsg struct{}

// Init initializes the overlay (no-op for overlays).
func (o SessionTimeoutOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages for the overlay.
func (o SessionTimeoutOverlay) Update(msg tea.Msg) (SessionTimeoutOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.width = msg.Width
		o.height = msg.Height

	case tea.KeyMsg:
		// Any key press while warning is visible extends the session.
		// Keys on the expired variant are the app's to handle: it must
		// clear credentials and navigate to sign-in, not just dismiss.
		if o.visible && !o.expired {
			o.Hide()
			return o, func() tea.Msg {
				return SessionExtendedMsg{}
			}
		}

	case SessionTimeoutTickMsg:
		if o.visible {
			// Update remaining time (caller should handle actual timing)
			if o.timeRemaining <= 0 {
				o.expired = true
			}
		}
	}

	return o, nil
}

// View renders the session timeout overlay.
func (o SessionTimeoutOverlay) View() string {
	if !o.visible {
		return ""
	}

	if o.expired {
		return o.viewExpired()
	}
	return o.viewWarning()
}

// =============================================================================
// RENDER METHODS
// =============================================================================

// viewWarning renders the warning overlay before timeout.
func (o SessionTimeoutOverlay) viewWarning() string {
	width := o.width
	if width == 0 {
		width = 60
	}
	height := o.height
	if height == 0 {
		height = 24
	}

	// Calculate max content width
	maxWidth := width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}

	// Format remaining time as M:SS
	timeStr := formatTimeRemaining(o.timeRemaining)

	// Build content
	var parts []string

	// Warning icon and title
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Warning+" Session Expiring"))

	// Empty line
	parts = append(parts, "")

	// Main message with countdown
	timeStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 4).
		Align(lipgloss.Center)

	parts = append(parts, msgStyle.Render(
		"You will be signed out in "+timeStyle.Render(timeStr)))

	// Empty line
	parts = append(parts, "")

	// Instruction
	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true).
		Align(lipgloss.Center)
	parts = append(parts, hintStyle.Render("Press any key to stay signed in"))

	// Empty line
	parts = append(parts, "")

	// Draft safety note
	noteStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Align(lipgloss.Center)
	parts = append(parts, noteStyle.Render("Unsaved request drafts are kept locally"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	// Create warning box with amber/yellow border
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Amber).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center)

	box := boxStyle.Render(content)

	// Center the box
	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}

// viewExpired renders the expired session message.
func (o SessionTimeoutOverlay) viewExpired() string {
	width := o.width
	if width == 0 {
		width = 60
	}
	height := o.height
	if height == 0 {
		height = 24
	}

	// Calculate max content width
	maxWidth := width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}

	// Build content
	var parts []string

	// Error icon and title
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Error+" Signed Out"))

	// Empty line
	parts = append(parts, "")

	// Main message
	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 4).
		Align(lipgloss.Center)
	parts = append(parts, msgStyle.Render(
		"Your session timed out due to inactivity."))

	// Empty line
	parts = append(parts, "")

	// Next-step instruction
	exitStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Align(lipgloss.Center)
	parts = append(parts, exitStyle.Render("Press any key to return to sign-in."))

	// Empty line
	parts = append(parts, "")

	// Draft safety note
	noteStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Align(lipgloss.Center)
	parts = append(parts, noteStyle.Render("Unsaved request drafts were kept locally"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	// Create expired box with rose/red border
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Rose).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center)

	box := boxStyle.Render(content)

	// Center the box
	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatTimeRemaining formats a duration as M:SS for display.
func formatTimeRemaining(d time.Duration) string {
	if d < 0 {
		return "0:00"
	}

	totalSecs := int(d.Seconds())
	mins := totalSecs / 60
	secs := totalSecs % 60

	return fmt.Sprintf("%d:%02d", mins, secs)
}

// =============================================================================
// SESSION TIMEOUT CONFIGURATION CONSTANTS
// =============================================================================

const (
	// DefaultSessionTimeout is the default idle timeout (30 minutes).
	DefaultSessionTimeout = 30 * time.Minute

	// MinSessionTimeout is the minimum allowed idle timeout. Matches the
	// session.timeout_minutes validation floor.
	MinSessionTimeout = 5 * time.Minute

	// MaxSessionTimeout is the maximum allowed idle timeout (8 hours).
	MaxSessionTimeout = 480 * time.Minute

	// DefaultWarningThreshold is when to show the warning overlay
	// (5 minutes before timeout).
	DefaultWarningThreshold = 5 * time.Minute
)

// ValidateSessionTimeout clamps the timeout to the configurable range.
func ValidateSessionTimeout(timeout time.Duration) time.Duration {
	if timeout < MinSessionTimeout {
		return MinSessionTimeout
	}
	if timeout > MaxSessionTimeout {
		return MaxSessionTimeout
	}
	return timeout
}
