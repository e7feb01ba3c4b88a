// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// =============================================================================
// Status Types
// =============================================================================

// Status represents what the client is doing right now.
type Status int

const (
	StatusReady Status = iota
	StatusFetching
	StatusSyncing
	StatusError
	StatusIdle
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusFetching:
		return "Fetching..."
	case StatusSyncing:
		return "Syncing..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns a short ASCII icon for the status.
// ACCESSIBILITY: ASCII-only so screen readers announce something sensible.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusFetching:
		return styles.StatusIndicators.Pending
	case StatusSyncing:
		return styles.StatusIndicators.Active
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return "-"
	default:
		return "?"
	}
}

// RoleIcons maps each role to a short ASCII marker for narrow layouts.
var RoleIcons = map[model.Role]string{
	model.RoleEmployee:      "@",
	model.RoleManager:       "+",
	model.RoleTravelAdmin:   "~",
	model.RoleAdministrator: "*",
}

// GetRoleIcon returns the ASCII icon for a role.
func GetRoleIcon(role model.Role) string {
	if icon, ok := RoleIcons[role]; ok {
		return icon
	}
	return "?"
}

// =============================================================================
// STATUS BAR COMPONENT - Persistent bottom bar
// =============================================================================

// StatusBar is the persistent bottom bar: who is signed in, what role they
// act as, whether the backend is reachable, how much idle time is left on
// the session, and whether the notifier poll loop is running.
type StatusBar struct {
	UserName         string        // Signed-in user's display name
	UserEmail        string        // Fallback identity when the profile has no name
	Role             model.Role    // Role badge (decides the landing screen)
	Conn             Conn          // Backend connection state
	Status           Status        // Current activity
	SessionRemaining time.Duration // Idle budget left before sign-out
	SessionTimeout   time.Duration // Total idle budget (scales the clock bar)
	NotifierOn       bool          // Background poller running
	PendingCount     int           // Requests awaiting the viewer's action
	Width            int           // Terminal width
	ShowShortcuts    bool          // Whether to show keyboard shortcuts
	theme            *styles.Theme
}

// NewStatusBar creates a new status bar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Conn:          ConnChecking,
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetUser records the signed-in identity shown on the left side.
func (s *StatusBar) SetUser(name, email string, role model.Role) {
	s.UserName = name
	s.UserEmail = email
	s.Role = role
}

// SetConn updates the backend connection state.
func (s *StatusBar) SetConn(conn Conn) {
	s.Conn = conn
}

// SetStatus updates the current activity.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetSession updates the idle-session clock.
func (s *StatusBar) SetSession(remaining, timeout time.Duration) {
	s.SessionRemaining = remaining
	s.SessionTimeout = timeout
}

// SetNotifier records whether the background poller is running.
func (s *StatusBar) SetNotifier(on bool) {
	s.NotifierOn = on
}

// SetPendingCount updates the count of requests awaiting the viewer.
func (s *StatusBar) SetPendingCount(count int) {
	s.PendingCount = count
}

// identity returns the best available display identity.
func (s *StatusBar) identity() string {
	if s.UserName != "" {
		return s.UserName
	}
	if s.UserEmail != "" {
		return s.UserEmail
	}
	return "not signed in"
}

// View renders the status bar, adapting to terminal width.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a minimal bar for narrow terminals (<60 cols).
func (s *StatusBar) viewNarrow() string {
	var sections []string

	// Role marker, or an offline badge that overrides it.
	if s.Conn == ConnOffline {
		offlineStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF0000")).
			Bold(true)
		sections = append(sections, offlineStyle.Render("OFF"))
	} else {
		roleStyle := s.theme.RoleStyle(string(s.Role))
		marker := GetRoleIcon(s.Role)
		if s.NotifierOn {
			marker += "~"
		}
		sections = append(sections, roleStyle.Render(marker))
	}

	// Session clock as a small bar.
	sections = append(sections, s.renderSessionBarSmall())

	// Status icon only.
	statusStyle := s.getStatusStyle()
	sections = append(sections, statusStyle.Render(s.Status.Icon()))

	bar := "[" + strings.Join(sections, "|") + "]"

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(s.Width).
		Render(bar)
}

// viewMedium renders a compact bar for medium terminals (60-100 cols).
func (s *StatusBar) viewMedium() string {
	var parts []string

	// RELIABILITY: the offline badge leads everything else because every
	// mutation will fail until the backend is reachable again.
	if s.Conn == ConnOffline {
		offlineStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF0000")).
			Bold(true).
			Padding(0, 1)
		parts = append(parts, offlineStyle.Render("OFFLINE"))
	}

	// Role badge.
	roleStyle := s.theme.RoleStyle(string(s.Role))
	parts = append(parts, roleStyle.Render(strings.ToUpper(string(s.Role))))

	// Identity (truncated).
	identity := s.identity()
	if len(identity) > 15 {
		identity = identity[:12] + "..."
	}
	identityStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	parts = append(parts, identityStyle.Render(identity))

	// Pending work, if any.
	if s.PendingCount > 0 {
		pendingStyle := lipgloss.NewStyle().
			Foreground(styles.WarningHighContrast).
			Bold(true)
		parts = append(parts, pendingStyle.Render(formatNumber(s.PendingCount)+" pending"))
	}

	// Session clock.
	parts = append(parts, s.renderSessionBar())

	// Status.
	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.String()))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(s.Width).
		Padding(0, 1).
		Render(strings.Join(parts, separator))
}

// viewWide renders the full bar for wide terminals (>100 cols).
func (s *StatusBar) viewWide() string {
	// Left section: connection, identity, role, pending work, notifier.
	var leftParts []string

	if s.Conn == ConnOffline {
		offlineStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF0000")).
			Bold(true).
			Padding(0, 1)
		leftParts = append(leftParts, offlineStyle.Render("OFFLINE"))
	} else {
		connStyle := s.getConnStyle()
		leftParts = append(leftParts, connStyle.Render(s.connIndicator()+" "+s.Conn.String()))
	}

	identityStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	leftParts = append(leftParts, identityStyle.Render(s.identity()))

	roleStyle := s.theme.RoleStyle(string(s.Role))
	roleBadge := GetRoleIcon(s.Role) + " " + strings.ToUpper(string(s.Role))
	leftParts = append(leftParts, roleStyle.Render(roleBadge))

	if s.PendingCount > 0 {
		pendingStyle := lipgloss.NewStyle().
			Foreground(styles.WarningHighContrast).
			Bold(true)
		leftParts = append(leftParts,
			pendingStyle.Render(styles.StatusIndicators.Pending+" "+formatNumber(s.PendingCount)+" awaiting action"))
	}

	if s.NotifierOn {
		notifierStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		leftParts = append(leftParts, notifierStyle.Render("~ notify"))
	} else {
		notifierStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		leftParts = append(leftParts, notifierStyle.Render("notify off"))
	}

	left := strings.Join(leftParts, "  ")

	// Center section: session clock.
	center := s.renderSessionBar() + " " + s.renderSessionRemaining()

	// Right section: status and shortcuts.
	statusStyle := s.getStatusStyle()
	right := statusStyle.Render(s.Status.Icon() + " " + s.Status.String())

	if s.ShowShortcuts {
		shortcuts := s.renderShortcuts()
		right += "  " + shortcuts
	}

	// Calculate spacing.
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)
	totalContent := leftWidth + centerWidth + rightWidth

	spacing := s.Width - totalContent - 4
	if spacing < 4 {
		spacing = 4
	}
	leftSpace := spacing / 2
	rightSpace := spacing - leftSpace

	bar := left +
		strings.Repeat(" ", leftSpace) +
		center +
		strings.Repeat(" ", rightSpace) +
		right

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(s.Width).
		Padding(0, 2).
		Border(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderForeground(styles.Overlay).
		Render(bar)
}

// sessionElapsedPercent returns how much of the idle budget has been used.
func (s *StatusBar) sessionElapsedPercent() float64 {
	if s.SessionTimeout <= 0 {
		return 0
	}
	elapsed := s.SessionTimeout - s.SessionRemaining
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > s.SessionTimeout {
		elapsed = s.SessionTimeout
	}
	return float64(elapsed) / float64(s.SessionTimeout) * 100
}

// sessionBarColor picks the bar color from idle-budget usage. The bar fills
// toward expiry, so a mostly-full bar means sign-out is close.
func (s *StatusBar) sessionBarColor() lipgloss.AdaptiveColor {
	percent := s.sessionElapsedPercent()
	switch {
	case percent >= 90:
		return styles.Rose
	case percent >= 75:
		return styles.Amber
	case percent >= 50:
		return styles.Emerald
	default:
		return styles.Cyan
	}
}

// renderSessionBar renders the idle-session clock as a 10-block bar.
func (s *StatusBar) renderSessionBar() string {
	percent := s.sessionElapsedPercent()

	barWidth := 10
	filled := int(percent / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	barStyle := lipgloss.NewStyle().Foreground(s.sessionBarColor())
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	return labelStyle.Render("Session: ") + barStyle.Render("["+bar+"]")
}

// renderSessionBarSmall renders a 6-block session bar for narrow mode.
func (s *StatusBar) renderSessionBarSmall() string {
	percent := s.sessionElapsedPercent()

	barWidth := 6
	filled := int(percent / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	barStyle := lipgloss.NewStyle().Foreground(s.sessionBarColor())
	return barStyle.Render(bar)
}

// renderSessionRemaining renders the time left before automatic sign-out.
func (s *StatusBar) renderSessionRemaining() string {
	style := s.theme.SessionClock
	if s.sessionElapsedPercent() >= 75 {
		style = s.theme.SessionExpiring
	}
	return style.Render(formatTimeRemaining(s.SessionRemaining) + " left")
}

// renderShortcuts renders keyboard shortcuts.
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("/") + descStyle.Render(" search"),
		keyStyle.Render("n") + descStyle.Render(" new"),
		keyStyle.Render("^C") + descStyle.Render(" quit"),
	}

	return strings.Join(shortcuts, " ")
}

// connIndicator returns the ASCII indicator for the connection state.
func (s *StatusBar) connIndicator() string {
	switch s.Conn {
	case ConnOnline:
		return styles.ConnIndicators.Connected
	case ConnChecking:
		return styles.ConnIndicators.Checking
	case ConnOffline:
		return styles.ConnIndicators.Offline
	default:
		return styles.ConnIndicators.Checking
	}
}

// getConnStyle returns the style for the connection state.
func (s *StatusBar) getConnStyle() lipgloss.Style {
	switch s.Conn {
	case ConnOnline:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case ConnChecking:
		return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	case ConnOffline:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// getStatusStyle returns the style for the current activity.
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast)
	case StatusFetching, StatusSyncing:
		return lipgloss.NewStyle().Foreground(styles.InfoHighContrast)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case StatusIdle:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextPrimary)
	}
}

// formatNumber formats a count with thousand separators.
func formatNumber(n int) string {
	return fmtNumber(n)
}

// formatPercent formats a float as a percentage string.
func formatPercent(f float64) string {
	return fmtPercent(f)
}
