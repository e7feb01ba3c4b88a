// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the tripdesk TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// REQUEST TABLE STYLES
	// ==========================================================================

	TableHeader       lipgloss.Style
	TableHeaderSorted lipgloss.Style
	TableRow          lipgloss.Style
	TableRowSelected  lipgloss.Style
	TableCellMuted    lipgloss.Style
	TableFooter       lipgloss.Style
	TableEmpty        lipgloss.Style

	// ==========================================================================
	// SEARCH BAR STYLES
	// ==========================================================================

	SearchContainer   lipgloss.Style
	SearchPrompt      lipgloss.Style
	SearchText        lipgloss.Style
	SearchPlaceholder lipgloss.Style
	SearchCount       lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox          lipgloss.Style
	FormLabel        lipgloss.Style
	FormLabelFocused lipgloss.Style
	FormError        lipgloss.Style
	FormHelp         lipgloss.Style
	FormButton       lipgloss.Style
	FormButtonActive lipgloss.Style

	// ==========================================================================
	// DETAIL VIEW STYLES
	// ==========================================================================

	DetailBox     lipgloss.Style
	DetailLabel   lipgloss.Style
	DetailValue   lipgloss.Style
	DetailSection lipgloss.Style
	DecisionNote  lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar       lipgloss.Style
	StatusBarWide   lipgloss.Style
	RoleEmployee    lipgloss.Style
	RoleManager     lipgloss.Style
	RoleTravel      lipgloss.Style
	RoleAdmin       lipgloss.Style
	ConnOnline      lipgloss.Style
	ConnOffline     lipgloss.Style
	SessionClock    lipgloss.Style
	SessionExpiring lipgloss.Style
	ShortcutKey     lipgloss.Style
	ShortcutDesc    lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style

	// ==========================================================================
	// SESSION TIMEOUT OVERLAY STYLES
	// ==========================================================================

	TimeoutBox       lipgloss.Style
	TimeoutTitle     lipgloss.Style
	TimeoutCountdown lipgloss.Style
	TimeoutHint      lipgloss.Style

	// ==========================================================================
	// LOGIN SCREEN STYLES
	// ==========================================================================

	LoginBox   lipgloss.Style
	LoginTitle lipgloss.Style
	LoginLabel lipgloss.Style
	LoginHint  lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner       lipgloss.Style
	LoadingText   lipgloss.Style
	LoadingDetail lipgloss.Style

	// ==========================================================================
	// CODE BLOCK STYLES (raw payload inspector)
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox        lipgloss.Style
	ErrorTitle      lipgloss.Style
	ErrorMessage    lipgloss.Style
	ErrorSuggestion lipgloss.Style
	ErrorTip        lipgloss.Style

	// ==========================================================================
	// POLICY VIEWER STYLES
	// ==========================================================================

	PolicyViewport lipgloss.Style
	PolicyTitle    lipgloss.Style
	PolicyMeta     lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	// SuccessStyle - Used for success states with checkmark indicator
	SuccessStyle lipgloss.Style
	// ErrorStyle - Used for error states with X mark indicator
	ErrorStyle lipgloss.Style
	// WarningStyle - Used for warning states with warning triangle indicator
	WarningStyle lipgloss.Style
	// InfoStyle - Used for info states with info circle indicator
	InfoStyle lipgloss.Style
	// LinkStyle - Used for links with underline for visual distinction
	LinkStyle lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Request table
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.TableHeaderSorted = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.TableRowSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.TableCellMuted = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TableFooter = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.TableEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Align(lipgloss.Center).
		Padding(2, 0)

	// Search bar
	t.SearchContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SearchPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.SearchText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SearchPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SearchCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right)

	// Form
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormLabelFocused = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose).
		PaddingLeft(2)

	t.FormHelp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.FormButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2).
		MarginRight(1)

	t.FormButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	// Detail view
	t.DetailBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.DetailLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(16)

	t.DetailValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DetailSection = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		MarginTop(1)

	t.DecisionNote = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true).
		PaddingLeft(2)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusBarWide = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.RoleEmployee = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.RoleManager = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.RoleTravel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.RoleAdmin = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.ConnOnline = lipgloss.NewStyle().
		Foreground(Emerald)

	t.ConnOffline = lipgloss.NewStyle().
		Foreground(Rose)

	t.SessionClock = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SessionExpiring = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Toasts
	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(StatusApprovedFg).
		Background(EmeraldDeep).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Padding(0, 2)

	t.ToastError = lipgloss.NewStyle().
		Foreground(StatusRejectedFg).
		Background(RoseDeep).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 2)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 2)

	// Session timeout overlay
	t.TimeoutBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Background(Surface).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.TimeoutTitle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.TimeoutCountdown = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.TimeoutHint = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Login screen
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.LoginTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.LoginLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LoginHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LoadingDetail = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	// Error boxes
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(RoseDeep).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ErrorSuggestion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(2)

	t.ErrorTip = lipgloss.NewStyle().
		Foreground(Cyan).
		Italic(true)

	// Policy viewer
	t.PolicyViewport = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PolicyTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.PolicyMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	// SuccessStyle - High contrast green with bold for colorblind accessibility
	// ACCESSIBILITY: Use with StatusIndicators.Success symbol
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	// ErrorStyle - High contrast red with bold for colorblind accessibility
	// ACCESSIBILITY: Use with StatusIndicators.Error symbol
	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	// WarningStyle - High contrast amber with bold for colorblind accessibility
	// ACCESSIBILITY: Use with StatusIndicators.Warning symbol
	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	// InfoStyle - High contrast blue with bold for colorblind accessibility
	// ACCESSIBILITY: Use with StatusIndicators.Info symbol
	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)

	// LinkStyle - Blue with underline for visual distinction beyond color
	// ACCESSIBILITY: Underline provides non-color visual cue for links
	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// StatusBadge returns a ready-to-render badge style for a workflow status.
func (t *Theme) StatusBadge(status string) lipgloss.Style {
	fg, bg := StatusColors(status)
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1)
}

// RenderStatusBadge renders an uppercased status badge like " PENDING ".
func (t *Theme) RenderStatusBadge(status string) string {
	return t.StatusBadge(status).Render(strings.ToUpper(status))
}

// RoleStyle returns the status bar style for a user role.
// Unknown roles render like an employee.
func (t *Theme) RoleStyle(role string) lipgloss.Style {
	switch role {
	case "manager":
		return t.RoleManager
	case "traveladmin":
		return t.RoleTravel
	case "administrator":
		return t.RoleAdmin
	default:
		return t.RoleEmployee
	}
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
