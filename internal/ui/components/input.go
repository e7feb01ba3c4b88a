// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/ui/styles"
)

// =============================================================================
// FORM FIELD COMPONENT - Labeled text input with inline validation
// =============================================================================

// FormField is one labeled input on the new-request and sign-in forms:
// a text input, a label, an optional format hint, and an inline
// validation message that appears under the box without stealing focus.
type FormField struct {
	input       textinput.Model
	label       string
	required    bool
	errText     string // current inline validation message, empty when valid
	hint        string // format hint shown while there is no error
	width       int
	focused     bool
	showCounter bool // character counter, only useful on free-text fields
	maxChars    int
	theme       *styles.Theme
}

// NewFormField creates a labeled single-line field.
func NewFormField(theme *styles.Theme, label string) *FormField {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40
	ti.Prompt = "> "

	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	ti.TextStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ti.Cursor.Style = lipgloss.NewStyle().
		Foreground(styles.Cyan)

	return &FormField{
		input:    ti,
		label:    label,
		width:    60,
		maxChars: 128,
		theme:    theme,
	}
}

// NewPasswordField creates a masked field for the sign-in form.
// SECURITY: the value is never echoed; paste still works.
func NewPasswordField(theme *styles.Theme, label string) *FormField {
	f := NewFormField(theme, label)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '*'
	return f
}

// NewDateField creates a field for YYYY-MM-DD dates.
func NewDateField(theme *styles.Theme, label string) *FormField {
	f := NewFormField(theme, label)
	f.input.CharLimit = 10
	f.input.Width = 12
	f.input.Placeholder = "YYYY-MM-DD"
	f.hint = "format: YYYY-MM-DD"
	f.maxChars = 10
	return f
}

// NewAmountField creates a field for positive money amounts.
func NewAmountField(theme *styles.Theme, label string) *FormField {
	f := NewFormField(theme, label)
	f.input.CharLimit = 12
	f.input.Width = 14
	f.input.Placeholder = "0.00"
	f.hint = "estimated cost, e.g. 1250.00"
	f.maxChars = 12
	return f
}

// Focus focuses the field.
func (f *FormField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

// Blur removes focus from the field.
func (f *FormField) Blur() {
	f.focused = false
	f.input.Blur()
}

// Focused returns whether the field is focused.
func (f *FormField) Focused() bool {
	return f.focused
}

// Label returns the field label.
func (f *FormField) Label() string {
	return f.label
}

// SetWidth sets the field width.
func (f *FormField) SetWidth(width int) {
	f.width = width
	inputWidth := width - 10
	if inputWidth < 12 {
		inputWidth = 12
	}
	f.input.Width = inputWidth
}

// SetPlaceholder sets the placeholder text.
func (f *FormField) SetPlaceholder(placeholder string) {
	f.input.Placeholder = placeholder
}

// SetRequired marks the field as required; the label gains a marker.
func (f *FormField) SetRequired(required bool) {
	f.required = required
}

// SetHint sets the format hint shown when the field has no error.
func (f *FormField) SetHint(hint string) {
	f.hint = hint
}

// SetMaxChars sets the character limit and enables the counter.
func (f *FormField) SetMaxChars(max int) {
	f.maxChars = max
	f.input.CharLimit = max
	f.showCounter = true
}

// SetError sets the inline validation message.
func (f *FormField) SetError(msg string) {
	f.errText = msg
}

// ClearError removes the inline validation message.
func (f *FormField) ClearError() {
	f.errText = ""
}

// HasError reports whether an inline validation message is showing.
func (f *FormField) HasError() bool {
	return f.errText != ""
}

// Value returns the current input value.
func (f *FormField) Value() string {
	return f.input.Value()
}

// SetValue sets the input value.
func (f *FormField) SetValue(value string) {
	f.input.SetValue(value)
}

// Reset clears the input and any error.
func (f *FormField) Reset() {
	f.input.Reset()
	f.errText = ""
}

// Update handles input updates. Typing clears a stale error so the user
// is not shouted at while fixing the value.
func (f *FormField) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if _, isKey := msg.(tea.KeyMsg); isKey && f.errText != "" {
		f.errText = ""
	}
	return cmd
}

// View renders the label, the boxed input, and the error or hint line.
func (f *FormField) View() string {
	labelStyle := f.theme.FormLabel
	if f.focused {
		labelStyle = f.theme.FormLabelFocused
	}
	label := f.label
	if f.required {
		label += " *"
	}
	labelLine := labelStyle.Render(label)

	borderColor := styles.Overlay
	if f.focused {
		borderColor = styles.FocusRing
	}
	if f.errText != "" {
		borderColor = styles.ErrorHighContrast
	}

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(f.width - 2)

	inputBox := boxStyle.Render(f.input.View())

	parts := []string{labelLine, inputBox}

	switch {
	case f.errText != "":
		parts = append(parts, f.theme.FormError.Render(InlineError(f.errText)))
	case f.showCounter:
		parts = append(parts, f.renderCharCounter())
	case f.hint != "":
		parts = append(parts, f.theme.FormHelp.Render(f.hint))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderCharCounter renders the character counter line for free-text
// fields, flagging values close to the limit.
func (f *FormField) renderCharCounter() string {
	count := len([]rune(f.input.Value()))
	text := formatNumber(count) + " / " + formatNumber(f.maxChars) + " chars"

	if f.maxChars > 0 {
		percent := float64(count) / float64(f.maxChars) * 100
		switch {
		case percent >= 90:
			return f.theme.FormError.Render(text + " [!]")
		case percent >= 75:
			return f.theme.WarningStyle.Render(text)
		}
	}
	return f.theme.FormHelp.Render(text)
}
