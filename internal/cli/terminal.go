// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal capability detection.
//
// USABILITY: tripdesk runs in interactive terminals, CI jobs, and shell
// pipelines. Detect what the environment supports instead of assuming.
package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is connected to a terminal.
// Prompts and password reads require this.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is connected to a terminal.
// False when output is piped or redirected.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStderrTTY returns true if stderr is connected to a terminal.
func IsStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// CanPrompt returns true if we can interactively prompt the user.
// Requires stdin to be a TTY.
func CanPrompt() bool {
	return IsTTY()
}

// =============================================================================
// TERMINAL DIMENSIONS
// =============================================================================

// GetTerminalWidth returns the terminal width in columns.
// Returns 80 as a sensible default when detection fails.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// GetTerminalSize returns the terminal dimensions (width, height).
// Returns 80x24 as a default when detection fails.
func GetTerminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

// WrapText wraps text to the given width, breaking on word boundaries.
// Words longer than the width are left intact on their own line.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(wrapLine(line, width))
	}
	return result.String()
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range words {
		wordLen := len(word)
		if i > 0 {
			if lineLen+1+wordLen > width {
				result.WriteString("\n")
				lineLen = 0
			} else {
				result.WriteString(" ")
				lineLen++
			}
		}
		result.WriteString(word)
		lineLen += wordLen
	}
	return result.String()
}

// =============================================================================
// COLOR SUPPORT
// =============================================================================

var (
	colorsOnce    sync.Once
	colorsEnabled bool
)

// ColorsEnabled reports whether colored output should be produced.
//
// Honors the NO_COLOR convention (https://no-color.org) and FORCE_COLOR,
// and disables colors when stdout is not a terminal.
func ColorsEnabled() bool {
	colorsOnce.Do(func() {
		colorsEnabled = detectColors()
	})
	return colorsEnabled
}

func detectColors() bool {
	// NO_COLOR takes precedence (any non-empty value disables)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// FORCE_COLOR enables even when piped
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// TERM=dumb means no escape sequence support
	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return IsStdoutTTY()
}

// ForceColorsEnabled overrides detection (for tests).
func ForceColorsEnabled(enabled bool) {
	colorsOnce.Do(func() {})
	colorsEnabled = enabled
}

// GetColorProfile returns the termenv color profile to render with.
// Ascii when colors are disabled, otherwise whatever the terminal
// advertises.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// TTY REQUIREMENTS
// =============================================================================

// TTYRequiredError indicates an operation needs an interactive terminal.
type TTYRequiredError struct {
	Operation string // What needed the TTY (e.g., "password entry")
	Hint      string // Non-interactive alternative, if one exists
}

func (e *TTYRequiredError) Error() string {
	msg := fmt.Sprintf("%s requires an interactive terminal", e.Operation)
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHint: %s", e.Hint)
	}
	return msg
}

// RequiresTTY returns an error if stdin is not a terminal.
// Call before any operation that must prompt.
func RequiresTTY(operation, hint string) error {
	if IsTTY() {
		return nil
	}
	return &TTYRequiredError{Operation: operation, Hint: hint}
}

// =============================================================================
// CAPABILITY SUMMARY
// =============================================================================

// TerminalCapabilities describes what the current environment supports.
type TerminalCapabilities struct {
	StdinTTY  bool   `json:"stdin_tty"`
	StdoutTTY bool   `json:"stdout_tty"`
	StderrTTY bool   `json:"stderr_tty"`
	Colors    bool   `json:"colors"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Term      string `json:"term"`
}

// DetectTerminalCapabilities probes the current terminal.
func DetectTerminalCapabilities() TerminalCapabilities {
	width, height := GetTerminalSize()
	return TerminalCapabilities{
		StdinTTY:  IsTTY(),
		StdoutTTY: IsStdoutTTY(),
		StderrTTY: IsStderrTTY(),
		Colors:    ColorsEnabled(),
		Width:     width,
		Height:    height,
		Term:      os.Getenv("TERM"),
	}
}
