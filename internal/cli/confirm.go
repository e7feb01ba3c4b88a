// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation prompts for destructive operations.
//
// USABILITY: Destructive commands (draft delete/clear, request cancel)
// prompt before acting. Scripts bypass the prompt with --confirm; JSON
// mode and piped stdin require it so automation never hangs on a
// prompt nobody will answer.
package cli

import (
	"fmt"
	"strings"
)

// ConfirmationOptions controls confirmation behavior.
type ConfirmationOptions struct {
	// ConfirmFlag is true when the user passed --confirm
	ConfirmFlag bool
	// JSONMode is true when outputting JSON (no interactive prompts)
	JSONMode bool
}

// RequireConfirmation ensures the user has confirmed a destructive
// action, prompting interactively when possible.
func RequireConfirmation(action string, opts ConfirmationOptions) error {
	return RequireConfirmationWithDetails(action, nil, opts)
}

// RequireConfirmationWithDetails shows what will be affected before
// asking. Details render as an indented list above the prompt.
func RequireConfirmationWithDetails(action string, details []string, opts ConfirmationOptions) error {
	// --confirm skips the prompt entirely
	if opts.ConfirmFlag {
		return nil
	}

	// JSON mode cannot prompt
	if opts.JSONMode {
		return NewValidationErrorWithExample(
			"confirmation",
			"",
			fmt.Sprintf("%s requires --confirm in JSON mode", action),
			"add --confirm to proceed",
		)
	}

	// Piped stdin cannot prompt
	if !CanPrompt() {
		return NewValidationErrorWithExample(
			"confirmation",
			"",
			fmt.Sprintf("%s requires --confirm when stdin is not a terminal", action),
			"add --confirm to proceed",
		)
	}

	fmt.Println()
	fmt.Printf("%s %s\n", WarningStyle.Render("[WARNING]"), action)
	for _, detail := range details {
		fmt.Printf("  %s\n", DimStyle.Render(detail))
	}
	fmt.Println()

	answer, err := promptInput("Proceed? [y/N]: ")
	if err != nil {
		return WrapError(err, "could not read confirmation")
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return fmt.Errorf("cancelled")
	}
}
