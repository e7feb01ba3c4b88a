// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// policy_cmd.go - Travel policy viewer (markdown via glamour).
package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/tripdesk-tui/internal/api"
)

// markdownRenderer is the shared glamour renderer for policy output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, returning the
// original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// bundledPolicy ships with the client so the policy is readable offline
// and before first login. The server copy wins whenever it is reachable.
const bundledPolicy = `# Company Travel Policy

## Before You Travel

- Every trip needs an approved travel request **before** anything is booked.
- Submit requests at least **14 days** before departure; shorter notice
  requires a written justification in the purpose field.
- Estimate costs honestly: transport, lodging, and per-diems. Requests
  with estimates more than 20% under the final cost are flagged.

## Approval

- Your department manager approves or rejects requests.
- Rejected requests may be resubmitted after addressing the decision note.
- Approved requests are booked by the travel desk, not by travelers.

## Booking and Changes

- The travel desk records the ticket reference and final cost.
- Itinerary changes after booking go through the travel desk; do not
  rebook flights yourself.
- Cancel trips you will not take so budget can be released.

## Expenses

- Keep receipts for everything above petty-cash limits.
- File expense reports within 10 business days of return.

*Questions go to the travel desk.*
`

// HandlePolicy shows the travel policy: the server document when
// reachable, the bundled copy otherwise. Deliberately not gated by the
// app lock or a login; policy text is not sensitive.
func HandlePolicy(args Args) error {
	gw, store, cfg, err := newClient(&args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, "policy", func() (interface{}, error) {
		var doc *api.PolicyDoc
		source := "server"

		if store.LoggedIn() && !store.TokenExpired() {
			doc, err = gw.Policy(ctx)
			if err != nil {
				doc = nil
			}
		}
		if doc == nil || doc.Content == "" {
			doc = &api.PolicyDoc{Title: "Company Travel Policy", Content: bundledPolicy}
			source = "bundled"
		}

		data := map[string]interface{}{
			"title":   doc.Title,
			"content": doc.Content,
			"source":  source,
		}
		if !doc.UpdatedAt.IsZero() {
			data["updated_at"] = doc.UpdatedAt.UTC().Format(time.RFC3339)
		}

		if !args.JSON {
			// Markdown rendering only on a TTY; piped output gets the raw
			// document so it stays greppable.
			if IsStdoutTTY() {
				fmt.Print(renderMarkdown(doc.Content))
			} else {
				fmt.Print(doc.Content)
			}

			if source == "bundled" {
				StderrPrintln(DimStyle.Render(
					"(showing the bundled copy; sign in with a reachable backend for the current version)"))
			} else if !doc.UpdatedAt.IsZero() {
				StderrPrintln(DimStyle.Render(
					fmt.Sprintf("(server copy, updated %s)", formatTimestamp(doc.UpdatedAt))))
			}
		}

		return data, nil
	})
}
