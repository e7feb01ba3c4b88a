// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// LOCAL DRAFTS
// =============================================================================

// Draft is an in-progress travel request kept locally until submitted.
// Drafts never leave the machine except through an explicit submit.
type Draft struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Input     NewRequestInput `json:"input"`

	// Notes the wizard collects but the backend does not accept.
	LocalNote string `json:"local_note,omitempty"`
}

// NewDraft creates an empty draft with a generated ID.
func NewDraft() *Draft {
	now := time.Now()
	return &Draft{
		ID:        generateDraftID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the draft's modification time.
func (d *Draft) Touch() {
	d.UpdatedAt = time.Now()
}

// Summary returns a short one-line description for draft listings.
func (d *Draft) Summary() string {
	in := d.Input
	if in.Origin == "" && in.Destination == "" {
		return "(empty draft)"
	}
	s := in.Origin + " -> " + in.Destination
	if !in.DepartureDate.IsZero() {
		s += " on " + in.DepartureDate.Format("2006-01-02")
	}
	return s
}

// generateDraftID generates a draft ID like "draft_a1b2c3d4e5f6a7b8".
func generateDraftID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fall back to a timestamp-derived ID; uniqueness is per-machine.
		return "draft_" + hex.EncodeToString([]byte(time.Now().Format("150405.000")))[:16]
	}
	return "draft_" + hex.EncodeToString(b)
}
