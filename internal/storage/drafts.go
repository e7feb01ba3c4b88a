// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for tripdesk: request drafts
// and the offline lookup cache.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/util"
)

// =============================================================================
// DRAFT METADATA
// =============================================================================

// DraftMeta contains metadata for listing drafts without loading them fully.
type DraftMeta struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// =============================================================================
// DRAFT STORE
// =============================================================================

// DraftStore handles draft persistence.
//
// Drafts are in-progress travel requests that have not been submitted;
// they only ever leave the machine through an explicit submit.
type DraftStore struct {
	// BaseDir is the directory for storing drafts
	// Default: ~/.tripdesk/drafts/
	BaseDir string

	// MaxDrafts limits stored drafts (0 = unlimited)
	MaxDrafts int
}

// NewDraftStore creates a draft store under ~/.tripdesk/drafts.
func NewDraftStore() (*DraftStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewDraftStoreWithDir(filepath.Join(homeDir, ".tripdesk", "drafts"))
}

// NewDraftStoreWithDir creates a store with a custom directory.
func NewDraftStoreWithDir(baseDir string) (*DraftStore, error) {
	// SECURITY: Drafts hold travel itineraries; keep them owner-only.
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}

	return &DraftStore{
		BaseDir:   baseDir,
		MaxDrafts: 50,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a draft and returns its ID.
func (s *DraftStore) Save(d *model.Draft) (string, error) {
	// Stamp times; callers mostly go through model.NewDraft but Save
	// tolerates hand-built drafts.
	d.UpdatedAt = time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = d.UpdatedAt
	}
	if d.ID == "" {
		fresh := model.NewDraft()
		d.ID = fresh.ID
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	filePath := s.filePath(d.ID)
	if err := util.AtomicWriteFile(filePath, data, 0600); err != nil {
		return "", err
	}

	// Enforce max drafts limit
	if s.MaxDrafts > 0 {
		s.enforceLimit()
	}

	return d.ID, nil
}

// enforceLimit removes the oldest drafts if over limit.
func (s *DraftStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxDrafts {
		return
	}

	// Sort by updated time (oldest first)
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	// Delete excess
	excess := len(metas) - s.MaxDrafts
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a draft by ID.
func (s *DraftStore) Load(id string) (*model.Draft, error) {
	filePath := s.filePath(id)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}

	var d model.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	return &d, nil
}

// LoadByIndex loads a draft by its index in the list (0 = most recent).
func (s *DraftStore) LoadByIndex(index int) (*model.Draft, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrDraftNotFound
	}

	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved drafts (most recent first).
func (s *DraftStore) List() ([]DraftMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DraftMeta{}, nil
		}
		return nil, err
	}

	var metas []DraftMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Extract ID from filename
		id := strings.TrimSuffix(entry.Name(), ".json")

		d, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		metas = append(metas, DraftMeta{
			ID:        d.ID,
			Summary:   d.Summary(),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}

	// Sort by updated time (most recent first)
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a draft by ID.
func (s *DraftStore) Delete(id string) error {
	filePath := s.filePath(id)

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return ErrDraftNotFound
		}
		return err
	}

	return nil
}

// Clear removes all saved drafts.
func (s *DraftStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a draft ID.
func (s *DraftStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrDraftNotFound is returned when a draft doesn't exist.
// Use errors.Is(err, ErrDraftNotFound) to check for this error.
var ErrDraftNotFound = &DraftError{Message: "draft not found"}

// DraftError represents a draft-related error.
// It implements the error interface and can be compared using errors.Is.
type DraftError struct {
	Message string
}

// Error implements the error interface.
func (e *DraftError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing draft errors.
func (e *DraftError) Is(target error) bool {
	t, ok := target.(*DraftError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
