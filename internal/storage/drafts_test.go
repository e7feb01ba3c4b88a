// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// =============================================================================
// DRAFT STORE TESTS
// =============================================================================

func TestNewDraftStoreWithDir(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewDraftStoreWithDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if store.BaseDir != tempDir {
		t.Errorf("BaseDir = %q, want %q", store.BaseDir, tempDir)
	}
	if store.MaxDrafts != 50 {
		t.Errorf("MaxDrafts = %d, want 50", store.MaxDrafts)
	}
}

func TestDraftStore_SaveAndLoad(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	draft := model.NewDraft()
	draft.Input = model.NewRequestInput{
		DepartmentID:  3,
		Origin:        "Denver",
		Destination:   "Chicago",
		DepartureDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Purpose:       "Quarterly planning",
		EstimatedCost: 850.50,
	}

	// Save
	id, err := store.Save(draft)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Error("Expected non-empty ID")
	}
	if !strings.HasPrefix(id, "draft_") {
		t.Errorf("ID should start with 'draft_', got %q", id)
	}

	// Load
	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ID != id {
		t.Errorf("Loaded ID = %q, want %q", loaded.ID, id)
	}
	if loaded.Input.Destination != "Chicago" {
		t.Errorf("Loaded Destination = %q, want %q", loaded.Input.Destination, "Chicago")
	}
	if loaded.Input.EstimatedCost != 850.50 {
		t.Errorf("Loaded EstimatedCost = %v, want 850.50", loaded.Input.EstimatedCost)
	}
}

func TestDraftStore_SaveAssignsID(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// Hand-built draft without an ID or timestamps
	draft := &model.Draft{
		Input: model.NewRequestInput{Origin: "Austin", Destination: "Boston"},
	}

	id, err := store.Save(draft)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(id, "draft_") {
		t.Errorf("Generated ID should start with 'draft_', got %q", id)
	}
	if draft.CreatedAt.IsZero() || draft.UpdatedAt.IsZero() {
		t.Error("Save should stamp CreatedAt and UpdatedAt")
	}
}

func TestDraftStore_LoadNotFound(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	_, err = store.Load("nonexistent-id")
	if !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("Expected ErrDraftNotFound, got %v", err)
	}
}

func TestDraftStore_Delete(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	draft := model.NewDraft()
	draft.Input.Origin = "Seattle"
	id, _ := store.Save(draft)

	// Delete it
	err = store.Delete(id)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Verify it's gone
	_, err = store.Load(id)
	if !errors.Is(err, ErrDraftNotFound) {
		t.Error("Draft should not exist after delete")
	}
}

func TestDraftStore_DeleteNotFound(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	err = store.Delete("nonexistent-id")
	if !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("Expected ErrDraftNotFound, got %v", err)
	}
}

func TestDraftStore_List(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// Empty list
	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("Expected empty list, got %d items", len(metas))
	}

	// Add drafts
	cities := []string{"Atlanta", "Boston", "Chicago"}
	for _, city := range cities {
		draft := model.NewDraft()
		draft.Input.Origin = "Denver"
		draft.Input.Destination = city
		store.Save(draft)
		time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	}

	// List again
	metas, err = store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 3 {
		t.Errorf("Expected 3 items, got %d", len(metas))
	}

	// Verify sorted by most recent first
	for i := 0; i < len(metas)-1; i++ {
		if metas[i].UpdatedAt.Before(metas[i+1].UpdatedAt) {
			t.Error("List should be sorted by most recent first")
		}
	}

	// Summary line should describe the route
	if !strings.Contains(metas[0].Summary, "Chicago") {
		t.Errorf("Most recent summary should mention Chicago, got %q", metas[0].Summary)
	}
}

func TestDraftStore_ListSkipsCorruptFiles(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewDraftStoreWithDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	draft := model.NewDraft()
	draft.Input.Origin = "Denver"
	store.Save(draft)

	// Drop a corrupt file alongside the real one
	corrupt := filepath.Join(tempDir, "draft_badbadbad.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("Expected corrupt file to be skipped, got %d items", len(metas))
	}
}

func TestDraftStore_LoadByIndex(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	var lastID string
	for i := 0; i < 3; i++ {
		draft := model.NewDraft()
		draft.Input.Destination = "City " + string(rune('A'+i))
		lastID, _ = store.Save(draft)
		time.Sleep(10 * time.Millisecond)
	}

	// Load by index 0 (most recent)
	loaded, err := store.LoadByIndex(0)
	if err != nil {
		t.Fatalf("LoadByIndex failed: %v", err)
	}
	if loaded.ID != lastID {
		t.Errorf("LoadByIndex(0) should return most recent draft")
	}

	// Invalid index
	_, err = store.LoadByIndex(100)
	if !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("Expected ErrDraftNotFound for invalid index, got %v", err)
	}
}

func TestDraftStore_Clear(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	for i := 0; i < 3; i++ {
		draft := model.NewDraft()
		draft.Input.Origin = "Denver"
		store.Save(draft)
	}

	// Clear all
	err = store.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	// Verify empty
	metas, _ := store.List()
	if len(metas) != 0 {
		t.Errorf("Expected empty store after Clear, got %d items", len(metas))
	}
}

func TestDraftStore_EnforceLimit(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	store.MaxDrafts = 3

	// Add more than limit
	for i := 0; i < 5; i++ {
		draft := model.NewDraft()
		draft.Input.Destination = "City " + string(rune('A'+i))
		store.Save(draft)
		time.Sleep(10 * time.Millisecond)
	}

	// Verify limit enforced
	metas, _ := store.List()
	if len(metas) > 3 {
		t.Errorf("Expected at most 3 drafts, got %d", len(metas))
	}

	// The survivors should be the most recent ones
	for _, m := range metas {
		if strings.HasSuffix(m.Summary, "City A") || strings.HasSuffix(m.Summary, "City B") {
			t.Errorf("Oldest drafts should have been evicted, found %q", m.Summary)
		}
	}
}

func TestDraftStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on Windows")
	}

	tempDir := t.TempDir()
	store, err := NewDraftStoreWithDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	draft := model.NewDraft()
	draft.Input.Origin = "Denver"
	id, err := store.Save(draft)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(tempDir, id+".json"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Draft file permissions = %o, want 0600", perm)
	}
}

func TestDraftStore_UnicodeContent(t *testing.T) {
	store, err := NewDraftStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	draft := model.NewDraft()
	draft.Input.Origin = "Zürich"
	draft.Input.Destination = "東京"
	draft.Input.Purpose = "Conférence annuelle"

	id, err := store.Save(draft)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Input.Destination != "東京" {
		t.Error("Unicode content should be preserved")
	}
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestDraftError_Is(t *testing.T) {
	err1 := &DraftError{Message: "test error"}
	err2 := &DraftError{Message: "test error"}
	err3 := &DraftError{Message: "different error"}

	if !errors.Is(err1, err2) {
		t.Error("Same message errors should match")
	}
	if errors.Is(err1, err3) {
		t.Error("Different message errors should not match")
	}
}
