// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

func openTestCache(t *testing.T) *LookupCache {
	t.Helper()
	cache, err := OpenLookupCache(filepath.Join(t.TempDir(), "lookups.db"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

// =============================================================================
// LOOKUP CACHE TESTS
// =============================================================================

func TestOpenLookupCache(t *testing.T) {
	cache := openTestCache(t)

	// Fresh cache is empty and never synced
	counts, err := cache.Counts()
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Departments != 0 || counts.Projects != 0 || counts.Users != 0 {
		t.Errorf("Fresh cache should be empty, got %+v", counts)
	}

	synced, err := cache.LastSynced()
	if err != nil {
		t.Fatalf("LastSynced failed: %v", err)
	}
	if !synced.IsZero() {
		t.Errorf("Fresh cache should report zero sync time, got %v", synced)
	}
}

func TestLookupCache_ReplaceAndQueryDepartments(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	deps := []model.Department{
		{ID: 2, Name: "Sales", CostCode: "SL-200", ManagerID: 7, Budget: 50000},
		{ID: 1, Name: "Engineering", CostCode: "EN-100", ManagerID: 4, Budget: 120000},
	}

	if err := cache.ReplaceDepartments(ctx, deps); err != nil {
		t.Fatalf("ReplaceDepartments failed: %v", err)
	}

	got, err := cache.Departments(ctx)
	if err != nil {
		t.Fatalf("Departments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 departments, got %d", len(got))
	}

	// Ordered by name
	if got[0].Name != "Engineering" || got[1].Name != "Sales" {
		t.Errorf("Departments should be ordered by name, got %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].CostCode != "EN-100" {
		t.Errorf("CostCode = %q, want %q", got[0].CostCode, "EN-100")
	}
	if got[0].Budget != 120000 {
		t.Errorf("Budget = %v, want 120000", got[0].Budget)
	}
}

func TestLookupCache_ReplaceAndQueryProjects(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	ends := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	projects := []model.Project{
		{ID: 1, Name: "Apollo", Code: "AP-1", DepartmentID: 1, Active: true, EndsAt: ends},
		{ID: 2, Name: "Borealis", Code: "BO-2", DepartmentID: 2, Active: false},
	}

	if err := cache.ReplaceProjects(ctx, projects); err != nil {
		t.Fatalf("ReplaceProjects failed: %v", err)
	}

	got, err := cache.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(got))
	}

	if !got[0].Active {
		t.Error("Apollo should be active")
	}
	if got[1].Active {
		t.Error("Borealis should be inactive")
	}
	if !got[0].EndsAt.Equal(ends) {
		t.Errorf("EndsAt = %v, want %v", got[0].EndsAt, ends)
	}
	if !got[1].EndsAt.IsZero() {
		t.Errorf("Projects without an end date should round-trip as zero, got %v", got[1].EndsAt)
	}
}

func TestLookupCache_ReplaceAndQueryUsers(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	users := []model.User{
		{ID: 5, Email: "pat@example.com", FirstName: "Pat", LastName: "Zimmer", Role: model.RoleManager, DepartmentID: 1, Active: true},
		{ID: 3, Email: "alex@example.com", FirstName: "Alex", LastName: "Abbot", Role: model.RoleEmployee, DepartmentID: 1, Active: true},
	}

	if err := cache.ReplaceUsers(ctx, users); err != nil {
		t.Fatalf("ReplaceUsers failed: %v", err)
	}

	got, err := cache.Users(ctx)
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(got))
	}

	// Ordered by last name
	if got[0].LastName != "Abbot" {
		t.Errorf("Users should be ordered by last name, got %q first", got[0].LastName)
	}
	if got[1].Role != model.RoleManager {
		t.Errorf("Role = %q, want %q", got[1].Role, model.RoleManager)
	}
}

func TestLookupCache_ReplaceIsWholesale(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	first := []model.Department{
		{ID: 1, Name: "Engineering"},
		{ID: 2, Name: "Sales"},
		{ID: 3, Name: "Legal"},
	}
	if err := cache.ReplaceDepartments(ctx, first); err != nil {
		t.Fatalf("ReplaceDepartments failed: %v", err)
	}

	// Second sync drops Legal entirely
	second := []model.Department{
		{ID: 1, Name: "Engineering"},
		{ID: 2, Name: "Sales"},
	}
	if err := cache.ReplaceDepartments(ctx, second); err != nil {
		t.Fatalf("ReplaceDepartments failed: %v", err)
	}

	got, err := cache.Departments(ctx)
	if err != nil {
		t.Fatalf("Departments failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Replace should drop absent rows, got %d departments", len(got))
	}
	for _, d := range got {
		if d.Name == "Legal" {
			t.Error("Legal should have been dropped by replace")
		}
	}
}

func TestLookupCache_LastSyncedAndStale(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	// Never synced: always stale
	if !cache.Stale(24 * time.Hour) {
		t.Error("Never-synced cache should be stale")
	}

	if err := cache.ReplaceDepartments(ctx, []model.Department{{ID: 1, Name: "Engineering"}}); err != nil {
		t.Fatalf("ReplaceDepartments failed: %v", err)
	}

	synced, err := cache.LastSynced()
	if err != nil {
		t.Fatalf("LastSynced failed: %v", err)
	}
	if synced.IsZero() {
		t.Fatal("LastSynced should be set after a replace")
	}
	if time.Since(synced) > time.Minute {
		t.Errorf("LastSynced should be recent, got %v", synced)
	}

	if cache.Stale(24 * time.Hour) {
		t.Error("Just-synced cache should not be stale within 24h")
	}
	if !cache.Stale(0) {
		t.Error("Cache should be stale with a zero max age")
	}
}

func TestLookupCache_Counts(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	cache.ReplaceDepartments(ctx, []model.Department{{ID: 1, Name: "Engineering"}})
	cache.ReplaceProjects(ctx, []model.Project{
		{ID: 1, Name: "Apollo", Active: true},
		{ID: 2, Name: "Borealis", Active: true},
	})
	cache.ReplaceUsers(ctx, []model.User{
		{ID: 1, Email: "a@example.com", Role: model.RoleEmployee, Active: true},
		{ID: 2, Email: "b@example.com", Role: model.RoleEmployee, Active: true},
		{ID: 3, Email: "c@example.com", Role: model.RoleManager, Active: true},
	})

	counts, err := cache.Counts()
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Departments != 1 || counts.Projects != 2 || counts.Users != 3 {
		t.Errorf("Counts = %+v, want {1 2 3}", counts)
	}
}

func TestLookupCache_ClosedErrors(t *testing.T) {
	cache, err := OpenLookupCache(filepath.Join(t.TempDir(), "lookups.db"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Double close is fine
	if err := cache.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}

	ctx := context.Background()
	if _, err := cache.Departments(ctx); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Expected ErrCacheClosed, got %v", err)
	}
	if err := cache.ReplaceUsers(ctx, nil); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Expected ErrCacheClosed, got %v", err)
	}
}

func TestLookupCache_ReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.db")
	ctx := context.Background()

	cache, err := OpenLookupCache(path)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	if err := cache.ReplaceDepartments(ctx, []model.Department{{ID: 1, Name: "Engineering"}}); err != nil {
		t.Fatalf("ReplaceDepartments failed: %v", err)
	}
	cache.Close()

	// Reopen and verify the data survived
	cache, err = OpenLookupCache(path)
	if err != nil {
		t.Fatalf("Failed to reopen cache: %v", err)
	}
	defer cache.Close()

	got, err := cache.Departments(ctx)
	if err != nil {
		t.Fatalf("Departments failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Engineering" {
		t.Errorf("Data should survive reopen, got %+v", got)
	}

	synced, _ := cache.LastSynced()
	if synced.IsZero() {
		t.Error("Sync timestamp should survive reopen")
	}
}
