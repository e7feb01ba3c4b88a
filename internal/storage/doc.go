// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for tripdesk.
//
// This package handles two kinds of local state: request drafts saved as
// JSON files, and the offline lookup cache (departments, projects, users)
// kept in SQLite.
//
// # Key Types
//
//   - DraftStore: Saves and loads in-progress travel requests
//   - DraftMeta: Lightweight metadata for draft listings
//   - LookupCache: SQLite-backed reference data for offline pickers
//
// # Usage
//
// Save and reload a draft:
//
//	store, err := storage.NewDraftStore()
//	id, err := store.Save(draft)
//	draft, err := store.Load(id)
//
// Refresh and query the lookup cache:
//
//	cache, err := storage.OpenDefaultLookupCache()
//	err = cache.ReplaceDepartments(ctx, deps)
//	deps, err := cache.Departments(ctx)
//
// # Storage Location
//
// Drafts are stored in ~/.tripdesk/drafts/ as JSON files; the lookup
// cache lives at ~/.tripdesk/lookups.db. Both are owner-only (0700/0600).
package storage
