// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrCacheClosed   = errors.New("lookup cache closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// LOOKUP CACHE
// =============================================================================

// LookupCache stores reference data (departments, projects, users) pulled
// from the backend so pickers and filters work offline. Each sync replaces
// the cached tables wholesale; the cache is never the source of truth.
type LookupCache struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// CacheCounts reports how many rows each lookup table holds.
type CacheCounts struct {
	Departments int
	Projects    int
	Users       int
}

// DefaultCachePath returns the default cache location (~/.tripdesk/lookups.db).
func DefaultCachePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".tripdesk", "lookups.db"), nil
}

// OpenLookupCache opens (creating if needed) the cache database at path.
func OpenLookupCache(path string) (*LookupCache, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Configure connection pool for SQLite
	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0) // No lifetime limit

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	c := &LookupCache{db: db, path: path}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return c, nil
}

// OpenDefaultLookupCache opens the cache at the default location.
func OpenDefaultLookupCache() (*LookupCache, error) {
	path, err := DefaultCachePath()
	if err != nil {
		return nil, err
	}
	return OpenLookupCache(path)
}

// initSchema creates the database schema
func (c *LookupCache) initSchema() error {
	if _, err := c.db.Exec(Schema); err != nil {
		return err
	}
	if _, err := c.db.Exec(InitMetadata); err != nil {
		return err
	}
	return nil
}

// Path returns the cache database location.
func (c *LookupCache) Path() string {
	return c.path
}

// Close closes the cache and releases resources.
func (c *LookupCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// =============================================================================
// REPLACE OPERATIONS
// =============================================================================

// ReplaceDepartments swaps the cached department table for the given set.
func (c *LookupCache) ReplaceDepartments(ctx context.Context, deps []model.Department) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrCacheClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM departments"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO departments (id, name, cost_code, manager_id, budget) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, d := range deps {
		if _, err := stmt.ExecContext(ctx, d.ID, d.Name, d.CostCode, d.ManagerID, d.Budget); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := stampSynced(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceProjects swaps the cached project table for the given set.
func (c *LookupCache) ReplaceProjects(ctx context.Context, projects []model.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrCacheClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO projects (id, name, code, department_id, active, ends_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, p := range projects {
		var endsAt int64
		if !p.EndsAt.IsZero() {
			endsAt = p.EndsAt.Unix()
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Code, p.DepartmentID, boolToInt(p.Active), endsAt); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := stampSynced(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceUsers swaps the cached user directory for the given set.
func (c *LookupCache) ReplaceUsers(ctx context.Context, users []model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrCacheClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO users (id, email, first_name, last_name, role, department_id, active) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.ID, u.Email, u.FirstName, u.LastName, string(u.Role), u.DepartmentID, boolToInt(u.Active)); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := stampSynced(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// stampSynced records the sync time inside the replace transaction so a
// failed replace never advances the timestamp.
func stampSynced(ctx context.Context, tx *sql.Tx) error {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO metadata (key, value) VALUES ('synced_at', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", now); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// QUERY OPERATIONS
// =============================================================================

// Departments returns all cached departments ordered by name.
func (c *LookupCache) Departments(ctx context.Context) ([]model.Department, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, ErrCacheClosed
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, name, cost_code, manager_id, budget FROM departments ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var deps []model.Department
	for rows.Next() {
		var d model.Department
		var costCode sql.NullString
		var managerID sql.NullInt64
		var budget sql.NullFloat64
		if err := rows.Scan(&d.ID, &d.Name, &costCode, &managerID, &budget); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		d.CostCode = costCode.String
		d.ManagerID = int(managerID.Int64)
		d.Budget = budget.Float64
		deps = append(deps, d)
	}

	return deps, rows.Err()
}

// Projects returns all cached projects ordered by name.
func (c *LookupCache) Projects(ctx context.Context) ([]model.Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, ErrCacheClosed
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, name, code, department_id, active, ends_at FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		var code sql.NullString
		var departmentID sql.NullInt64
		var active int
		var endsAt sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &code, &departmentID, &active, &endsAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		p.Code = code.String
		p.DepartmentID = int(departmentID.Int64)
		p.Active = active != 0
		if endsAt.Int64 > 0 {
			p.EndsAt = time.Unix(endsAt.Int64, 0)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// Users returns all cached directory users ordered by last name, first name.
func (c *LookupCache) Users(ctx context.Context) ([]model.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, ErrCacheClosed
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, email, first_name, last_name, role, department_id, active FROM users ORDER BY last_name, first_name")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var firstName, lastName sql.NullString
		var role string
		var departmentID sql.NullInt64
		var active int
		if err := rows.Scan(&u.ID, &u.Email, &firstName, &lastName, &role, &departmentID, &active); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		u.FirstName = firstName.String
		u.LastName = lastName.String
		u.Role = model.Role(role)
		u.DepartmentID = int(departmentID.Int64)
		u.Active = active != 0
		users = append(users, u)
	}

	return users, rows.Err()
}

// =============================================================================
// SYNC STATE
// =============================================================================

// LastSynced returns when the cache was last refreshed from the backend.
// The zero time means the cache has never been synced.
func (c *LookupCache) LastSynced() (time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return time.Time{}, ErrCacheClosed
	}

	var value string
	err := c.db.QueryRow("SELECT value FROM metadata WHERE key = 'synced_at'").Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, nil
	}
	return time.Unix(secs, 0), nil
}

// Stale reports whether the cache is older than maxAge. A never-synced
// cache is always stale.
func (c *LookupCache) Stale(maxAge time.Duration) bool {
	synced, err := c.LastSynced()
	if err != nil || synced.IsZero() {
		return true
	}
	return time.Since(synced) > maxAge
}

// Counts returns row counts for each lookup table.
func (c *LookupCache) Counts() (CacheCounts, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var counts CacheCounts
	if c.db == nil {
		return counts, ErrCacheClosed
	}

	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM departments", &counts.Departments},
		{"SELECT COUNT(*) FROM projects", &counts.Projects},
		{"SELECT COUNT(*) FROM users", &counts.Users},
	}
	for _, q := range queries {
		if err := c.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return counts, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	return counts, nil
}

// boolToInt converts a bool to SQLite's 0/1 representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
