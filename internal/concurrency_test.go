// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal contains comprehensive race detection tests for the tripdesk TUI.
//
// Run with: go test -race -v ./internal/...
//
// These tests are designed to detect data races under concurrent access patterns
// that match real-world usage scenarios. They should be run as part of CI
// with the -race flag enabled.
package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/config"
	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/session"
)

// =============================================================================
// TEST CONFIGURATION
// =============================================================================

const (
	// Number of concurrent goroutines for race tests
	raceConcurrency = 100
	// Number of iterations per goroutine
	raceIterations = 50
	// Timeout for race tests
	raceTimeout = 30 * time.Second
)

// =============================================================================
// CONFIG CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_ConfigGlobalAccess tests concurrent access to the global
// config singleton. The TUI, the poller, and the gateway all read it.
func TestConcurrency_ConfigGlobalAccess(t *testing.T) {
	config.ResetGlobalForTesting()

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup

	// Launch concurrent readers
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				cfg := config.Global()
				if cfg == nil {
					continue
				}
				// Read various fields to ensure no race on reads
				_ = cfg.API.BaseURL
				_ = cfg.Session.TimeoutMinutes
				_ = cfg.UI.Theme
				_ = cfg.Storage.MaxDrafts
				_ = cfg.Notify.Enabled
			}
		}()
	}

	// Launch concurrent writers (SetGlobal)
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < raceIterations/10; j++ { // Fewer writes than reads
				select {
				case <-ctx.Done():
					return
				default:
				}
				newCfg := config.Default()
				newCfg.UI.Theme = "light"
				newCfg.UI.CompactMode = idx%2 == 0
				newCfg.Session.TimeoutMinutes = 10 + idx%20
				config.SetGlobal(newCfg)
			}
		}(i)
	}

	wg.Wait()
}

// TestConcurrency_ConfigGetSet tests concurrent Get/Set operations on config values.
func TestConcurrency_ConfigGetSet(t *testing.T) {
	config.ResetGlobalForTesting()

	// Initialize with a valid config
	cfg := config.Default()
	config.SetGlobal(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup

	keys := []string{
		"api.base_url",
		"session.timeout_minutes",
		"ui.theme",
		"ui.page_size",
	}

	// Concurrent getters
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				cfg := config.Global()
				if cfg == nil {
					continue
				}
				for _, key := range keys {
					_, _ = cfg.Get(key)
				}
			}
		}()
	}

	// Concurrent setters
	for i := 0; i < raceConcurrency/5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations/5; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				cfg := config.Global()
				if cfg == nil {
					continue
				}
				_ = cfg.Set("ui.theme", "dark")
				_ = cfg.Set("ui.page_size", 25)
			}
		}()
	}

	wg.Wait()
}

// =============================================================================
// SESSION CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_SessionActivity hammers RecordActivity from many
// goroutines while others read state. This matches the TUI, where every
// key press and every API response resets the idle clock.
func TestConcurrency_SessionActivity(t *testing.T) {
	mgr := session.NewManager(session.Config{
		Timeout:       time.Minute,
		WarningBefore: 10 * time.Second,
	})
	mgr.Start()
	defer mgr.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup

	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				mgr.RecordActivity()
			}
		}()
	}

	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				_ = mgr.State()
				_ = mgr.IdleTime()
				_ = mgr.RemainingTime()
				_ = mgr.InWarning()
			}
		}()
	}

	wg.Wait()

	if mgr.State() != session.StateActive {
		t.Errorf("State() after concurrent activity = %v, want %v", mgr.State(), session.StateActive)
	}
}

// TestConcurrency_SessionDirtyFlag tests concurrent dirty flag churn
// against the auto-save loop.
func TestConcurrency_SessionDirtyFlag(t *testing.T) {
	mgr := session.NewManager(session.Config{
		Timeout:          time.Minute,
		WarningBefore:    10 * time.Second,
		AutoSaveEnabled:  true,
		AutoSaveInterval: 10 * time.Millisecond,
	})

	var saves atomic.Int64
	mgr.SetAutoSaveCallback(func() error {
		saves.Add(1)
		return nil
	})

	mgr.Start()
	defer mgr.Stop()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency/2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				if (idx+j)%2 == 0 {
					mgr.MarkDirty()
				} else {
					mgr.MarkClean()
				}
				_ = mgr.IsDirty()
			}
		}(i)
	}
	wg.Wait()
}

// TestConcurrency_SessionObservers registers and disposes observers while
// activity churns. Disposal must be safe mid-flight.
func TestConcurrency_SessionObservers(t *testing.T) {
	mgr := session.NewManager(session.Config{
		Timeout:       time.Minute,
		WarningBefore: 10 * time.Second,
	})
	mgr.Start()
	defer mgr.Stop()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency/4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations/5; j++ {
				disposeWarn := mgr.OnWarning(func(time.Duration) {})
				disposeTimeout := mgr.OnTimeout(func() {})
				mgr.RecordActivity()
				disposeWarn()
				disposeTimeout()
			}
		}()
	}
	wg.Wait()
}

// TestConcurrency_SessionStartStop cycles Start/Stop from several
// goroutines. Both are documented no-ops when already in the target
// state, so interleaving them must not corrupt the manager.
func TestConcurrency_SessionStartStop(t *testing.T) {
	mgr := session.NewManager(session.DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency/4; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < raceIterations/5; j++ {
				if (idx+j)%2 == 0 {
					mgr.Start()
				} else {
					mgr.Stop()
				}
				_ = mgr.Running()
			}
		}(i)
	}
	wg.Wait()

	mgr.Stop()
	if mgr.Running() {
		t.Error("Running() = true after final Stop()")
	}
}

// =============================================================================
// GATEWAY CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_GatewayRequests issues parallel API calls through a
// single gateway. The credential store and the rate limiter sit on the
// hot path of every call.
func TestConcurrency_GatewayRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	store := auth.NewStore(t.TempDir())
	if err := store.SaveCredentials("tok-race", &model.User{ID: 1, Role: model.RoleEmployee}); err != nil {
		t.Fatalf("SaveCredentials() error = %v", err)
	}
	g := api.NewGateway(srv.URL, store).WithHTTPClient(srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup
	var failures atomic.Int64
	for i := 0; i < raceConcurrency/4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations/5; j++ {
				if _, err := g.Requests(ctx); err != nil {
					failures.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if n := failures.Load(); n != 0 {
		t.Errorf("%d concurrent requests failed", n)
	}
}

// TestConcurrency_GatewayExpiry races many 401 responses into the
// gateway. The expiry callback must fire exactly once.
func TestConcurrency_GatewayExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := auth.NewStore(t.TempDir())
	if err := store.SaveCredentials("tok-race", &model.User{ID: 1, Role: model.RoleEmployee}); err != nil {
		t.Fatalf("SaveCredentials() error = %v", err)
	}

	var expired atomic.Int32
	g := api.NewGateway(srv.URL, store).
		WithHTTPClient(srv.Client()).
		WithSessionExpiredFunc(func() { expired.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	// Seed tokens continuously so calls reach the wire instead of
	// failing closed once the first 401 clears the store.
	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency/10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations/10; j++ {
				_ = store.SaveToken("tok-race")
				_, _ = g.Requests(ctx)
			}
		}()
	}
	wg.Wait()

	if n := expired.Load(); n != 1 {
		t.Errorf("expiry callback fired %d times, want exactly 1", n)
	}
}

// =============================================================================
// AUTH STORE CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_AuthStore mixes reads, writes, and clears on one store.
func TestConcurrency_AuthStore(t *testing.T) {
	store := auth.NewStore(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency/4; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < raceIterations/5; j++ {
				switch (idx + j) % 4 {
				case 0:
					_ = store.SaveCredentials("tok-race", &model.User{ID: idx, Role: model.RoleEmployee})
				case 1:
					_, _ = store.Token()
					_, _ = store.User()
				case 2:
					_ = store.LoggedIn()
					_ = store.Role()
				case 3:
					_ = store.Clear()
				}
			}
		}(i)
	}
	wg.Wait()
}

// =============================================================================
// COMBINED LOAD TEST
// =============================================================================

// TestConcurrency_AllComponentsUnderLoad exercises config, session, and
// gateway together, the way a live TUI session with a background poller
// does.
func TestConcurrency_AllComponentsUnderLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping combined load test in short mode")
	}

	config.ResetGlobalForTesting()
	config.SetGlobal(config.Default())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	store := auth.NewStore(t.TempDir())
	if err := store.SaveCredentials("tok-load", &model.User{ID: 1, Role: model.RoleManager}); err != nil {
		t.Fatalf("SaveCredentials() error = %v", err)
	}

	mgr := session.NewManager(session.Config{
		Timeout:       time.Minute,
		WarningBefore: 10 * time.Second,
	})
	mgr.Start()
	defer mgr.Stop()

	g := api.NewGateway(srv.URL, store).
		WithHTTPClient(srv.Client()).
		WithActivityFunc(mgr.RecordActivity)

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup

	// API callers
	for i := 0; i < raceConcurrency/10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations/10; j++ {
				_, _ = g.Requests(ctx)
			}
		}()
	}

	// Config readers
	for i := 0; i < raceConcurrency/10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				cfg := config.Global()
				if cfg != nil {
					_ = cfg.UI.PageSize
					_ = cfg.API.BaseURL
				}
			}
		}()
	}

	// UI-style activity
	for i := 0; i < raceConcurrency/10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				mgr.RecordActivity()
				_ = mgr.State()
			}
		}()
	}

	wg.Wait()

	if mgr.State() != session.StateActive {
		t.Errorf("session state after load = %v, want %v", mgr.State(), session.StateActive)
	}
}
