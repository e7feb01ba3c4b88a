// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helpers for CLI command handlers.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/config"
	"github.com/jeranaias/tripdesk-tui/internal/storage"
)

// =============================================================================
// CLIENT CONSTRUCTION
// =============================================================================

// newClient builds the gateway, credential store, and effective config
// for a command invocation. Flag overrides (--api) apply to a clone so
// the global config singleton is never mutated by a one-off flag.
func newClient(args *Args) (*api.Gateway, *auth.Store, *config.Config, error) {
	cfg := config.Global().Clone()

	if args.BaseURL != "" {
		cfg.API.BaseURL = args.BaseURL
	}

	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		return nil, nil, nil, WrapError(err, "could not resolve data directory")
	}

	store := auth.NewStore(dataDir)
	gw := api.NewGateway(cfg.API.BaseURL, store).
		WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.RequestBurst)

	return gw, store, cfg, nil
}

// commandContext returns a context bounded by the configured API timeout.
func commandContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.API.Timeout())
}

// requireLogin ensures stored credentials exist and are not expired.
func requireLogin(store *auth.Store) error {
	if !store.LoggedIn() {
		return auth.ErrNoCredentials
	}
	if store.TokenExpired() {
		return fmt.Errorf("session token expired: run 'tripdesk login' to sign in again")
	}
	return nil
}

// =============================================================================
// APP LOCK GATE
// =============================================================================

// maxUnlockPrompts bounds interactive TOTP attempts per invocation.
// The lock itself enforces a persistent cooldown after repeated failures.
const maxUnlockPrompts = 3

// unlockAppLock challenges for a TOTP code when the app lock is enabled.
// No-op when the lock is off. The whoami command skips this gate: the
// profile it shows is stored unencrypted, so the challenge would protect
// nothing.
func unlockAppLock(cfg *config.Config, store *auth.Store) error {
	if !cfg.Lock.Enabled {
		return nil
	}

	lock := auth.NewAppLock(store)
	if !lock.Enabled() {
		// Config says locked but no enrollment exists; treat as off
		// rather than locking the user out of their own client.
		return nil
	}

	if remaining := lock.CooldownRemaining(); remaining > 0 {
		return fmt.Errorf("app lock is cooling down after failed attempts: retry in %s",
			formatDurationShort(remaining))
	}

	if err := RequiresTTY("app lock verification",
		"disable the lock with 'tripdesk lock disable' from an interactive terminal"); err != nil {
		return err
	}

	for attempt := 1; attempt <= maxUnlockPrompts; attempt++ {
		code, err := promptInput("Unlock code: ")
		if err != nil {
			return WrapError(err, "could not read unlock code")
		}

		ok, err := lock.Verify(strings.TrimSpace(code))
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if attempt < maxUnlockPrompts {
			fmt.Println(WarningStyle.Render("Incorrect code, try again."))
		}
	}

	return fmt.Errorf("app lock verification failed after %d attempts", maxUnlockPrompts)
}

// =============================================================================
// LOCAL STORAGE
// =============================================================================

// openDraftStore opens the draft store under the configured data dir.
func openDraftStore(cfg *config.Config) (*storage.DraftStore, error) {
	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		return nil, WrapError(err, "could not resolve data directory")
	}

	ds, err := storage.NewDraftStoreWithDir(filepath.Join(dataDir, "drafts"))
	if err != nil {
		return nil, WrapError(err, "could not open draft store")
	}

	if cfg.Storage.MaxDrafts > 0 {
		ds.MaxDrafts = cfg.Storage.MaxDrafts
	}
	return ds, nil
}

// openLookupCache opens the reference-data cache under the data dir.
func openLookupCache(cfg *config.Config) (*storage.LookupCache, error) {
	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		return nil, WrapError(err, "could not resolve data directory")
	}

	cache, err := storage.OpenLookupCache(filepath.Join(dataDir, "lookups.db"))
	if err != nil {
		return nil, WrapError(err, "could not open lookup cache")
	}
	return cache, nil
}

// =============================================================================
// INTERACTIVE INPUT
// =============================================================================

// promptInput reads a single line from stdin with a prompt.
func promptInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echoing it.
// SECURITY: Falls back to a visible read only when stdin is not a TTY
// (piped input for scripting), never silently in interactive use.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	if IsTTY() {
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("could not read password: %w", err)
		}
		return string(pw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// =============================================================================
// FORMATTING
// =============================================================================

// formatDuration formats a duration for display (e.g., "2h 15m", "45s").
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}

	days := int(d.Hours()) / 24
	h := int(d.Hours()) % 24
	if h == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd %dh", days, h)
}

// formatDurationShort formats a duration compactly (e.g., "2h15m", "45s").
func formatDurationShort(d time.Duration) string {
	return strings.ReplaceAll(formatDuration(d), " ", "")
}

// maskToken redacts a token for display, keeping just enough to
// recognize it.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// formatTimestamp renders a time in the local zone for human output.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// =============================================================================
// PATH VALIDATION
// =============================================================================

// ValidateOutputPath checks that an export destination is safe to write.
// SECURITY: Rejects paths escaping into system directories and refuses
// to silently follow symlinks out of the target directory.
func ValidateOutputPath(path string) error {
	if path == "" {
		return NewValidationError("output path", "", "path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return NewValidationError("output path", path, "could not resolve path")
	}

	// Refuse writes into system locations
	for _, forbidden := range []string{"/etc", "/sys", "/proc", "/dev", "/boot"} {
		if abs == forbidden || strings.HasPrefix(abs, forbidden+string(filepath.Separator)) {
			return NewValidationError("output path", path, "cannot write to system directory")
		}
	}

	// Parent must exist so the write fails early with a clear message
	parent := filepath.Dir(abs)
	info, err := os.Stat(parent)
	if err != nil {
		if os.IsNotExist(err) {
			return NewValidationError("output path", path,
				fmt.Sprintf("directory does not exist: %s", parent))
		}
		return WrapError(err, "could not stat output directory")
	}
	if !info.IsDir() {
		return NewValidationError("output path", path,
			fmt.Sprintf("not a directory: %s", parent))
	}

	return nil
}
