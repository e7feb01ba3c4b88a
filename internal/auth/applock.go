// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/jeranaias/tripdesk-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// lockIssuer appears in authenticator apps next to the account name.
	lockIssuer = "TripDesk"

	// lockFileName is the app lock state file inside the store directory.
	lockFileName = "applock.json"

	// maxLockAttempts is the number of wrong codes before a cooldown.
	maxLockAttempts = 3

	// lockCooldown is how long verification is refused after too many
	// wrong codes.
	lockCooldown = 15 * time.Minute
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrLockNotEnrolled indicates no app lock has been set up.
	ErrLockNotEnrolled = errors.New("app lock not enrolled")
	// ErrLockCoolingDown indicates too many wrong codes were entered.
	ErrLockCoolingDown = errors.New("too many wrong codes, app lock is cooling down")
)

// =============================================================================
// STATE FILE
// =============================================================================

// lockFile is the on-disk app lock state. Secret is sealed ("ENC:...").
type lockFile struct {
	Secret         string    `json:"secret"`
	Account        string    `json:"account"`
	EnrolledAt     time.Time `json:"enrolledAt"`
	FailedAttempts int       `json:"failedAttempts,omitempty"`
	CooldownUntil  time.Time `json:"cooldownUntil,omitempty"`
}

// =============================================================================
// APP LOCK
// =============================================================================

// AppLock gates the TUI behind a TOTP challenge. It shares the master
// key with the credential store, so a stolen applock.json is as useless
// as a stolen credentials.json. Wrong-code attempts are counted in the
// state file: after maxLockAttempts the lock refuses codes for
// lockCooldown, surviving process restarts.
type AppLock struct {
	mu    sync.Mutex
	store *Store
}

// NewAppLock creates an app lock backed by the given credential store.
func NewAppLock(store *Store) *AppLock {
	return &AppLock{store: store}
}

// path returns the lock state file location.
func (a *AppLock) path() string {
	return filepath.Join(a.store.dir, lockFileName)
}

// load reads the lock state. Caller must hold a.mu.
func (a *AppLock) load() (*lockFile, error) {
	data, err := os.ReadFile(a.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLockNotEnrolled
		}
		return nil, fmt.Errorf("failed to read app lock state: %w", err)
	}

	var lf lockFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse app lock state: %w", err)
	}

	return &lf, nil
}

// save writes the lock state. Caller must hold a.mu.
func (a *AppLock) save(lf *lockFile) error {
	if err := os.MkdirAll(a.store.dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode app lock state: %w", err)
	}

	if err := util.AtomicWriteFile(a.path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write app lock state: %w", err)
	}

	return nil
}

// Enrollment carries what the user needs to finish setup: the
// otpauth:// URL for QR scanning and the raw secret for manual entry.
type Enrollment struct {
	URL    string
	Secret string
}

// Enroll generates a fresh TOTP secret for the given account, seals it,
// and writes the lock state. Re-enrolling replaces the old secret.
func (a *AppLock) Enroll(account string) (*Enrollment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if account == "" {
		account = "tripdesk"
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      lockIssuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	sealed, err := a.store.sealString(key.Secret())
	if err != nil {
		return nil, fmt.Errorf("failed to seal TOTP secret: %w", err)
	}

	if err := a.save(&lockFile{
		Secret:     sealed,
		Account:    account,
		EnrolledAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	log.Printf("[auth] App lock enrolled for %s", account)

	return &Enrollment{
		URL:    key.URL(),
		Secret: key.Secret(),
	}, nil
}

// Verify checks a TOTP code. A wrong code increments the attempt
// counter; after maxLockAttempts, Verify returns ErrLockCoolingDown
// until the cooldown passes. A correct code resets the counter.
func (a *AppLock) Verify(code string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	lf, err := a.load()
	if err != nil {
		return false, err
	}

	if !lf.CooldownUntil.IsZero() && time.Now().Before(lf.CooldownUntil) {
		return false, ErrLockCoolingDown
	}

	secret, err := a.store.unsealString(lf.Secret)
	if err != nil {
		return false, fmt.Errorf("failed to unseal TOTP secret: %w", err)
	}

	if totp.Validate(code, secret) {
		if lf.FailedAttempts != 0 || !lf.CooldownUntil.IsZero() {
			lf.FailedAttempts = 0
			lf.CooldownUntil = time.Time{}
			if err := a.save(lf); err != nil {
				return true, err
			}
		}
		return true, nil
	}

	lf.FailedAttempts++
	if lf.FailedAttempts >= maxLockAttempts {
		lf.FailedAttempts = 0
		lf.CooldownUntil = time.Now().Add(lockCooldown)
		log.Printf("[auth] App lock cooling down until %s", lf.CooldownUntil.Format(time.RFC3339))
	}
	if err := a.save(lf); err != nil {
		return false, err
	}

	return false, nil
}

// Enabled reports whether an app lock is enrolled.
func (a *AppLock) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.load()
	return err == nil
}

// CooldownRemaining returns how long until codes are accepted again,
// or 0 when the lock is not cooling down.
func (a *AppLock) CooldownRemaining() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	lf, err := a.load()
	if err != nil || lf.CooldownUntil.IsZero() {
		return 0
	}

	remaining := time.Until(lf.CooldownUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Disable removes the app lock state.
func (a *AppLock) Disable() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.Remove(a.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove app lock state: %w", err)
	}

	log.Printf("[auth] App lock disabled")
	return nil
}
