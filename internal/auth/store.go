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

	"github.com/golang-jwt/jwt/v5"

	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoCredentials indicates no saved login exists.
	ErrNoCredentials = errors.New("not logged in: run 'tripdesk login'")
	// ErrNoUser indicates a token is stored but the user profile is missing.
	ErrNoUser = errors.New("no user profile stored")
)

// =============================================================================
// CREDENTIALS FILE
// =============================================================================

// credentialsFile is the on-disk layout of ~/.tripdesk/credentials.json.
// Token is stored sealed ("ENC:..."); the profile is not secret and
// stays readable so `tripdesk whoami` works without unsealing anything.
type credentialsFile struct {
	Token   string      `json:"token"`
	User    *model.User `json:"user,omitempty"`
	SavedAt time.Time   `json:"savedAt"`
}

// =============================================================================
// STORE
// =============================================================================

// Store persists the bearer token and user profile under a single
// directory (~/.tripdesk by default). All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	dir      string
	keyStore KeyStore
	cipher   *Cipher
}

// NewStore creates a store rooted at dir. The master key lives at
// dir/master.key via the platform key store.
func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		keyStore: NewKeyStoreAt(filepath.Join(dir, "master.key")),
	}
}

// DefaultDir returns the default credential directory (~/.tripdesk).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tripdesk")
	}
	return filepath.Join(home, ".tripdesk")
}

// DefaultStore creates a store in the default directory.
func DefaultStore() *Store {
	return NewStore(DefaultDir())
}

// credentialsPath returns the credentials file location.
func (s *Store) credentialsPath() string {
	return filepath.Join(s.dir, "credentials.json")
}

// ensureCipher loads the master key, generating one on first use.
// Caller must hold s.mu.
func (s *Store) ensureCipher() error {
	if s.cipher != nil {
		return nil
	}

	var key []byte
	var err error

	if s.keyStore.Exists() {
		key, err = s.keyStore.Retrieve()
		if err != nil {
			return fmt.Errorf("failed to retrieve master key: %w", err)
		}
	} else {
		key, err = GenerateMasterKey()
		if err != nil {
			return err
		}
		if err := s.keyStore.Store(key); err != nil {
			ZeroBytes(key)
			return fmt.Errorf("failed to store master key: %w", err)
		}
		log.Printf("[auth] Generated new master key")
	}
	// SECURITY: Zero key material to prevent memory disclosure
	defer ZeroBytes(key)

	cipher, err := NewCipher(key)
	if err != nil {
		return err
	}

	s.cipher = cipher
	return nil
}

// load reads and decodes the credentials file. Caller must hold s.mu.
func (s *Store) load() (*credentialsFile, error) {
	data, err := os.ReadFile(s.credentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return &creds, nil
}

// save encodes and writes the credentials file. Caller must hold s.mu.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (s *Store) save(creds *credentialsFile) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := util.AtomicWriteFile(s.credentialsPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	return nil
}

// sealString encrypts a value under the store's master key.
func (s *Store) sealString(value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCipher(); err != nil {
		return "", err
	}
	return s.cipher.EncryptString(value)
}

// unsealString decrypts a value sealed by sealString.
func (s *Store) unsealString(value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCipher(); err != nil {
		return "", err
	}
	return s.cipher.DecryptString(value)
}

// =============================================================================
// TOKEN OPERATIONS
// =============================================================================

// SaveToken seals the bearer token and writes it to disk, preserving
// any stored user profile.
func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCipher(); err != nil {
		return err
	}

	sealed, err := s.cipher.EncryptString(token)
	if err != nil {
		return fmt.Errorf("failed to seal token: %w", err)
	}

	creds, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrNoCredentials) {
			return err
		}
		creds = &credentialsFile{}
	}

	creds.Token = sealed
	creds.SavedAt = time.Now()

	return s.save(creds)
}

// Token returns the unsealed bearer token.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return "", err
	}
	if creds.Token == "" {
		return "", ErrNoCredentials
	}

	if err := s.ensureCipher(); err != nil {
		return "", err
	}

	token, err := s.cipher.DecryptString(creds.Token)
	if err != nil {
		return "", fmt.Errorf("failed to unseal token: %w", err)
	}

	return token, nil
}

// SaveUser writes the user profile, preserving any stored token.
func (s *Store) SaveUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrNoCredentials) {
			return err
		}
		creds = &credentialsFile{SavedAt: time.Now()}
	}

	creds.User = user

	return s.save(creds)
}

// SaveCredentials writes token and profile in a single operation.
// Used after login so a crash cannot leave the two halves out of sync.
func (s *Store) SaveCredentials(token string, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCipher(); err != nil {
		return err
	}

	sealed, err := s.cipher.EncryptString(token)
	if err != nil {
		return fmt.Errorf("failed to seal token: %w", err)
	}

	return s.save(&credentialsFile{
		Token:   sealed,
		User:    user,
		SavedAt: time.Now(),
	})
}

// User returns the stored user profile.
func (s *Store) User() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return nil, err
	}
	if creds.User == nil {
		return nil, ErrNoUser
	}

	return creds.User, nil
}

// Clear removes stored credentials. The master key is kept so a
// subsequent login reuses it.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.credentialsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	log.Printf("[auth] Cleared stored credentials")
	return nil
}

// LoggedIn reports whether a token is stored. It does not check expiry;
// see TokenExpired for that.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	return err == nil && creds.Token != ""
}

// =============================================================================
// TOKEN INSPECTION
// =============================================================================

// TokenExpiry reads the exp claim from the stored JWT. The signature is
// NOT verified: the server is the authority on validity, this is only
// used to warn the user before a request is bound to fail.
func (s *Store) TokenExpiry() (time.Time, error) {
	token, err := s.Token()
	if err != nil {
		return time.Time{}, err
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}

	return claims.ExpiresAt.Time, nil
}

// TokenExpired reports whether the stored token's exp claim has passed.
// A token without an exp claim, or an unparseable one, is reported as
// not expired and left for the server to reject.
func (s *Store) TokenExpired() bool {
	expiry, err := s.TokenExpiry()
	if err != nil || expiry.IsZero() {
		return false
	}
	return time.Now().After(expiry)
}

// =============================================================================
// ROLE QUERIES
// =============================================================================

// Role returns the stored user's role, defaulting to employee when no
// profile is stored.
func (s *Store) Role() model.Role {
	user, err := s.User()
	if err != nil {
		return model.RoleEmployee
	}
	return user.Role
}

// HasRole reports whether the stored user has the given role.
func (s *Store) HasRole(role model.Role) bool {
	return s.Role() == role
}

// IsAdmin reports whether the stored user is an administrator.
func (s *Store) IsAdmin() bool {
	return s.HasRole(model.RoleAdministrator)
}

// IsManager reports whether the stored user is a manager.
func (s *Store) IsManager() bool {
	return s.HasRole(model.RoleManager)
}

// IsTravelAdmin reports whether the stored user is a travel admin.
func (s *Store) IsTravelAdmin() bool {
	return s.HasRole(model.RoleTravelAdmin)
}

// CanApprove reports whether the stored user may decide requests.
func (s *Store) CanApprove() bool {
	return s.IsManager() || s.IsAdmin()
}

// CanBook reports whether the stored user may record bookings.
func (s *Store) CanBook() bool {
	return s.IsTravelAdmin() || s.IsAdmin()
}

// UserID returns the stored user's ID, or 0 when none is stored.
func (s *Store) UserID() int {
	user, err := s.User()
	if err != nil {
		return 0
	}
	return user.ID
}

// DisplayName returns the stored user's display name, or "" when none
// is stored.
func (s *Store) DisplayName() string {
	user, err := s.User()
	if err != nil {
		return ""
	}
	return user.DisplayName()
}
