// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/tripdesk-tui/internal/util"
)

// =============================================================================
// KEYSTORE INTERFACE
// =============================================================================

// KeyStore holds the master key that seals stored credentials.
// Implementations provide platform-specific storage:
// - Windows: DPAPI (Data Protection API)
// - Unix: permission-checked file
type KeyStore interface {
	// Store securely stores the master key.
	Store(key []byte) error
	// Retrieve retrieves the master key from storage.
	Retrieve() ([]byte, error)
	// Delete removes the key from storage.
	Delete() error
	// Exists checks if a key is stored.
	Exists() bool
}

// =============================================================================
// FILE-BASED KEYSTORE (FALLBACK)
// =============================================================================

// FileKeyStore is a plain file-based key store without platform
// protection. It exists for environments where neither DPAPI nor strict
// Unix permissions apply (containers with odd mounts, tests).
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a file-based key store at the given path.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Store saves the key with restricted permissions.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (f *FileKeyStore) Store(key []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := util.AtomicWriteFile(f.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}

	return nil
}

// Retrieve reads the key from the file.
func (f *FileKeyStore) Retrieve() ([]byte, error) {
	key, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return key, nil
}

// Delete removes the key file.
func (f *FileKeyStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

// Exists checks if the key file exists.
func (f *FileKeyStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// defaultKeyStorePath returns the default master key location.
func defaultKeyStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tripdesk", "master.key")
	}
	return filepath.Join(home, ".tripdesk", "master.key")
}
