// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package auth

import (
	"fmt"
	"os"
	"path/filepath"
)

// =============================================================================
// UNIX KEY STORE
// =============================================================================

// UnixKeyStore stores the master key in a file guarded by filesystem
// permissions: 0600 on the file, 0700 on the directory. Both are
// verified on every read and write, and an insecurely created key file
// is deleted rather than left behind.
type UnixKeyStore struct {
	path string
}

// NewKeyStore returns the key store for this platform.
func NewKeyStore() KeyStore {
	return NewKeyStoreAt(defaultKeyStorePath())
}

// NewKeyStoreAt returns a key store rooted at an explicit path.
// Used by tests and by stores that keep credentials outside the home
// directory.
func NewKeyStoreAt(path string) KeyStore {
	return &UnixKeyStore{path: path}
}

// Store saves the key with restricted permissions.
func (u *UnixKeyStore) Store(key []byte) error {
	dir := filepath.Dir(u.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat key directory: %w", err)
	}

	// No group/world access on the directory
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		return fmt.Errorf("key directory has insecure permissions (%o), "+
			"must be 0700 or more restrictive; fix with: chmod 700 %s", mode, dir)
	}

	if err := os.WriteFile(u.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}

	fileInfo, err := os.Stat(u.path)
	if err != nil {
		return fmt.Errorf("failed to stat key file: %w", err)
	}

	fileMode := fileInfo.Mode().Perm()
	if fileMode&0077 != 0 {
		// Do not leave a readable key behind
		_ = os.Remove(u.path)
		return fmt.Errorf("key file was created with insecure permissions (%o), "+
			"must be 0600 or more restrictive; the file has been deleted, retry the operation", fileMode)
	}

	return nil
}

// Retrieve reads the key, refusing if permissions have been loosened
// since the key was written.
func (u *UnixKeyStore) Retrieve() ([]byte, error) {
	dir := filepath.Dir(u.path)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat key directory: %w", err)
	}

	dirMode := dirInfo.Mode().Perm()
	if dirMode&0077 != 0 {
		return nil, fmt.Errorf("key directory has insecure permissions (%o), "+
			"must be 0700 or more restrictive; fix with: chmod 700 %s", dirMode, dir)
	}

	info, err := os.Stat(u.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat key file: %w", err)
	}

	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		return nil, fmt.Errorf("key file has insecure permissions (%o), "+
			"must be 0600 or more restrictive; fix with: chmod 600 %s", mode, u.path)
	}

	key, err := os.ReadFile(u.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	return key, nil
}

// Delete overwrites the key file with zeros, then removes it.
func (u *UnixKeyStore) Delete() error {
	info, err := os.Stat(u.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat key file for deletion: %w", err)
	}

	size := info.Size()
	if size > 0 {
		zeros := make([]byte, size)
		if f, err := os.OpenFile(u.path, os.O_WRONLY, 0600); err == nil {
			_, _ = f.Write(zeros)
			_ = f.Sync()
			_ = f.Close()
		}
	}

	if err := os.Remove(u.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}

	return nil
}

// Exists checks if the key file exists.
func (u *UnixKeyStore) Exists() bool {
	_, err := os.Stat(u.path)
	return err == nil
}
