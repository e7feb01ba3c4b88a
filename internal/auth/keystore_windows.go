// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// =============================================================================
// WINDOWS DPAPI KEY STORE
// =============================================================================

// WindowsKeyStore wraps the master key with DPAPI before writing it to
// disk. DPAPI binds the ciphertext to the current user's logon
// credentials, so the key file is useless to other accounts and on
// other machines.
type WindowsKeyStore struct {
	path string
}

// NewKeyStore returns the key store for this platform.
func NewKeyStore() KeyStore {
	return NewKeyStoreAt(defaultKeyStorePath())
}

// NewKeyStoreAt returns a key store rooted at an explicit path.
func NewKeyStoreAt(path string) KeyStore {
	return &WindowsKeyStore{path: path}
}

// Store encrypts the key with DPAPI and saves it to a file.
func (w *WindowsKeyStore) Store(key []byte) error {
	encrypted, err := dpAPIEncrypt(key)
	if err != nil {
		return fmt.Errorf("DPAPI encryption failed: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := os.WriteFile(w.path, encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted key: %w", err)
	}

	return nil
}

// Retrieve reads the encrypted key and decrypts it with DPAPI.
func (w *WindowsKeyStore) Retrieve() ([]byte, error) {
	encrypted, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted key: %w", err)
	}

	key, err := dpAPIDecrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("DPAPI decryption failed: %w", err)
	}

	return key, nil
}

// Delete removes the encrypted key file.
func (w *WindowsKeyStore) Delete() error {
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

// Exists checks if the encrypted key file exists.
func (w *WindowsKeyStore) Exists() bool {
	_, err := os.Stat(w.path)
	return err == nil
}

// =============================================================================
// DPAPI IMPLEMENTATION
// =============================================================================

// dataBLOB mirrors the Windows DATA_BLOB structure.
type dataBLOB struct {
	cbData uint32
	pbData *byte
}

var (
	crypt32                = windows.NewLazySystemDLL("crypt32.dll")
	procCryptProtectData   = crypt32.NewProc("CryptProtectData")
	procCryptUnprotectData = crypt32.NewProc("CryptUnprotectData")
	kernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procLocalFree          = kernel32.NewProc("LocalFree")
)

// dpAPIEncrypt encrypts data bound to the current user's credentials.
func dpAPIEncrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data")
	}

	dataIn := dataBLOB{
		cbData: uint32(len(data)),
		pbData: &data[0],
	}

	var dataOut dataBLOB

	// CRYPTPROTECT_UI_FORBIDDEN (0x01): never show UI prompts
	ret, _, err := procCryptProtectData.Call(
		uintptr(unsafe.Pointer(&dataIn)),
		0, // szDataDescr
		0, // pOptionalEntropy
		0, // pvReserved
		0, // pPromptStruct
		0x01,
		uintptr(unsafe.Pointer(&dataOut)),
	)

	if ret == 0 {
		return nil, fmt.Errorf("CryptProtectData failed: %w", err)
	}

	encrypted := make([]byte, dataOut.cbData)
	copy(encrypted, unsafe.Slice(dataOut.pbData, dataOut.cbData))

	procLocalFree.Call(uintptr(unsafe.Pointer(dataOut.pbData)))

	return encrypted, nil
}

// dpAPIDecrypt decrypts data produced by dpAPIEncrypt.
func dpAPIDecrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data")
	}

	dataIn := dataBLOB{
		cbData: uint32(len(data)),
		pbData: &data[0],
	}

	var dataOut dataBLOB

	// CRYPTPROTECT_UI_FORBIDDEN (0x01): never show UI prompts
	ret, _, err := procCryptUnprotectData.Call(
		uintptr(unsafe.Pointer(&dataIn)),
		0, // ppszDataDescr
		0, // pOptionalEntropy
		0, // pvReserved
		0, // pPromptStruct
		0x01,
		uintptr(unsafe.Pointer(&dataOut)),
	)

	if ret == 0 {
		return nil, fmt.Errorf("CryptUnprotectData failed: %w", err)
	}

	decrypted := make([]byte, dataOut.cbData)
	copy(decrypted, unsafe.Slice(dataOut.pbData, dataOut.cbData))

	procLocalFree.Call(uintptr(unsafe.Pointer(dataOut.pbData)))

	return decrypted, nil
}
