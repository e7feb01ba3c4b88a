// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth persists the bearer token and user profile between runs.
//
// The token is never written to disk in the clear: it is sealed with
// AES-256-GCM under a per-installation master key held by the platform
// key store (DPAPI on Windows, a permission-checked file elsewhere).
// Encrypted values carry the "ENC:" prefix so a credentials file can be
// inspected without tooling.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks values that have been sealed by this package.
const EncryptedPrefix = "ENC:"

// NonceSize is the GCM nonce size in bytes.
const NonceSize = 12

// KeySize is the AES-256 key size in bytes.
const KeySize = 32

// SaltSize is the PBKDF2 salt size in bytes.
const SaltSize = 32

// PBKDF2Iterations is the iteration count for password-derived keys.
// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256.
const PBKDF2Iterations = 600000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotInitialized indicates the cipher has no key loaded.
	ErrNotInitialized = errors.New("credential encryption not initialized")
	// ErrInvalidCiphertext indicates the ciphertext format is invalid.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates decryption failed (wrong key or tampered data).
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// KEY MATERIAL
// =============================================================================

// ZeroBytes overwrites the given byte slice with zeros.
// Used to clear key material from memory after use.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateMasterKey creates a new random 256-bit key.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return key, nil
}

// GenerateSalt creates a new random salt for key derivation.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives an AES-256 key from a password using PBKDF2-SHA-256.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
}

// =============================================================================
// CIPHER
// =============================================================================

// Cipher seals and opens credential values with AES-256-GCM.
type Cipher struct {
	mu           sync.Mutex
	aead         cipher.AEAD
	nonceCounter uint64
}

// NewCipher creates a cipher from a 32-byte key. The caller retains
// ownership of the key slice and should zero it after the call.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size %d, want %d", len(key), KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}

	return &Cipher{aead: gcm}, nil
}

// nextNonce builds a nonce from a monotonic counter plus random tail.
// The counter guarantees uniqueness within a process even if rand.Reader
// misbehaves; the random bytes keep nonces unpredictable across runs.
func (c *Cipher) nextNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)

	c.nonceCounter++
	for i := 0; i < 8; i++ {
		nonce[i] = byte(c.nonceCounter >> (i * 8))
	}

	if _, err := io.ReadFull(rand.Reader, nonce[8:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return nonce, nil
}

// Encrypt seals plaintext. Output layout: nonce || ciphertext || tag.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.aead == nil {
		return nil, ErrNotInitialized
	}

	nonce, err := c.nextNonce()
	if err != nil {
		return nil, err
	}

	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.aead == nil {
		return nil, ErrNotInitialized
	}

	if len(ciphertext) < NonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce := ciphertext[:NonceSize]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// EncryptString seals a string and returns it base64-encoded with the
// ENC: prefix.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	ciphertext, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString opens a value produced by EncryptString. Values without
// the ENC: prefix are returned unchanged, so callers can read files
// written before encryption was enabled.
func (c *Cipher) DecryptString(value string) (string, error) {
	if !strings.HasPrefix(value, EncryptedPrefix) {
		return value, nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("invalid base64 encoding: %w", err)
	}

	plaintext, err := c.Decrypt(data)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// IsEncrypted reports whether a value carries the ENC: prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}
