// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// generateTestCode computes the current TOTP code for a secret, the way
// an authenticator app would.
func generateTestCode(secret string) (string, error) {
	return totp.GenerateCode(secret, time.Now())
}

func testUser() *model.User {
	return &model.User{
		ID:        7,
		Email:     "avery.chen@example.com",
		FirstName: "Avery",
		LastName:  "Chen",
		Role:      model.RoleManager,
	}
}

// signedTestToken builds a real JWT with the given expiry. The signing
// key is irrelevant: the store never verifies signatures.
func signedTestToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "7"}
	if !expiry.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiry)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

// =============================================================================
// CREDENTIAL ROUND-TRIP TESTS
// =============================================================================

// TestStore_SaveAndLoadCredentials tests the login round-trip.
func TestStore_SaveAndLoadCredentials(t *testing.T) {
	store := NewStore(t.TempDir())
	token := signedTestToken(t, time.Now().Add(time.Hour))

	require.False(t, store.LoggedIn(), "Fresh store should not be logged in")

	require.NoError(t, store.SaveCredentials(token, testUser()))
	require.True(t, store.LoggedIn())

	got, err := store.Token()
	require.NoError(t, err)
	require.Equal(t, token, got)

	user, err := store.User()
	require.NoError(t, err)
	require.Equal(t, 7, user.ID)
	require.Equal(t, "Avery Chen", user.DisplayName())
}

// TestStore_TokenSealedAtRest tests that the raw file never contains the token.
func TestStore_TokenSealedAtRest(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	token := signedTestToken(t, time.Now().Add(time.Hour))

	require.NoError(t, store.SaveToken(token))

	raw, err := os.ReadFile(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), token), "Token must not appear in cleartext on disk")
	require.True(t, strings.Contains(string(raw), EncryptedPrefix), "Stored token should carry ENC: prefix")
}

// TestStore_SaveTokenPreservesUser tests that token refresh keeps the profile.
func TestStore_SaveTokenPreservesUser(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.SaveCredentials(signedTestToken(t, time.Now().Add(time.Hour)), testUser()))

	second := signedTestToken(t, time.Now().Add(2*time.Hour))
	require.NoError(t, store.SaveToken(second))

	got, err := store.Token()
	require.NoError(t, err)
	require.Equal(t, second, got)

	user, err := store.User()
	require.NoError(t, err)
	require.Equal(t, "avery.chen@example.com", user.Email)
}

// TestStore_Clear tests logout.
func TestStore_Clear(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.SaveCredentials(signedTestToken(t, time.Now().Add(time.Hour)), testUser()))
	require.NoError(t, store.Clear())

	require.False(t, store.LoggedIn())
	_, err := store.Token()
	require.ErrorIs(t, err, ErrNoCredentials)
	_, err = store.User()
	require.ErrorIs(t, err, ErrNoCredentials)

	// Clearing an already-clear store is not an error
	require.NoError(t, store.Clear())
}

// TestStore_PersistsAcrossInstances tests that a new store instance reads
// what a previous one wrote (fresh cipher, same master key).
func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	token := signedTestToken(t, time.Now().Add(time.Hour))

	first := NewStore(dir)
	require.NoError(t, first.SaveCredentials(token, testUser()))

	second := NewStore(dir)
	got, err := second.Token()
	require.NoError(t, err)
	require.Equal(t, token, got)
}

// TestStore_MissingCredentials tests the not-logged-in error.
func TestStore_MissingCredentials(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Token()
	require.ErrorIs(t, err, ErrNoCredentials)
}

// =============================================================================
// TOKEN INSPECTION TESTS
// =============================================================================

// TestStore_TokenExpiry tests reading the exp claim.
func TestStore_TokenExpiry(t *testing.T) {
	store := NewStore(t.TempDir())
	expiry := time.Now().Add(45 * time.Minute).Truncate(time.Second)

	require.NoError(t, store.SaveToken(signedTestToken(t, expiry)))

	got, err := store.TokenExpiry()
	require.NoError(t, err)
	require.True(t, got.Equal(expiry), "Expiry should round-trip through the claim")
	require.False(t, store.TokenExpired())
}

// TestStore_TokenExpired tests detection of a past exp claim.
func TestStore_TokenExpired(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.SaveToken(signedTestToken(t, time.Now().Add(-time.Minute))))
	require.True(t, store.TokenExpired())

	// The expired token is still returned: the server decides validity
	token, err := store.Token()
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

// TestStore_TokenWithoutExpClaim tests tokens that never expire.
func TestStore_TokenWithoutExpClaim(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.SaveToken(signedTestToken(t, time.Time{})))

	expiry, err := store.TokenExpiry()
	require.NoError(t, err)
	require.True(t, expiry.IsZero())
	require.False(t, store.TokenExpired())
}

// TestStore_MalformedToken tests that a non-JWT token is tolerated.
func TestStore_MalformedToken(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.SaveToken("opaque-session-token"))

	_, err := store.TokenExpiry()
	require.Error(t, err)
	require.False(t, store.TokenExpired(), "Unparseable token should be left for the server to reject")
}

// =============================================================================
// ROLE QUERY TESTS
// =============================================================================

// TestStore_RoleQueries tests the role helpers for each role.
func TestStore_RoleQueries(t *testing.T) {
	tests := []struct {
		role       model.Role
		canApprove bool
		canBook    bool
	}{
		{model.RoleEmployee, false, false},
		{model.RoleManager, true, false},
		{model.RoleTravelAdmin, false, true},
		{model.RoleAdministrator, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			store := NewStore(t.TempDir())
			user := testUser()
			user.Role = tt.role
			require.NoError(t, store.SaveCredentials(signedTestToken(t, time.Now().Add(time.Hour)), user))

			require.True(t, store.HasRole(tt.role))
			require.Equal(t, tt.canApprove, store.CanApprove())
			require.Equal(t, tt.canBook, store.CanBook())
			require.Equal(t, 7, store.UserID())
		})
	}
}

// TestStore_RoleDefaultsWithoutProfile tests queries against an empty store.
func TestStore_RoleDefaultsWithoutProfile(t *testing.T) {
	store := NewStore(t.TempDir())

	require.Equal(t, model.RoleEmployee, store.Role())
	require.False(t, store.CanApprove())
	require.Equal(t, 0, store.UserID())
	require.Equal(t, "", store.DisplayName())
}

// =============================================================================
// KEYSTORE TESTS
// =============================================================================

// TestKeyStore_RoundTrip tests store/retrieve/delete on the platform store.
func TestKeyStore_RoundTrip(t *testing.T) {
	ks := NewKeyStoreAt(filepath.Join(t.TempDir(), "keys", "master.key"))

	require.False(t, ks.Exists())

	key, err := GenerateMasterKey()
	require.NoError(t, err)

	require.NoError(t, ks.Store(key))
	require.True(t, ks.Exists())

	got, err := ks.Retrieve()
	require.NoError(t, err)
	require.Equal(t, key, got)

	require.NoError(t, ks.Delete())
	require.False(t, ks.Exists())

	// Deleting twice is not an error
	require.NoError(t, ks.Delete())
}

// TestKeyStore_FilePermissions tests that the key file is written 0600.
func TestKeyStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "master.key")
	ks := NewKeyStoreAt(path)

	key, err := GenerateMasterKey()
	require.NoError(t, err)
	require.NoError(t, ks.Store(key))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

// =============================================================================
// APP LOCK TESTS
// =============================================================================

// TestAppLock_EnrollAndVerify tests the TOTP enrollment flow.
func TestAppLock_EnrollAndVerify(t *testing.T) {
	store := NewStore(t.TempDir())
	lock := NewAppLock(store)

	require.False(t, lock.Enabled())

	enrollment, err := lock.Enroll("avery.chen@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.True(t, strings.HasPrefix(enrollment.URL, "otpauth://"), "Enrollment should yield an otpauth URL")
	require.True(t, lock.Enabled())

	code, err := generateTestCode(enrollment.Secret)
	require.NoError(t, err)

	ok, err := lock.Verify(code)
	require.NoError(t, err)
	require.True(t, ok, "Freshly generated code should verify")
}

// TestAppLock_SecretSealedAtRest tests that applock.json never holds the raw secret.
func TestAppLock_SecretSealedAtRest(t *testing.T) {
	dir := t.TempDir()
	lock := NewAppLock(NewStore(dir))

	enrollment, err := lock.Enroll("user@example.com")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "applock.json"))
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), enrollment.Secret), "TOTP secret must not appear in cleartext")
	require.True(t, strings.Contains(string(raw), EncryptedPrefix))
}

// TestAppLock_WrongCodeCooldown tests the attempt counter and cooldown.
func TestAppLock_WrongCodeCooldown(t *testing.T) {
	store := NewStore(t.TempDir())
	lock := NewAppLock(store)

	_, err := lock.Enroll("user@example.com")
	require.NoError(t, err)

	for i := 0; i < maxLockAttempts; i++ {
		ok, err := lock.Verify("000000")
		require.NoError(t, err, "Attempt %d should not error", i)
		require.False(t, ok)
	}

	// Counter exhausted: even a wrong code now reports cooldown
	_, err = lock.Verify("000000")
	require.ErrorIs(t, err, ErrLockCoolingDown)
	require.Greater(t, lock.CooldownRemaining(), time.Duration(0))
}

// TestAppLock_VerifyBeforeEnroll tests the not-enrolled error.
func TestAppLock_VerifyBeforeEnroll(t *testing.T) {
	lock := NewAppLock(NewStore(t.TempDir()))

	_, err := lock.Verify("123456")
	require.ErrorIs(t, err, ErrLockNotEnrolled)
}

// TestAppLock_Disable tests removing the lock.
func TestAppLock_Disable(t *testing.T) {
	lock := NewAppLock(NewStore(t.TempDir()))

	_, err := lock.Enroll("user@example.com")
	require.NoError(t, err)
	require.True(t, lock.Enabled())

	require.NoError(t, lock.Disable())
	require.False(t, lock.Enabled())

	// Disabling twice is not an error
	require.NoError(t, lock.Disable())
}
