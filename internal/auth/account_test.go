// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latchkey/latchkey/internal/auth"
	"github.com/latchkey/latchkey/pkg/errutil"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestNewAccount(t *testing.T) {
	t.Run("normalizes email and starts unverified", func(t *testing.T) {
		a, err := auth.NewAccount("  Alice@Example.COM ", " Alice ", "hash", epoch)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", a.Email)
		assert.Equal(t, "Alice", a.Name)
		assert.False(t, a.Verified)
		assert.False(t, a.VerificationPending())
		assert.False(t, a.ResetPending())
		assert.Equal(t, epoch, a.CreatedAt)
		assert.Equal(t, epoch, a.UpdatedAt)
		assert.NotZero(t, a.ID)
	})

	tests := []struct {
		name  string
		email string
		uname string
		hash  string
		field string
	}{
		{"empty email", "", "A", "hash", "email"},
		{"display-name email", "Alice <alice@example.com>", "A", "hash", "email"},
		{"no at sign", "alice.example.com", "A", "hash", "email"},
		{"blank name", "a@x.com", "  ", "hash", "name"},
		{"empty hash", "a@x.com", "A", "", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.NewAccount(tt.email, tt.uname, tt.hash, epoch)
			require.ErrorIs(t, err, auth.ErrValidation)
			errutil.AssertErrorCode(t, err, "VALIDATION_FAILED")
			errutil.AssertErrorContext(t, err, "field", tt.field)
		})
	}
}

func TestAccount_VerificationLifecycle(t *testing.T) {
	a, err := auth.NewAccount("a@x.com", "A", "hash", epoch)
	require.NoError(t, err)

	require.NoError(t, a.StartVerification("digest", epoch.Add(24*time.Hour), epoch))
	assert.True(t, a.VerificationPending())
	assert.Equal(t, auth.StateUnverified, a.State())
	require.NoError(t, a.Validate())

	later := epoch.Add(time.Hour)
	a.MarkVerified(later)
	assert.Equal(t, auth.StateVerified, a.State())
	assert.False(t, a.VerificationPending())
	assert.Nil(t, a.VerificationCodeHash)
	assert.Nil(t, a.VerificationExpiresAt)
	assert.Equal(t, later, a.UpdatedAt)
	require.NoError(t, a.Validate())

	err = a.StartVerification("again", later.Add(time.Hour), later)
	require.ErrorIs(t, err, auth.ErrValidation)
	assert.Nil(t, a.VerificationCodeHash, "verified accounts never regain a code")
}

func TestAccount_ResetLifecycle(t *testing.T) {
	a, err := auth.NewAccount("a@x.com", "A", "old", epoch)
	require.NoError(t, err)
	a.MarkVerified(epoch)

	a.StartReset("digest", epoch.Add(time.Hour), epoch)
	assert.True(t, a.ResetPending())
	assert.Equal(t, auth.StateVerified, a.State(), "reset pending is orthogonal to verification")

	a.StartReset("newer", epoch.Add(2*time.Hour), epoch)
	assert.Equal(t, "newer", *a.ResetTokenHash)

	a.CompleteReset("new", epoch.Add(time.Minute))
	assert.Equal(t, "new", a.PasswordHash)
	assert.False(t, a.ResetPending())
	assert.Nil(t, a.ResetTokenHash)
	assert.Nil(t, a.ResetExpiresAt)
	require.NoError(t, a.Validate())
}

func TestAccount_Validate(t *testing.T) {
	digest := "digest"
	expiry := epoch.Add(time.Hour)

	tests := []struct {
		name   string
		mutate func(*auth.Account)
	}{
		{"code without expiry", func(a *auth.Account) { a.VerificationCodeHash = &digest }},
		{"expiry without code", func(a *auth.Account) { a.VerificationExpiresAt = &expiry }},
		{"verified with code", func(a *auth.Account) {
			a.Verified = true
			a.VerificationCodeHash = &digest
			a.VerificationExpiresAt = &expiry
		}},
		{"token without expiry", func(a *auth.Account) { a.ResetTokenHash = &digest }},
		{"missing hash", func(a *auth.Account) { a.PasswordHash = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := auth.NewAccount("a@x.com", "A", "hash", epoch)
			require.NoError(t, err)
			tt.mutate(a)
			err = a.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "ACCOUNT_INVALID")
		})
	}
}

func TestAccount_ViewOmitsSecrets(t *testing.T) {
	a, err := auth.NewAccount("a@x.com", "A", "$2a$10$secret-hash", epoch)
	require.NoError(t, err)
	require.NoError(t, a.StartVerification("code-digest", epoch.Add(time.Hour), epoch))
	a.StartReset("token-digest", epoch.Add(time.Hour), epoch)
	a.RecordLogin(epoch)

	body, err := json.Marshal(a.View())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.ElementsMatch(t,
		[]string{"id", "email", "name", "isVerified", "lastLoginAt", "createdAt", "updatedAt"},
		keys(fields))
	assert.NotContains(t, string(body), "secret-hash")
	assert.NotContains(t, string(body), "digest")
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
