// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

// Package memory provides an in-process auth.AccountRepository for tests
// and single-node development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/latchkey/latchkey/internal/auth"
)

// AccountRepository keeps accounts in a map. Stored values are copied on
// every read and write so callers never share state with the store.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[ulid.ULID]*auth.Account
}

var _ auth.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates an empty repository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[ulid.ULID]*auth.Account)}
}

// FindByEmail retrieves an account by normalized email.
func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return clone(a), nil
		}
	}
	return nil, notFound("email", email)
}

// FindByID retrieves an account by ID.
func (r *AccountRepository) FindByID(_ context.Context, id ulid.ULID) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.accounts[id]; ok {
		return clone(a), nil
	}
	return nil, notFound("id", id.String())
}

// FindByVerificationCode retrieves the account holding a live codeHash.
func (r *AccountRepository) FindByVerificationCode(_ context.Context, codeHash string, now time.Time) (*auth.Account, error) {
	return r.findLive(func(a *auth.Account) (*string, *time.Time) {
		return a.VerificationCodeHash, a.VerificationExpiresAt
	}, codeHash, now)
}

// FindByResetToken retrieves the account holding a live tokenHash.
func (r *AccountRepository) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*auth.Account, error) {
	return r.findLive(func(a *auth.Account) (*string, *time.Time) {
		return a.ResetTokenHash, a.ResetExpiresAt
	}, tokenHash, now)
}

func (r *AccountRepository) findLive(secret func(*auth.Account) (*string, *time.Time), digest string, now time.Time) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best    *auth.Account
		bestExp time.Time
	)
	for _, a := range r.accounts {
		hash, exp := secret(a)
		if !live(hash, exp, digest, now) {
			continue
		}
		if best == nil || exp.After(bestExp) {
			best, bestExp = a, *exp
		}
	}
	if best == nil {
		return nil, notFound("", "")
	}
	return clone(best), nil
}

// Insert stores a new account.
func (r *AccountRepository) Insert(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; ok {
		return duplicate("id")
	}
	if r.emailTakenLocked(account.Email, account.ID) {
		return duplicate("email")
	}
	r.accounts[account.ID] = clone(account)
	return nil
}

// SetVerificationCode replaces the pending code of an unverified account.
func (r *AccountRepository) SetVerificationCode(_ context.Context, id ulid.ULID, codeHash string, expiresAt, now time.Time) error {
	return r.mutate(id, "set verification code", func(a *auth.Account) bool {
		if a.Verified {
			return false
		}
		a.VerificationCodeHash = &codeHash
		a.VerificationExpiresAt = &expiresAt
		a.UpdatedAt = now
		return true
	})
}

// ConsumeVerificationCode verifies the account if codeHash is still live.
func (r *AccountRepository) ConsumeVerificationCode(_ context.Context, id ulid.ULID, codeHash string, now time.Time) error {
	return r.mutate(id, "consume verification code", func(a *auth.Account) bool {
		if a.Verified || !live(a.VerificationCodeHash, a.VerificationExpiresAt, codeHash, now) {
			return false
		}
		a.MarkVerified(now)
		return true
	})
}

// SetResetToken replaces the pending reset token.
func (r *AccountRepository) SetResetToken(_ context.Context, id ulid.ULID, tokenHash string, expiresAt, now time.Time) error {
	return r.mutate(id, "set reset token", func(a *auth.Account) bool {
		a.StartReset(tokenHash, expiresAt, now)
		return true
	})
}

// ConsumeResetToken installs passwordHash if tokenHash is still live.
func (r *AccountRepository) ConsumeResetToken(_ context.Context, id ulid.ULID, tokenHash, passwordHash string, now time.Time) error {
	return r.mutate(id, "consume reset token", func(a *auth.Account) bool {
		if !live(a.ResetTokenHash, a.ResetExpiresAt, tokenHash, now) {
			return false
		}
		a.CompleteReset(passwordHash, now)
		return true
	})
}

// RecordLogin stamps a login if the stored hash is still verifiedHash.
func (r *AccountRepository) RecordLogin(_ context.Context, id ulid.ULID, verifiedHash, passwordHash string, at time.Time) error {
	return r.mutate(id, "record login", func(a *auth.Account) bool {
		if a.PasswordHash != verifiedHash {
			return false
		}
		a.PasswordHash = passwordHash
		a.RecordLogin(at)
		return true
	})
}

// mutate applies fn to the stored account under the write lock. fn reports
// whether its guard held; a failed guard leaves the account untouched.
func (r *AccountRepository) mutate(id ulid.ULID, operation string, fn func(*auth.Account) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[id]
	if !ok {
		return notFound("id", id.String())
	}
	next := clone(stored)
	if !fn(next) {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id.String()).
			With("operation", operation).
			Wrap(auth.ErrAccountNotFound)
	}
	r.accounts[id] = next
	return nil
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *AccountRepository) emailTakenLocked(email string, self ulid.ULID) bool {
	for id, a := range r.accounts {
		if id != self && a.Email == email {
			return true
		}
	}
	return false
}

func live(hash *string, exp *time.Time, digest string, now time.Time) bool {
	return hash != nil && exp != nil && *hash == digest && exp.After(now)
}

func notFound(key, value string) error {
	b := oops.Code("ACCOUNT_NOT_FOUND")
	if key != "" {
		b = b.With(key, value)
	}
	return b.Wrap(auth.ErrAccountNotFound)
}

func duplicate(field string) error {
	return oops.Code("DUPLICATE_ACCOUNT").With("field", field).Wrap(auth.ErrDuplicateAccount)
}

func clone(a *auth.Account) *auth.Account {
	c := *a
	c.VerificationCodeHash = clonePtr(a.VerificationCodeHash)
	c.VerificationExpiresAt = clonePtr(a.VerificationExpiresAt)
	c.ResetTokenHash = clonePtr(a.ResetTokenHash)
	c.ResetExpiresAt = clonePtr(a.ResetExpiresAt)
	c.LastLoginAt = clonePtr(a.LastLoginAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
