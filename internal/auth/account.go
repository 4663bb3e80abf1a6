// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// State is the verification state of an account.
type State string

// Account states. ResetPending is orthogonal and reported separately.
const (
	StateUnverified State = "unverified"
	StateVerified   State = "verified"
)

// Account is a persisted user identity with its credentials and pending
// verification and reset secrets. Secrets are stored as SHA-256 digests.
type Account struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string
	Name         string
	Verified     bool

	VerificationCodeHash  *string
	VerificationExpiresAt *time.Time

	ResetTokenHash *string
	ResetExpiresAt *time.Time

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAccount creates an unverified account. The email is normalized and
// must parse as an address; name and password hash must be non-empty.
func NewAccount(email, name, passwordHash string, now time.Time) (*Account, error) {
	normalized := NormalizeEmail(email)
	if err := ValidateEmail(normalized); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, oops.Code("VALIDATION_FAILED").With("field", "name").Wrapf(ErrValidation, "name is required")
	}
	if passwordHash == "" {
		return nil, oops.Code("VALIDATION_FAILED").With("field", "password").Wrapf(ErrValidation, "password hash is required")
	}

	return &Account{
		ID:           ulid.Make(),
		Email:        normalized,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail applies the case policy fixed for all stored emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare, non-empty address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("VALIDATION_FAILED").With("field", "email").Wrapf(ErrValidation, "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return oops.Code("VALIDATION_FAILED").With("field", "email").Wrapf(ErrValidation, "email is not a valid address")
	}
	return nil
}

// State reports whether the account has been verified.
func (a *Account) State() State {
	if a.Verified {
		return StateVerified
	}
	return StateUnverified
}

// VerificationPending reports whether a verification code is outstanding.
func (a *Account) VerificationPending() bool {
	return a.VerificationCodeHash != nil && a.VerificationExpiresAt != nil
}

// ResetPending reports whether a reset token is outstanding.
func (a *Account) ResetPending() bool {
	return a.ResetTokenHash != nil && a.ResetExpiresAt != nil
}

// StartVerification replaces any pending verification code. Verified
// accounts never receive a new code.
func (a *Account) StartVerification(codeHash string, expiresAt, now time.Time) error {
	if a.Verified {
		return oops.Code("VALIDATION_FAILED").
			With("account_id", a.ID.String()).
			Wrapf(ErrValidation, "account is already verified")
	}
	a.VerificationCodeHash = &codeHash
	a.VerificationExpiresAt = &expiresAt
	a.UpdatedAt = now
	return nil
}

// MarkVerified transitions the account to verified and clears the
// verification fields.
func (a *Account) MarkVerified(now time.Time) {
	a.Verified = true
	a.VerificationCodeHash = nil
	a.VerificationExpiresAt = nil
	a.UpdatedAt = now
}

// StartReset replaces any pending reset token.
func (a *Account) StartReset(tokenHash string, expiresAt, now time.Time) {
	a.ResetTokenHash = &tokenHash
	a.ResetExpiresAt = &expiresAt
	a.UpdatedAt = now
}

// CompleteReset installs the new password hash and clears the reset fields.
func (a *Account) CompleteReset(passwordHash string, now time.Time) {
	a.PasswordHash = passwordHash
	a.ResetTokenHash = nil
	a.ResetExpiresAt = nil
	a.UpdatedAt = now
}

// RecordLogin stamps a successful login.
func (a *Account) RecordLogin(now time.Time) {
	a.LastLoginAt = &now
	a.UpdatedAt = now
}

// Validate checks the pairing invariants on the secret fields.
func (a *Account) Validate() error {
	if (a.VerificationCodeHash == nil) != (a.VerificationExpiresAt == nil) {
		return oops.Code("ACCOUNT_INVALID").
			With("account_id", a.ID.String()).
			Errorf("verification code and expiry must be set together")
	}
	if a.Verified && a.VerificationCodeHash != nil {
		return oops.Code("ACCOUNT_INVALID").
			With("account_id", a.ID.String()).
			Errorf("verified account has a pending verification code")
	}
	if (a.ResetTokenHash == nil) != (a.ResetExpiresAt == nil) {
		return oops.Code("ACCOUNT_INVALID").
			With("account_id", a.ID.String()).
			Errorf("reset token and expiry must be set together")
	}
	if a.PasswordHash == "" {
		return oops.Code("ACCOUNT_INVALID").
			With("account_id", a.ID.String()).
			Errorf("password hash is required")
	}
	return nil
}

// View is the caller-facing projection of an Account. It never carries the
// password hash or any pending secret.
type View struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsVerified  bool       `json:"isVerified"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// View projects the account for responses.
func (a *Account) View() View {
	return View{
		ID:          a.ID.String(),
		Email:       a.Email,
		Name:        a.Name,
		IsVerified:  a.Verified,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AccountRepository persists accounts. Each call is atomic for a single
// account. Misses wrap ErrAccountNotFound; an email uniqueness violation on
// Insert wraps ErrDuplicateAccount.
//
// State changes are column-scoped writes guarded by the state the caller
// acted on, so interleaved operations never write back stale columns. A
// guard that no longer holds is reported as ErrAccountNotFound.
type AccountRepository interface {
	// FindByEmail returns the account with the normalized email.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID returns the account with the given ID.
	FindByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// FindByVerificationCode returns the account holding codeHash with an
	// expiry after now.
	FindByVerificationCode(ctx context.Context, codeHash string, now time.Time) (*Account, error)

	// FindByResetToken returns the account holding tokenHash with an expiry
	// after now.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*Account, error)

	// Insert stores a new account.
	Insert(ctx context.Context, account *Account) error

	// SetVerificationCode replaces the pending code of an unverified account.
	SetVerificationCode(ctx context.Context, id ulid.ULID, codeHash string, expiresAt, now time.Time) error

	// ConsumeVerificationCode marks the account verified and clears its code,
	// provided codeHash is still pending and live at now.
	ConsumeVerificationCode(ctx context.Context, id ulid.ULID, codeHash string, now time.Time) error

	// SetResetToken replaces the pending reset token.
	SetResetToken(ctx context.Context, id ulid.ULID, tokenHash string, expiresAt, now time.Time) error

	// ConsumeResetToken installs passwordHash and clears the reset token,
	// provided tokenHash is still pending and live at now.
	ConsumeResetToken(ctx context.Context, id ulid.ULID, tokenHash, passwordHash string, now time.Time) error

	// RecordLogin stamps a login at and stores passwordHash, provided the
	// stored hash still equals verifiedHash.
	RecordLogin(ctx context.Context, id ulid.ULID, verifiedHash, passwordHash string, at time.Time) error
}
