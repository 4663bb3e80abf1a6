// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

// Package postgres implements auth.AccountRepository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/latchkey/latchkey/internal/auth"
	"github.com/latchkey/latchkey/internal/store"
)

const accountColumns = `id, email, password_hash, name, is_verified,
	verification_code_hash, verification_expires_at,
	reset_token_hash, reset_expires_at,
	last_login_at, created_at, updated_at`

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db store.Querier
}

var _ auth.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a repository over db.
func NewAccountRepository(db store.Querier) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByEmail retrieves an account by normalized email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return r.one(row, "find by email", "email", email)
}

// FindByID retrieves an account by ID.
func (r *AccountRepository) FindByID(ctx context.Context, id ulid.ULID) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id.String())
	return r.one(row, "find by id", "id", id.String())
}

// FindByVerificationCode retrieves the account holding codeHash whose code
// is still live at now. Should two accounts ever share a digest, the one
// with the latest expiry wins.
func (r *AccountRepository) FindByVerificationCode(ctx context.Context, codeHash string, now time.Time) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE verification_code_hash = $1 AND verification_expires_at > $2
		ORDER BY verification_expires_at DESC
		LIMIT 1`, codeHash, now)
	return r.one(row, "find by verification code", "", "")
}

// FindByResetToken retrieves the account holding tokenHash whose token is
// still live at now.
func (r *AccountRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE reset_token_hash = $1 AND reset_expires_at > $2
		ORDER BY reset_expires_at DESC
		LIMIT 1`, tokenHash, now)
	return r.one(row, "find by reset token", "", "")
}

// Insert stores a new account.
func (r *AccountRepository) Insert(ctx context.Context, a *auth.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		a.ID.String(),
		a.Email,
		a.PasswordHash,
		a.Name,
		a.Verified,
		a.VerificationCodeHash,
		a.VerificationExpiresAt,
		a.ResetTokenHash,
		a.ResetExpiresAt,
		a.LastLoginAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return writeError(err, "insert account", a)
	}
	return nil
}

// SetVerificationCode replaces the pending code of an unverified account.
func (r *AccountRepository) SetVerificationCode(ctx context.Context, id ulid.ULID, codeHash string, expiresAt, now time.Time) error {
	return r.exec(ctx, "set verification code", id, `
		UPDATE accounts SET
			verification_code_hash = $2,
			verification_expires_at = $3,
			updated_at = $4
		WHERE id = $1 AND NOT is_verified
	`, id.String(), codeHash, expiresAt, now)
}

// ConsumeVerificationCode verifies the account if codeHash is still live.
func (r *AccountRepository) ConsumeVerificationCode(ctx context.Context, id ulid.ULID, codeHash string, now time.Time) error {
	return r.exec(ctx, "consume verification code", id, `
		UPDATE accounts SET
			is_verified = TRUE,
			verification_code_hash = NULL,
			verification_expires_at = NULL,
			updated_at = $3
		WHERE id = $1
			AND NOT is_verified
			AND verification_code_hash = $2
			AND verification_expires_at > $3
	`, id.String(), codeHash, now)
}

// SetResetToken replaces the pending reset token.
func (r *AccountRepository) SetResetToken(ctx context.Context, id ulid.ULID, tokenHash string, expiresAt, now time.Time) error {
	return r.exec(ctx, "set reset token", id, `
		UPDATE accounts SET
			reset_token_hash = $2,
			reset_expires_at = $3,
			updated_at = $4
		WHERE id = $1
	`, id.String(), tokenHash, expiresAt, now)
}

// ConsumeResetToken installs passwordHash if tokenHash is still live.
func (r *AccountRepository) ConsumeResetToken(ctx context.Context, id ulid.ULID, tokenHash, passwordHash string, now time.Time) error {
	return r.exec(ctx, "consume reset token", id, `
		UPDATE accounts SET
			password_hash = $3,
			reset_token_hash = NULL,
			reset_expires_at = NULL,
			updated_at = $4
		WHERE id = $1
			AND reset_token_hash = $2
			AND reset_expires_at > $4
	`, id.String(), tokenHash, passwordHash, now)
}

// RecordLogin stamps a login if the stored hash is still verifiedHash.
func (r *AccountRepository) RecordLogin(ctx context.Context, id ulid.ULID, verifiedHash, passwordHash string, at time.Time) error {
	return r.exec(ctx, "record login", id, `
		UPDATE accounts SET
			password_hash = $3,
			last_login_at = $4,
			updated_at = $4
		WHERE id = $1 AND password_hash = $2
	`, id.String(), verifiedHash, passwordHash, at)
}

// exec runs a single-row guarded update. No affected row means the account
// is gone or its guard no longer holds.
func (r *AccountRepository) exec(ctx context.Context, operation string, id ulid.ULID, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return oops.Code("ACCOUNT_WRITE_FAILED").
			With("operation", operation).
			With("id", id.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("operation", operation).
			With("id", id.String()).
			Wrap(auth.ErrAccountNotFound)
	}
	return nil
}

func (r *AccountRepository) one(row pgx.Row, operation, key, value string) (*auth.Account, error) {
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		b := oops.Code("ACCOUNT_NOT_FOUND").With("operation", operation)
		if key != "" {
			b = b.With(key, value)
		}
		return nil, b.Wrap(auth.ErrAccountNotFound)
	}
	if err != nil {
		b := oops.Code("ACCOUNT_QUERY_FAILED").With("operation", operation)
		if key != "" {
			b = b.With(key, value)
		}
		return nil, b.Wrap(err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		a     auth.Account
		idStr string
	)
	err := row.Scan(
		&idStr,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.Verified,
		&a.VerificationCodeHash,
		&a.VerificationExpiresAt,
		&a.ResetTokenHash,
		&a.ResetExpiresAt,
		&a.LastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller with operation context
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_ID_INVALID").With("id", idStr).Wrap(err)
	}
	a.ID = id
	return &a, nil
}

func writeError(err error, operation string, a *auth.Account) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("DUPLICATE_ACCOUNT").
			With("operation", operation).
			With("constraint", pgErr.ConstraintName).
			Wrap(auth.ErrDuplicateAccount)
	}
	return oops.Code("ACCOUNT_WRITE_FAILED").
		With("operation", operation).
		With("id", a.ID.String()).
		Wrap(err)
}
