// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Default lifetimes and timeouts.
const (
	DefaultVerificationTTL = 24 * time.Hour
	DefaultResetTTL        = time.Hour
	DefaultStoreTimeout    = 5 * time.Second
	DefaultNotifyTimeout   = 10 * time.Second
)

// maxCodeAttempts bounds regeneration when a fresh verification code
// collides with a live one.
const maxCodeAttempts = 3

// dummyPassword is verified against when an email is unknown so login
// takes the same time whether or not the account exists.
const dummyPassword = "latchkey-timing-equalizer"

// Notice kinds, used in logs and error context.
const (
	NoticeVerification = "verification"
	NoticeWelcome      = "welcome"
	NoticeResetRequest = "reset_request"
	NoticeResetSuccess = "reset_success"
)

// ServiceConfig holds lifetimes, timeouts and policy for the Service.
type ServiceConfig struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	// ResetURLBase is joined with the reset token to build the link sent to
	// the account owner.
	ResetURLBase  string
	StoreTimeout  time.Duration
	NotifyTimeout time.Duration
	// ConcealUnknownAccounts makes ForgotPassword succeed silently for
	// unknown emails instead of failing with ErrAccountNotFound.
	ConcealUnknownAccounts bool
}

// DefaultServiceConfig returns the stock lifetimes and timeouts. It conceals
// unknown accounts on ForgotPassword rather than reporting them as not found.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		VerificationTTL:        DefaultVerificationTTL,
		ResetTTL:               DefaultResetTTL,
		StoreTimeout:           DefaultStoreTimeout,
		NotifyTimeout:          DefaultNotifyTimeout,
		ConcealUnknownAccounts: true,
	}
}

// Validate checks cfg for usable values.
func (c ServiceConfig) Validate() error {
	switch {
	case c.VerificationTTL <= 0:
		return oops.Code("SERVICE_INVALID_CONFIG").With("field", "verification_ttl").Errorf("verification TTL must be positive")
	case c.ResetTTL <= 0:
		return oops.Code("SERVICE_INVALID_CONFIG").With("field", "reset_ttl").Errorf("reset TTL must be positive")
	case c.StoreTimeout <= 0:
		return oops.Code("SERVICE_INVALID_CONFIG").With("field", "store_timeout").Errorf("store timeout must be positive")
	case c.NotifyTimeout <= 0:
		return oops.Code("SERVICE_INVALID_CONFIG").With("field", "notify_timeout").Errorf("notify timeout must be positive")
	case c.ResetURLBase == "":
		return oops.Code("SERVICE_INVALID_CONFIG").With("field", "reset_url_base").Errorf("reset URL base is required")
	}
	return nil
}

// ServiceDeps are the collaborators of the Service.
type ServiceDeps struct {
	Accounts AccountRepository
	Notifier Notifier
	Hasher   PasswordHasher
	Sessions SessionSigner
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the account credential lifecycle: signup, verification,
// login, and password reset.
type Service struct {
	accounts  AccountRepository
	notifier  Notifier
	hasher    PasswordHasher
	sessions  SessionSigner
	logger    *slog.Logger
	now       func() time.Time
	cfg       ServiceConfig
	dummyHash string
}

// NewService validates deps and cfg and creates a Service.
func NewService(deps ServiceDeps, cfg ServiceConfig) (*Service, error) {
	if deps.Accounts == nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").Errorf("account repository is required")
	}
	if deps.Notifier == nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").Errorf("notifier is required")
	}
	if deps.Hasher == nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").Errorf("password hasher is required")
	}
	if deps.Sessions == nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").Errorf("session signer is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	dummyHash, err := deps.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, oops.Code("SERVICE_INVALID_CONFIG").With("operation", "hash timing equalizer").Wrap(err)
	}

	return &Service{
		accounts:  deps.Accounts,
		notifier:  deps.Notifier,
		hasher:    deps.Hasher,
		sessions:  deps.Sessions,
		logger:    deps.Logger,
		now:       deps.Now,
		cfg:       cfg,
		dummyHash: dummyHash,
	}, nil
}

// SignupRequest carries the fields of a new account.
type SignupRequest struct {
	Email    string
	Password string
	Name     string
}

// SessionResult is an account together with the session token issued for it.
type SessionResult struct {
	Account        *Account
	Token          string
	TokenExpiresAt time.Time
}

// Signup creates an unverified account, issues a session for it and sends
// the verification code. A failed notice yields both the result and an
// ErrNotification error; the account is not rolled back.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*SessionResult, error) {
	if missing := missingFields(map[string]string{
		"email":    req.Email,
		"password": req.Password,
		"name":     req.Name,
	}); len(missing) > 0 {
		return nil, oops.Code("VALIDATION_FAILED").
			With("missing", missing).
			Wrapf(ErrValidation, "all fields are required")
	}
	email := NormalizeEmail(req.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	// The pre-check gives a clean error in the common case; the store's
	// uniqueness constraint settles races.
	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil, duplicateAccount(email)
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, storeError("find account by email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.Code("SIGNUP_FAILED").With("operation", "hash password").Wrap(err)
	}

	now := s.now()
	account, err := NewAccount(email, req.Name, hash, now)
	if err != nil {
		return nil, err
	}

	code, codeHash, err := s.newVerificationCode(ctx, now)
	if err != nil {
		return nil, err
	}
	if err := account.StartVerification(codeHash, now.Add(s.cfg.VerificationTTL), now); err != nil {
		return nil, err
	}

	if err := s.insert(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			return nil, duplicateAccount(email)
		}
		return nil, storeError("insert account", err)
	}

	token, expiresAt, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, oops.Code("SIGNUP_FAILED").
			With("operation", "issue session").
			With("account_id", account.ID.String()).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account created", "account_id", account.ID.String())

	result := &SessionResult{Account: account, Token: token, TokenExpiresAt: expiresAt}
	if err := s.send(ctx, NoticeVerification, account.ID, func(ctx context.Context) error {
		return s.notifier.SendVerification(ctx, account.Email, code)
	}); err != nil {
		return result, err
	}
	return result, nil
}

// VerifyEmail consumes a live verification code and marks its account
// verified. Wrong and expired codes fail identically. A failed welcome notice
// yields both the account and an ErrNotification error.
func (s *Service) VerifyEmail(ctx context.Context, code string) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, oops.Code("VALIDATION_FAILED").With("field", "code").Wrapf(ErrValidation, "verification code is required")
	}

	now := s.now()
	sctx, cancel := s.storeCtx(ctx)
	account, err := s.accounts.FindByVerificationCode(sctx, HashSecret(code), now)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, oops.Code("INVALID_OR_EXPIRED_CODE").Wrap(ErrInvalidOrExpiredCode)
		}
		return nil, storeError("find account by verification code", err)
	}
	if account.Verified {
		return nil, oops.Code("INVALID_OR_EXPIRED_CODE").Wrap(ErrInvalidOrExpiredCode)
	}

	sctx, cancel = s.storeCtx(ctx)
	err = s.accounts.ConsumeVerificationCode(sctx, account.ID, HashSecret(code), now)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, oops.Code("INVALID_OR_EXPIRED_CODE").
				With("account_id", account.ID.String()).
				Wrap(ErrInvalidOrExpiredCode)
		}
		return nil, storeError("consume verification code", err)
	}
	account.MarkVerified(now)

	s.logger.InfoContext(ctx, "account verified", "account_id", account.ID.String())

	if err := s.send(ctx, NoticeWelcome, account.ID, func(ctx context.Context) error {
		return s.notifier.SendWelcome(ctx, account.Email, account.Name)
	}); err != nil {
		return account, err
	}
	return account, nil
}

// Login checks credentials and issues a session. Unknown emails and wrong
// passwords fail identically and take the same time.
func (s *Service) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	if missing := missingFields(map[string]string{
		"email":    email,
		"password": password,
	}); len(missing) > 0 {
		return nil, oops.Code("VALIDATION_FAILED").
			With("missing", missing).
			Wrapf(ErrValidation, "email and password are required")
	}

	account, lookupErr := s.findByEmail(ctx, NormalizeEmail(email))

	var targetHash string
	var exists bool
	switch {
	case lookupErr == nil:
		targetHash = account.PasswordHash
		exists = true
	case errors.Is(lookupErr, ErrAccountNotFound):
		targetHash = s.dummyHash
	default:
		return nil, storeError("find account by email", lookupErr)
	}

	// Always verify, even for unknown emails and overlong passwords.
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if len(password) > MaxPasswordBytes {
		return nil, oops.Code("INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}
	if verifyErr != nil && exists {
		return nil, oops.Code("LOGIN_FAILED").
			With("operation", "verify password").
			With("account_id", account.ID.String()).
			Wrap(verifyErr)
	}
	if !exists || !valid {
		return nil, oops.Code("INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	verifiedHash, passwordHash := account.PasswordHash, account.PasswordHash
	if s.hasher.NeedsUpgrade(verifiedHash) {
		if upgraded, err := s.hasher.Hash(password); err == nil {
			passwordHash = upgraded
		}
	}

	token, expiresAt, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, oops.Code("LOGIN_FAILED").
			With("operation", "issue session").
			With("account_id", account.ID.String()).
			Wrap(err)
	}

	// The stored hash must still be the one the password was checked
	// against; a reset committed in between invalidates this login.
	now := s.now()
	sctx, cancel := s.storeCtx(ctx)
	err = s.accounts.RecordLogin(sctx, account.ID, verifiedHash, passwordHash, now)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, oops.Code("INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return nil, storeError("record login", err)
	}
	account.PasswordHash = passwordHash
	account.RecordLogin(now)

	s.logger.InfoContext(ctx, "login succeeded", "account_id", account.ID.String())
	return &SessionResult{Account: account, Token: token, TokenExpiresAt: expiresAt}, nil
}

// Logout ends a session. Tokens are self-contained, so there is nothing to
// revoke; the caller discards its credential. Always succeeds.
func (s *Service) Logout(ctx context.Context, accountID *ulid.ULID) {
	if accountID == nil {
		s.logger.DebugContext(ctx, "logout without session")
		return
	}
	s.logger.InfoContext(ctx, "logout", "account_id", accountID.String())
}

// ForgotPassword starts a password reset for email and sends the reset
// link. Unknown emails succeed silently when ConcealUnknownAccounts is set
// and fail with ErrAccountNotFound otherwise.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return oops.Code("VALIDATION_FAILED").With("field", "email").Wrapf(ErrValidation, "email is required")
	}

	account, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return s.unknownResetAccount(ctx)
		}
		return storeError("find account by email", err)
	}

	token, err := GenerateResetToken()
	if err != nil {
		return err
	}
	now := s.now()
	tokenHash, expiresAt := HashSecret(token), now.Add(s.cfg.ResetTTL)
	sctx, cancel := s.storeCtx(ctx)
	err = s.accounts.SetResetToken(sctx, account.ID, tokenHash, expiresAt, now)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return s.unknownResetAccount(ctx)
		}
		return storeError("store reset token", err)
	}
	account.StartReset(tokenHash, expiresAt, now)

	s.logger.InfoContext(ctx, "password reset requested", "account_id", account.ID.String())

	resetURL := s.resetURL(token)
	return s.send(ctx, NoticeResetRequest, account.ID, func(ctx context.Context) error {
		return s.notifier.SendResetRequest(ctx, account.Email, resetURL)
	})
}

// ResetPassword consumes a live reset token and replaces the password.
// A failed confirmation notice is reported after the reset is committed.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return oops.Code("INVALID_OR_EXPIRED_TOKEN").Wrap(ErrInvalidOrExpiredToken)
	}

	now := s.now()
	tokenHash := HashSecret(token)
	sctx, cancel := s.storeCtx(ctx)
	account, err := s.accounts.FindByResetToken(sctx, tokenHash, now)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return oops.Code("INVALID_OR_EXPIRED_TOKEN").Wrap(ErrInvalidOrExpiredToken)
		}
		return storeError("find account by reset token", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_FAILED").
			With("operation", "hash password").
			With("account_id", account.ID.String()).
			Wrap(err)
	}
	sctx, cancel = s.storeCtx(ctx)
	err = s.accounts.ConsumeResetToken(sctx, account.ID, tokenHash, hash, now)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return oops.Code("INVALID_OR_EXPIRED_TOKEN").
				With("account_id", account.ID.String()).
				Wrap(ErrInvalidOrExpiredToken)
		}
		return storeError("store new password", err)
	}
	account.CompleteReset(hash, now)

	s.logger.InfoContext(ctx, "password reset completed", "account_id", account.ID.String())

	return s.send(ctx, NoticeResetSuccess, account.ID, func(ctx context.Context) error {
		return s.notifier.SendResetSuccess(ctx, account.Email)
	})
}

// CheckAuth resolves an authenticated account ID to its current account.
func (s *Service) CheckAuth(ctx context.Context, accountID ulid.ULID) (*Account, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	account, err := s.accounts.FindByID(sctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, oops.Code("ACCOUNT_NOT_FOUND").
				With("account_id", accountID.String()).
				Wrap(ErrAccountNotFound)
		}
		return nil, storeError("find account by id", err)
	}
	return account, nil
}

// ResendVerification replaces the pending verification code of an
// unverified account and sends the new one.
func (s *Service) ResendVerification(ctx context.Context, accountID ulid.ULID) error {
	account, err := s.CheckAuth(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Verified {
		return alreadyVerified(account.ID)
	}

	now := s.now()
	code, codeHash, err := s.newVerificationCode(ctx, now)
	if err != nil {
		return err
	}
	expiresAt := now.Add(s.cfg.VerificationTTL)
	sctx, cancel := s.storeCtx(ctx)
	err = s.accounts.SetVerificationCode(sctx, account.ID, codeHash, expiresAt, now)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return alreadyVerified(account.ID)
		}
		return storeError("store verification code", err)
	}
	if err := account.StartVerification(codeHash, expiresAt, now); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "verification code reissued", "account_id", account.ID.String())

	return s.send(ctx, NoticeVerification, account.ID, func(ctx context.Context) error {
		return s.notifier.SendVerification(ctx, account.Email, code)
	})
}

// newVerificationCode draws a code whose digest matches no live pending
// code. After maxCodeAttempts collisions the last draw is used.
func (s *Service) newVerificationCode(ctx context.Context, now time.Time) (code, digest string, err error) {
	for range maxCodeAttempts {
		code, err = GenerateVerificationCode()
		if err != nil {
			return "", "", err
		}
		digest = HashSecret(code)

		sctx, cancel := s.storeCtx(ctx)
		_, err = s.accounts.FindByVerificationCode(sctx, digest, now)
		cancel()
		if errors.Is(err, ErrAccountNotFound) {
			return code, digest, nil
		}
		if err != nil {
			return "", "", storeError("check verification code", err)
		}
	}
	s.logger.WarnContext(ctx, "verification code collided on every attempt", "attempts", maxCodeAttempts)
	return code, digest, nil
}

func (s *Service) resetURL(token string) string {
	return strings.TrimRight(s.cfg.ResetURLBase, "/") + "/" + token
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

func (s *Service) findByEmail(ctx context.Context, email string) (*Account, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.accounts.FindByEmail(sctx, email) //nolint:wrapcheck // classified by callers
}

func (s *Service) insert(ctx context.Context, account *Account) error {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.accounts.Insert(sctx, account) //nolint:wrapcheck // classified by callers
}

func (s *Service) unknownResetAccount(ctx context.Context) error {
	if s.cfg.ConcealUnknownAccounts {
		s.logger.DebugContext(ctx, "password reset requested for unknown email")
		return nil
	}
	return oops.Code("ACCOUNT_NOT_FOUND").Wrap(ErrAccountNotFound)
}

// send runs a notifier call under NotifyTimeout and types its failure.
func (s *Service) send(ctx context.Context, notice string, accountID ulid.ULID, fn func(context.Context) error) error {
	nctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()
	if err := fn(nctx); err != nil {
		return oops.Code("NOTIFICATION_FAILED").
			With("notice", notice).
			With("account_id", accountID.String()).
			Wrap(fmt.Errorf("%w: %w", ErrNotification, err))
	}
	return nil
}

func storeError(operation string, err error) error {
	return oops.Code("STORE_FAILED").With("operation", operation).Wrap(storeFailure(err))
}

func alreadyVerified(id ulid.ULID) error {
	return oops.Code("VALIDATION_FAILED").
		With("account_id", id.String()).
		Wrapf(ErrValidation, "account is already verified")
}

func duplicateAccount(email string) error {
	return oops.Code("DUPLICATE_ACCOUNT").With("email", email).Wrap(ErrDuplicateAccount)
}

// missingFields returns the names of blank fields in a fixed order.
func missingFields(fields map[string]string) []string {
	var missing []string
	for _, name := range []string{"email", "password", "name"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
