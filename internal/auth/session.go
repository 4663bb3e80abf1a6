// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenExpiry   = 7 * 24 * time.Hour
	MinSessionSecretSize = 32
	DefaultIssuer        = "latchkey"
)

// SessionConfig configures session token signing.
type SessionConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// SessionIssuer signs and verifies HS256 session tokens carrying an
// account ID as the subject.
type SessionIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer validates cfg and creates a SessionIssuer.
func NewSessionIssuer(cfg SessionConfig) (*SessionIssuer, error) {
	if len(cfg.Secret) < MinSessionSecretSize {
		return nil, oops.Code("SESSION_SECRET_INVALID").
			With("min_bytes", MinSessionSecretSize).
			Errorf("session secret is too short")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = SessionTokenExpiry
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &SessionIssuer{
		secret: secret,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for accountID that expires TTL from now.
func (s *SessionIssuer) Issue(accountID ulid.ULID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("SESSION_SIGN_FAILED").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	return token, expiresAt, nil
}

// Parse verifies the signature, algorithm, issuer and expiry of token and
// returns the account ID it carries. Every failure wraps ErrUnauthenticated.
func (s *SessionIssuer) Parse(token string) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, oops.Code("UNAUTHENTICATED").With("reason", "missing").Wrap(ErrUnauthenticated)
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		reason := "invalid"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		return ulid.ULID{}, oops.Code("UNAUTHENTICATED").With("reason", reason).Wrap(errors.Join(ErrUnauthenticated, err))
	}

	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("UNAUTHENTICATED").With("reason", "bad_subject").Wrap(errors.Join(ErrUnauthenticated, err))
	}
	return id, nil
}
