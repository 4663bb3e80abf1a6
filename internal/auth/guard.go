// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth

import (
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionVerifier resolves a session token to the account ID it carries.
type SessionVerifier interface {
	Parse(token string) (ulid.ULID, error)
}

// SessionSigner issues session tokens.
type SessionSigner interface {
	Issue(accountID ulid.ULID) (token string, expiresAt time.Time, err error)
}

// Guard validates inbound session tokens. It never touches the account
// store; operations that need the account look it up themselves.
type Guard struct {
	verifier SessionVerifier
}

// NewGuard creates a Guard backed by verifier.
func NewGuard(verifier SessionVerifier) (*Guard, error) {
	if verifier == nil {
		return nil, oops.Code("GUARD_INVALID_CONFIG").Errorf("session verifier is required")
	}
	return &Guard{verifier: verifier}, nil
}

// Authenticate returns the account ID bound to token. Missing, malformed,
// badly signed and expired tokens all fail with ErrUnauthenticated.
func (g *Guard) Authenticate(token string) (ulid.ULID, error) {
	id, err := g.verifier.Parse(token)
	if err != nil {
		if KindOf(err) == KindUnauthenticated {
			return ulid.ULID{}, err
		}
		return ulid.ULID{}, oops.Code("UNAUTHENTICATED").Wrap(errors.Join(ErrUnauthenticated, err))
	}
	return id, nil
}
