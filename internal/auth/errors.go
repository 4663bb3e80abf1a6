// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure class the service reports. Callers
// classify with errors.Is or KindOf; the oops codes carry detail for logs.
var (
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateAccount      = errors.New("account already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired verification code")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrAccountNotFound       = errors.New("account not found")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrNotification          = errors.New("notification failed")
	ErrStore                 = errors.New("account store failure")
)

// Kind is the stable machine-readable name of an error class.
type Kind string

// Error kinds reported to HTTP clients.
const (
	KindValidation            Kind = "validation"
	KindDuplicateAccount      Kind = "duplicate_account"
	KindInvalidCredentials    Kind = "invalid_credentials"
	KindInvalidOrExpiredCode  Kind = "invalid_or_expired_code"
	KindInvalidOrExpiredToken Kind = "invalid_or_expired_token"
	KindAccountNotFound       Kind = "account_not_found"
	KindUnauthenticated       Kind = "unauthenticated"
	KindNotification          Kind = "notification_failed"
	KindStore                 Kind = "store_failed"
	KindInternal              Kind = "internal"
)

var kindOrder = []struct {
	sentinel error
	kind     Kind
}{
	{ErrValidation, KindValidation},
	{ErrDuplicateAccount, KindDuplicateAccount},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrInvalidOrExpiredCode, KindInvalidOrExpiredCode},
	{ErrInvalidOrExpiredToken, KindInvalidOrExpiredToken},
	{ErrAccountNotFound, KindAccountNotFound},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrNotification, KindNotification},
	{ErrStore, KindStore},
}

// KindOf classifies err. Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// IsClientError reports whether err belongs to a class caused by the
// caller's input rather than a server-side failure.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindStore, KindNotification, KindInternal, "":
		return false
	default:
		return true
	}
}

// storeFailure marks a repository error as ErrStore while keeping the
// original cause reachable. Errors already classified pass through.
func storeFailure(err error) error {
	if KindOf(err) != KindInternal {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}
