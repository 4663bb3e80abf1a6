// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth

import "context"

// Notifier delivers account notices. Every method may fail; the service
// decides per call site how a failure is reported.
type Notifier interface {
	// SendVerification delivers the verification code to email.
	SendVerification(ctx context.Context, email, code string) error

	// SendWelcome greets a newly verified account.
	SendWelcome(ctx context.Context, email, name string) error

	// SendResetRequest delivers the link that completes a password reset.
	SendResetRequest(ctx context.Context, email, resetURL string) error

	// SendResetSuccess confirms a completed password reset.
	SendResetSuccess(ctx context.Context, email string) error
}
