// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

// Package auth implements the account credential lifecycle for Latchkey.
//
// # Domain Types
//
// Account is created with NewAccount, which normalizes and validates the
// email. State transitions go through Account methods so the pairing
// invariants on pending secrets always hold:
//   - StartVerification / MarkVerified for the email verification code
//   - StartReset / CompleteReset for the password reset token
//   - RecordLogin for successful logins
//
// Verification codes and reset tokens are stored only as HashSecret digests.
//
// # Services
//
// Service coordinates the lifecycle verbs (Signup, VerifyEmail, Login,
// Logout, ForgotPassword, ResetPassword, CheckAuth, ResendVerification)
// over an AccountRepository and a Notifier. Guard validates session tokens
// issued by SessionIssuer without touching the store.
//
// # Errors
//
// Every failure wraps one of the sentinel errors in errors.go. KindOf maps an
// error to its stable Kind for transport layers.
package auth
