// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/samber/oops"
)

// Secret sizes.
const (
	VerificationCodeDigits = 6
	ResetTokenBytes        = 32 // 32 bytes = 64 hex chars
)

var verificationCodeSpace = big.NewInt(1_000_000)

// GenerateVerificationCode returns a uniformly random, zero-padded
// six-digit numeric code.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, verificationCodeSpace)
	if err != nil {
		return "", oops.Code("VERIFICATION_CODE_GENERATE_FAILED").Wrap(err)
	}
	return fmt.Sprintf("%0*d", VerificationCodeDigits, n.Int64()), nil
}

// GenerateResetToken returns a hex-encoded random token of ResetTokenBytes.
func GenerateResetToken() (string, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(err)
	}
	return hex.EncodeToString(b), nil
}

// HashSecret computes the SHA-256 hex digest under which verification codes
// and reset tokens are stored and looked up.
func HashSecret(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}
