// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/latchkey/latchkey/internal/auth"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

type envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	User    *auth.View `json:"user,omitempty"`
}

type errorBody struct {
	Success bool      `json:"success"`
	Kind    auth.Kind `json:"kind"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload) //nolint:errchkjson // client may disconnect
}

func writeOK(w http.ResponseWriter, status int, message string, account *auth.Account) {
	body := envelope{Success: true, Message: message}
	if account != nil {
		v := account.View()
		body.User = &v
	}
	writeJSON(w, status, body)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindValidation,
		auth.KindDuplicateAccount,
		auth.KindInvalidCredentials,
		auth.KindInvalidOrExpiredCode,
		auth.KindInvalidOrExpiredToken,
		auth.KindAccountNotFound:
		return http.StatusBadRequest
	case auth.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var kindMessages = map[auth.Kind]string{
	auth.KindDuplicateAccount:      "User already exists",
	auth.KindInvalidCredentials:    "Invalid credentials",
	auth.KindInvalidOrExpiredCode:  "Invalid or expired verification code",
	auth.KindInvalidOrExpiredToken: "Invalid or expired reset token",
	auth.KindAccountNotFound:       "User not found",
	auth.KindUnauthenticated:       "Unauthorized",
	auth.KindNotification:          "Email could not be sent",
	auth.KindStore:                 "Internal server error",
	auth.KindInternal:              "Internal server error",
}

// publicMessage is the client-facing text for err. Validation errors keep
// their detail; everything else gets the fixed text of its kind.
func publicMessage(kind auth.Kind, err error) string {
	if kind == auth.KindValidation {
		msg := strings.TrimSuffix(err.Error(), ": "+auth.ErrValidation.Error())
		if msg == "" || msg == auth.ErrValidation.Error() {
			return "Validation failed"
		}
		return strings.ToUpper(msg[:1]) + msg[1:]
	}
	return kindMessages[kind]
}

// decodeJSON reads a size-capped JSON object into dst, rejecting unknown
// fields and trailing data. Failures wrap auth.ErrValidation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return oops.Code("VALIDATION_FAILED").With("limit", maxErr.Limit).Wrapf(auth.ErrValidation, "request body too large")
		case errors.Is(err, io.EOF):
			return oops.Code("VALIDATION_FAILED").Wrapf(auth.ErrValidation, "request body is required")
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return oops.Code("VALIDATION_FAILED").With("field", strings.Trim(field, `"`)).
				Wrapf(auth.ErrValidation, "unknown field %s", field)
		default:
			return oops.Code("VALIDATION_FAILED").With("cause", err.Error()).Wrapf(auth.ErrValidation, "malformed JSON body")
		}
	}
	if dec.More() {
		return oops.Code("VALIDATION_FAILED").Wrapf(auth.ErrValidation, "request body must hold a single JSON object")
	}
	return nil
}
