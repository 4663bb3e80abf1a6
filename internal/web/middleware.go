// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/latchkey/latchkey/internal/auth"
)

type ctxKey int

const accountIDKey ctxKey = iota

// Authenticator resolves a session token to an account ID.
type Authenticator interface {
	Authenticate(token string) (ulid.ULID, error)
}

// WithAccountID stores id in ctx.
func WithAccountID(ctx context.Context, id ulid.ULID) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

// AccountIDFromContext returns the authenticated account ID, if any.
func AccountIDFromContext(ctx context.Context) (ulid.ULID, bool) {
	id, ok := ctx.Value(accountIDKey).(ulid.ULID)
	return id, ok
}

// requireSession rejects requests without a valid session cookie.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.cookies.read(r)
		if token == "" {
			h.fail(w, r, "authenticate", oops.Code("UNAUTHENTICATED").
				With("reason", "missing token").
				Wrap(auth.ErrUnauthenticated))
			return
		}
		id, err := h.guard.Authenticate(token)
		if err != nil {
			h.fail(w, r, "authenticate", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), id)))
	})
}

// optionalSession attaches the account ID when a valid cookie is present
// and passes the request through untouched otherwise.
func (h *Handler) optionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := h.cookies.read(r); token != "" {
			if id, err := h.guard.Authenticate(token); err == nil {
				r = r.WithContext(WithAccountID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
