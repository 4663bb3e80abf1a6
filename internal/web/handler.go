// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

// Package web exposes the account lifecycle over HTTP under /auth.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/latchkey/latchkey/internal/auth"
	"github.com/latchkey/latchkey/internal/observability"
	"github.com/latchkey/latchkey/pkg/errutil"
)

// Service is the account lifecycle the handlers drive.
type Service interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*auth.SessionResult, error)
	VerifyEmail(ctx context.Context, code string) (*auth.Account, error)
	Login(ctx context.Context, email, password string) (*auth.SessionResult, error)
	Logout(ctx context.Context, accountID *ulid.ULID)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	CheckAuth(ctx context.Context, accountID ulid.ULID) (*auth.Account, error)
	ResendVerification(ctx context.Context, accountID ulid.ULID) error
}

// OperationRecorder counts operation outcomes.
type OperationRecorder interface {
	ObserveOperation(operation, outcome string)
}

// Config wires a Handler.
type Config struct {
	Service Service
	Guard   Authenticator
	Cookies CookieConfig
	// Logger defaults to slog.Default.
	Logger  *slog.Logger
	Metrics OperationRecorder
}

// Handler serves the /auth routes.
type Handler struct {
	svc     Service
	guard   Authenticator
	cookies CookieConfig
	logger  *slog.Logger
	metrics OperationRecorder
}

// NewHandler validates cfg and creates a Handler.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Service == nil {
		return nil, oops.Code("WEB_INVALID_CONFIG").Errorf("service is required")
	}
	if cfg.Guard == nil {
		return nil, oops.Code("WEB_INVALID_CONFIG").Errorf("guard is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:     cfg.Service,
		guard:   cfg.Guard,
		cookies: cfg.Cookies.withDefaults(),
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// Routes returns the router with every endpoint mounted under /auth.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.With(h.optionalSession).Post("/logout", h.logout)
		r.Post("/verify-email", h.verifyEmail)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password/{token}", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)
			r.Get("/check-auth", h.checkAuth)
			r.Post("/resend-verification", h.resendVerification)
		})
	})
	return r
}

func (h *Handler) observe(operation string, err error) {
	if h.metrics == nil {
		return
	}
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = string(auth.KindOf(err))
	}
	h.metrics.ObserveOperation(operation, outcome)
}

// fail writes the error body for err and records the failed operation.
// Server-side failures are logged with full context.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	h.observe(operation, err)
	kind := auth.KindOf(err)
	status := StatusFor(kind)
	if status >= http.StatusInternalServerError {
		errutil.LogErrorContext(r.Context(), h.logger, operation+" failed", err,
			"request_id", middleware.GetReqID(r.Context()))
	} else {
		h.logger.DebugContext(r.Context(), operation+" rejected",
			"kind", string(kind),
			"request_id", middleware.GetReqID(r.Context()))
	}
	writeJSON(w, status, errorBody{Kind: kind, Message: publicMessage(kind, err)})
}
