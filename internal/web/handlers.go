// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/latchkey/latchkey/internal/auth"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Code string `json:"code"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "signup", err)
		return
	}
	result, err := h.svc.Signup(r.Context(), auth.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if result != nil {
		// The account exists even when its verification notice failed.
		h.cookies.set(w, result.Token, result.TokenExpiresAt)
	}
	if err != nil {
		h.fail(w, r, "signup", err)
		return
	}
	h.observe("signup", nil)
	writeOK(w, http.StatusCreated, "User created successfully", result.Account)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "verify_email", err)
		return
	}
	account, err := h.svc.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		h.fail(w, r, "verify_email", err)
		return
	}
	h.observe("verify_email", nil)
	writeOK(w, http.StatusOK, "Email verified successfully", account)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}
	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	h.cookies.set(w, result.Token, result.TokenExpiresAt)
	h.observe("login", nil)
	writeOK(w, http.StatusOK, "Logged in successfully", result.Account)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var id *ulid.ULID
	if got, ok := AccountIDFromContext(r.Context()); ok {
		id = &got
	}
	h.svc.Logout(r.Context(), id)
	h.cookies.clear(w)
	h.observe("logout", nil)
	writeOK(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "forgot_password", err)
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		h.fail(w, r, "forgot_password", err)
		return
	}
	h.observe("forgot_password", nil)
	writeOK(w, http.StatusOK, "Password reset link sent to your email", nil)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "reset_password", err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		h.fail(w, r, "reset_password", err)
		return
	}
	h.observe("reset_password", nil)
	writeOK(w, http.StatusOK, "Password reset successful", nil)
}

func (h *Handler) checkAuth(w http.ResponseWriter, r *http.Request) {
	id, _ := AccountIDFromContext(r.Context())
	account, err := h.svc.CheckAuth(r.Context(), id)
	if err != nil {
		h.fail(w, r, "check_auth", err)
		return
	}
	h.observe("check_auth", nil)
	writeOK(w, http.StatusOK, "", account)
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	id, _ := AccountIDFromContext(r.Context())
	if err := h.svc.ResendVerification(r.Context(), id); err != nil {
		h.fail(w, r, "resend_verification", err)
		return
	}
	h.observe("resend_verification", nil)
	writeOK(w, http.StatusOK, "Verification code sent", nil)
}
