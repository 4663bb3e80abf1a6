// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/latchkey/latchkey/internal/auth"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeService lets each test stub only the operations it drives.
type fakeService struct {
	signup             func(context.Context, auth.SignupRequest) (*auth.SessionResult, error)
	verifyEmail        func(context.Context, string) (*auth.Account, error)
	login              func(context.Context, string, string) (*auth.SessionResult, error)
	forgotPassword     func(context.Context, string) error
	resetPassword      func(context.Context, string, string) error
	checkAuth          func(context.Context, ulid.ULID) (*auth.Account, error)
	resendVerification func(context.Context, ulid.ULID) error

	mu        sync.Mutex
	loggedOut []*ulid.ULID
}

func (f *fakeService) Signup(ctx context.Context, req auth.SignupRequest) (*auth.SessionResult, error) {
	return f.signup(ctx, req)
}

func (f *fakeService) VerifyEmail(ctx context.Context, code string) (*auth.Account, error) {
	return f.verifyEmail(ctx, code)
}

func (f *fakeService) Login(ctx context.Context, email, password string) (*auth.SessionResult, error) {
	return f.login(ctx, email, password)
}

func (f *fakeService) Logout(_ context.Context, id *ulid.ULID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, id)
}

func (f *fakeService) ForgotPassword(ctx context.Context, email string) error {
	return f.forgotPassword(ctx, email)
}

func (f *fakeService) ResetPassword(ctx context.Context, token, password string) error {
	return f.resetPassword(ctx, token, password)
}

func (f *fakeService) CheckAuth(ctx context.Context, id ulid.ULID) (*auth.Account, error) {
	return f.checkAuth(ctx, id)
}

func (f *fakeService) ResendVerification(ctx context.Context, id ulid.ULID) error {
	return f.resendVerification(ctx, id)
}

// stubGuard accepts exactly one token.
type stubGuard struct {
	token string
	id    ulid.ULID
}

func (g stubGuard) Authenticate(token string) (ulid.ULID, error) {
	if token != g.token {
		return ulid.ULID{}, auth.ErrUnauthenticated
	}
	return g.id, nil
}

type opRecorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *opRecorder) ObserveOperation(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, operation+"="+outcome)
}

func (r *opRecorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func newTestHandler(t *testing.T, svc Service, guard Authenticator, rec OperationRecorder) http.Handler {
	t.Helper()
	h, err := NewHandler(Config{
		Service: svc,
		Guard:   guard,
		Logger:  quietLogger(),
		Metrics: rec,
	})
	require.NoError(t, err)
	return h.Routes()
}

func jsonRequest(method, target, body string, cookies ...*http.Cookie) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type responseBody struct {
	Success bool       `json:"success"`
	Kind    string     `json:"kind"`
	Message string     `json:"message"`
	User    *auth.View `json:"user"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) responseBody {
	t.Helper()
	var body responseBody
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body), rec.Body.String())
	return body
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", DefaultCookieName)
	return nil
}
