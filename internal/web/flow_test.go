// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latchkey/latchkey/internal/auth"
	"github.com/latchkey/latchkey/internal/auth/memory"
)

// capturingNotifier keeps the secrets the service hands out so the flow can
// act on them the way a mailbox owner would.
type capturingNotifier struct {
	mu        sync.Mutex
	codes     map[string]string
	resetURLs map[string]string
	welcomed  []string
	resetDone []string
}

func newCapturingNotifier() *capturingNotifier {
	return &capturingNotifier{codes: map[string]string{}, resetURLs: map[string]string{}}
}

func (n *capturingNotifier) SendVerification(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = code
	return nil
}

func (n *capturingNotifier) SendWelcome(_ context.Context, email, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, email)
	return nil
}

func (n *capturingNotifier) SendResetRequest(_ context.Context, email, resetURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetURLs[email] = resetURL
	return nil
}

func (n *capturingNotifier) SendResetSuccess(_ context.Context, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetDone = append(n.resetDone, email)
	return nil
}

func (n *capturingNotifier) code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

func (n *capturingNotifier) resetToken(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	u := n.resetURLs[email]
	return u[strings.LastIndex(u, "/")+1:]
}

func newFlowHandler(t *testing.T) (http.Handler, *capturingNotifier, *memory.AccountRepository) {
	t.Helper()

	hasher, err := auth.NewBcryptHasher(auth.MinBcryptCost)
	require.NoError(t, err)
	sessions, err := auth.NewSessionIssuer(auth.SessionConfig{
		Secret: []byte(strings.Repeat("k", auth.MinSessionSecretSize)),
	})
	require.NoError(t, err)
	guard, err := auth.NewGuard(sessions)
	require.NoError(t, err)

	notifier := newCapturingNotifier()
	repo := memory.NewAccountRepository()
	cfg := auth.DefaultServiceConfig()
	cfg.ResetURLBase = "http://localhost:5173/reset-password"
	svc, err := auth.NewService(auth.ServiceDeps{
		Accounts: repo,
		Notifier: notifier,
		Hasher:   hasher,
		Sessions: sessions,
		Logger:   quietLogger(),
	}, cfg)
	require.NoError(t, err)

	h := newTestHandler(t, svc, guard, nil)
	return h, notifier, repo
}

func TestFlow_AccountLifecycle(t *testing.T) {
	h, notifier, repo := newFlowHandler(t)

	// Signup issues a session and a verification code.
	resp := serve(h, jsonRequest(http.MethodPost, "/auth/signup",
		`{"email":"Ada@Example.com","password":"analytical-engine","name":"Ada"}`))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	session := sessionCookie(t, resp)
	body := decodeBody(t, resp)
	assert.Equal(t, "ada@example.com", body.User.Email)
	assert.False(t, body.User.IsVerified)
	assert.Equal(t, 1, repo.Len())

	code := notifier.code("ada@example.com")
	require.Len(t, code, 6)

	// The same email cannot sign up twice.
	resp = serve(h, jsonRequest(http.MethodPost, "/auth/signup",
		`{"email":"ada@example.com","password":"another-one","name":"Imposter"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(auth.KindDuplicateAccount), decodeBody(t, resp).Kind)

	// The session cookie authenticates check-auth.
	resp = serve(h, jsonRequest(http.MethodGet, "/auth/check-auth", "", session))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, body.User.ID, decodeBody(t, resp).User.ID)

	// Verification consumes the code once.
	resp = serve(h, jsonRequest(http.MethodPost, "/auth/verify-email", `{"code":"`+code+`"}`))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, decodeBody(t, resp).User.IsVerified)
	assert.Equal(t, []string{"ada@example.com"}, notifier.welcomed)

	resp = serve(h, jsonRequest(http.MethodPost, "/auth/verify-email", `{"code":"`+code+`"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(auth.KindInvalidOrExpiredCode), decodeBody(t, resp).Kind)

	// Logout clears the cookie.
	resp = serve(h, jsonRequest(http.MethodPost, "/auth/logout", "", session))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, sessionCookie(t, resp).Value)

	// Wrong passwords and unknown emails fail the same way.
	resp = serve(h, jsonRequest(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"wrong-password"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(auth.KindInvalidCredentials), decodeBody(t, resp).Kind)

	resp = serve(h, jsonRequest(http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"wrong-password"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(auth.KindInvalidCredentials), decodeBody(t, resp).Kind)

	// Password reset through the emailed link.
	resp = serve(h, jsonRequest(http.MethodPost, "/auth/forgot-password", `{"email":"ada@example.com"}`))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	token := notifier.resetToken("ada@example.com")
	require.NotEmpty(t, token)

	resp = serve(h, jsonRequest(http.MethodPost, "/auth/reset-password/"+token, `{"password":"difference-engine"}`))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, []string{"ada@example.com"}, notifier.resetDone)

	resp = serve(h, jsonRequest(http.MethodPost, "/auth/reset-password/"+token, `{"password":"third-attempt"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(auth.KindInvalidOrExpiredToken), decodeBody(t, resp).Kind)

	// Only the new password works.
	resp = serve(h, jsonRequest(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"analytical-engine"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = serve(h, jsonRequest(http.MethodPost, "/auth/login", `{"email":"ADA@example.com","password":"difference-engine"}`))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body = decodeBody(t, resp)
	assert.True(t, body.User.IsVerified)
	assert.NotNil(t, body.User.LastLoginAt)

	resp = serve(h, jsonRequest(http.MethodGet, "/auth/check-auth", "", sessionCookie(t, resp)))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestFlow_SignupValidation(t *testing.T) {
	h, _, repo := newFlowHandler(t)

	resp := serve(h, jsonRequest(http.MethodPost, "/auth/signup", `{"email":"ada@example.com","password":"","name":"Ada"}`))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, string(auth.KindValidation), body.Kind)
	assert.Equal(t, "All fields are required", body.Message)
	assert.Equal(t, 0, repo.Len())
}
