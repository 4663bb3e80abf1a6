// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package web

import (
	"net/http"
	"time"

	"github.com/latchkey/latchkey/internal/auth"
)

// DefaultCookieName is the session cookie name.
const DefaultCookieName = "token"

// CookieConfig shapes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	Domain string
	TTL    time.Duration
}

func (c CookieConfig) withDefaults() CookieConfig {
	if c.Name == "" {
		c.Name = DefaultCookieName
	}
	if c.TTL <= 0 {
		c.TTL = auth.SessionTokenExpiry
	}
	return c
}

func (c CookieConfig) set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  expiresAt,
		MaxAge:   int(c.TTL / time.Second),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c CookieConfig) read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
