// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// Cookie names and the path the refresh cookie is scoped to.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
	RefreshPath   = "/auth/refresh"
)

// Cookies writes the auth cookies. The refresh cookie is only sent to
// RefreshPath so it never travels with ordinary requests.
type Cookies struct {
	Secure     bool
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	now        func() time.Time
}

// NewCookies returns Cookies with the token lifetimes as cookie lifetimes.
func NewCookies(secure bool, domain string) *Cookies {
	return &Cookies{
		Secure:     secure,
		Domain:     domain,
		AccessTTL:  token.DefaultAccessTTL,
		RefreshTTL: token.DefaultRefreshTTL,
		now:        time.Now,
	}
}

// WithClock sets the time source used for expiry.
func (c *Cookies) WithClock(now func() time.Time) *Cookies {
	c.now = now
	return c
}

// SetAuth writes both cookies.
func (c *Cookies) SetAuth(w http.ResponseWriter, accessToken, refreshToken string) {
	c.SetAccess(w, accessToken)
	http.SetCookie(w, c.cookie(RefreshCookie, refreshToken, RefreshPath, c.now().Add(c.RefreshTTL)))
}

// SetAccess writes only the access cookie.
func (c *Cookies) SetAccess(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, c.cookie(AccessCookie, accessToken, "/", c.now().Add(c.AccessTTL)))
}

// Clear expires both cookies. Paths must match the ones they were set with
// or the browser keeps them.
func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, ck := range []*http.Cookie{
		c.cookie(AccessCookie, "", "/", time.Unix(0, 0)),
		c.cookie(RefreshCookie, "", RefreshPath, time.Unix(0, 0)),
	} {
		ck.MaxAge = -1
		http.SetCookie(w, ck)
	}
}

func (c *Cookies) cookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   c.Domain,
		Expires:  expires,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
