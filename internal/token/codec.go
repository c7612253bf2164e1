// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package token

import (
	"crypto/subtle"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Config holds both secrets and lifetimes.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Codec signs and verifies access and refresh tokens.
type Codec struct {
	access  Options
	refresh Options
	now     func() time.Time
}

// NewCodec builds a Codec. Empty fields other than the secrets fall back to
// DefaultAudience, DefaultAccessTTL and DefaultRefreshTTL.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Audience == "" {
		cfg.Audience = DefaultAudience
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}

	access := Options{Secret: []byte(cfg.AccessSecret), Audience: cfg.Audience, TTL: cfg.AccessTTL}
	refresh := Options{Secret: []byte(cfg.RefreshSecret), Audience: cfg.Audience, TTL: cfg.RefreshTTL}
	if err := access.validate("access"); err != nil {
		return nil, err
	}
	if err := refresh.validate("refresh"); err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(access.Secret, refresh.Secret) == 1 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("access and refresh secrets must differ")
	}

	return &Codec{access: access, refresh: refresh, now: time.Now}, nil
}

// WithClock returns a copy of c that reads the current time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// AccessTTL reports how long access tokens live.
func (c *Codec) AccessTTL() time.Duration { return c.access.TTL }

// RefreshTTL reports how long refresh tokens live.
func (c *Codec) RefreshTTL() time.Duration { return c.refresh.TTL }

// SignAccess issues an access token for a user's session.
func (c *Codec) SignAccess(userID, sessionID ulid.ULID) (string, error) {
	return Sign(&AccessClaims{UserID: userID.String(), SessionID: sessionID.String()}, c.access, c.now())
}

// SignRefresh issues a refresh token naming only the session.
func (c *Codec) SignRefresh(sessionID ulid.ULID) (string, error) {
	return Sign(&RefreshClaims{SessionID: sessionID.String()}, c.refresh, c.now())
}

// VerifyAccess verifies an access token with the access secret.
func (c *Codec) VerifyAccess(raw string) (AccessPayload, error) {
	var claims AccessClaims
	if err := Verify(raw, &claims, c.access, c.now); err != nil {
		return AccessPayload{}, err
	}
	userID, err := parseID("userId", claims.UserID)
	if err != nil {
		return AccessPayload{}, err
	}
	sessionID, err := parseID("sessionId", claims.SessionID)
	if err != nil {
		return AccessPayload{}, err
	}
	return AccessPayload{UserID: userID, SessionID: sessionID}, nil
}

// VerifyRefresh verifies a refresh token with the refresh secret.
func (c *Codec) VerifyRefresh(raw string) (RefreshPayload, error) {
	var claims RefreshClaims
	if err := Verify(raw, &claims, c.refresh, c.now); err != nil {
		return RefreshPayload{}, err
	}
	sessionID, err := parseID("sessionId", claims.SessionID)
	if err != nil {
		return RefreshPayload{}, err
	}
	return RefreshPayload{SessionID: sessionID}, nil
}
