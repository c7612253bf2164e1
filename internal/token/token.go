// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultAudience is the audience tag bound into every token.
const DefaultAudience = "user"

// Default lifetimes.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Options controls how a single kind of token is signed and verified.
type Options struct {
	Secret   []byte
	Audience string
	TTL      time.Duration
}

func (o Options) validate(kind string) error {
	if len(o.Secret) == 0 {
		return oops.Code("TOKEN_CONFIG_INVALID").With("kind", kind).Errorf("%s secret is required", kind)
	}
	if o.Audience == "" {
		return oops.Code("TOKEN_CONFIG_INVALID").With("kind", kind).Errorf("%s audience is required", kind)
	}
	if o.TTL <= 0 {
		return oops.Code("TOKEN_CONFIG_INVALID").With("kind", kind).Errorf("%s ttl must be positive", kind)
	}
	return nil
}

// Claims is implemented by the claim sets this package signs.
type Claims interface {
	jwt.Claims
	registered() *jwt.RegisteredClaims
}

// Sign binds expiry, audience and a unique token ID into claims and signs
// them with HS256.
func Sign(claims Claims, opts Options, now time.Time) (string, error) {
	rc := claims.registered()
	rc.Audience = jwt.ClaimStrings{opts.Audience}
	rc.IssuedAt = jwt.NewNumericDate(now)
	rc.ExpiresAt = jwt.NewNumericDate(now.Add(opts.TTL))
	rc.ID = ulid.Make().String()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(opts.Secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("audience", opts.Audience).Wrap(err)
	}
	return signed, nil
}

// Verify checks signature, audience and expiry of raw and decodes it into
// claims. It never panics; every failure comes back as an error coded
// TOKEN_EXPIRED, TOKEN_MALFORMED or TOKEN_INVALID.
func Verify(raw string, claims Claims, opts Options, now func() time.Time) error {
	if raw == "" {
		return oops.Code("TOKEN_MALFORMED").Errorf("token is empty")
	}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(opts.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return oops.Code("TOKEN_EXPIRED").Wrap(err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return oops.Code("TOKEN_MALFORMED").Wrap(err)
	default:
		return oops.Code("TOKEN_INVALID").Wrap(err)
	}
}
