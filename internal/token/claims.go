// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// AccessClaims is the signed body of an access token.
type AccessClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) registered() *jwt.RegisteredClaims { return &c.RegisteredClaims }

// RefreshClaims is the signed body of a refresh token. It deliberately has no
// user field.
type RefreshClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

func (c *RefreshClaims) registered() *jwt.RegisteredClaims { return &c.RegisteredClaims }

// AccessPayload is a verified access token.
type AccessPayload struct {
	UserID    ulid.ULID
	SessionID ulid.ULID
}

// RefreshPayload is a verified refresh token.
type RefreshPayload struct {
	SessionID ulid.ULID
}

func parseID(field, value string) (ulid.ULID, error) {
	id, err := ulid.Parse(value)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_INVALID").With("claim", field).Wrap(err)
	}
	return id, nil
}
