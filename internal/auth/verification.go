// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CodeType tags what a verification code proves.
type CodeType string

// Verification code types.
const (
	CodeEmailVerification CodeType = "email_verification"
	CodePasswordReset     CodeType = "password_reset"
)

// Valid reports whether t is a known code type.
func (t CodeType) Valid() bool {
	switch t {
	case CodeEmailVerification, CodePasswordReset:
		return true
	default:
		return false
	}
}

// Verification code defaults.
const (
	CodeIDBytes = 12 // 24 hex chars

	DefaultEmailVerificationTTL = 365 * 24 * time.Hour
	DefaultPasswordResetTTL     = time.Hour
)

// VerificationCode is a single-use, typed, expiring proof. Its ID is the
// bearer value handed to the client.
type VerificationCode struct {
	ID        string
	UserID    ulid.ULID
	Type      CodeType
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewVerificationCode creates a code of type typ for userID valid for ttl.
func NewVerificationCode(userID ulid.ULID, typ CodeType, now time.Time, ttl time.Duration) (*VerificationCode, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("CODE_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if !typ.Valid() {
		return nil, oops.Code("CODE_INVALID_TYPE").With("type", string(typ)).Errorf("unknown verification code type")
	}
	if ttl <= 0 {
		return nil, oops.Code("CODE_INVALID_EXPIRY").Errorf("verification code expiry must be in the future")
	}

	id, err := GenerateCodeID()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &VerificationCode{
		ID:        id,
		UserID:    userID,
		Type:      typ,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// GenerateCodeID returns a random lower-case hex identifier.
func GenerateCodeID() (string, error) {
	b := make([]byte, CodeIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", oops.Code("CODE_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", CodeIDBytes).
			Wrap(err)
	}
	return hex.EncodeToString(b), nil
}

// IsValidAt reports whether the code can be redeemed as typ at t.
func (c *VerificationCode) IsValidAt(t time.Time, typ CodeType) bool {
	return c.Type == typ && c.ExpiresAt.After(t)
}

// VerificationCodeRepository manages verification code persistence.
type VerificationCodeRepository interface {
	// Create stores a new code.
	Create(ctx context.Context, code *VerificationCode) error

	// FindValid returns the code with id and typ that is unexpired at now,
	// or ErrNotFound.
	FindValid(ctx context.Context, id string, typ CodeType, now time.Time) (*VerificationCode, error)

	// Delete removes a code. Returns ErrNotFound if it was already removed,
	// which makes deletion the point of single use.
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes every code of typ owned by userID.
	DeleteByUser(ctx context.Context, userID ulid.ULID, typ CodeType) (int64, error)

	// DeleteExpired removes codes expired at now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
