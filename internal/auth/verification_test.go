// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
	"github.com/gatehouse-auth/gatehouse/pkg/errutil"
)

func TestCodeTypeValid(t *testing.T) {
	assert.True(t, auth.CodeEmailVerification.Valid())
	assert.True(t, auth.CodePasswordReset.Valid())
	assert.False(t, auth.CodeType("magic_link").Valid())
	assert.False(t, auth.CodeType("").Valid())
}

func TestGenerateCodeID(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id, err := auth.GenerateCodeID()
		require.NoError(t, err)
		assert.Len(t, id, 2*auth.CodeIDBytes)
		_, err = hex.DecodeString(id)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate code id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewVerificationCode(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	userID := ulid.Make()

	t.Run("valid code", func(t *testing.T) {
		code, err := auth.NewVerificationCode(userID, auth.CodeEmailVerification, now, auth.DefaultEmailVerificationTTL)
		require.NoError(t, err)
		assert.Equal(t, userID, code.UserID)
		assert.Equal(t, auth.CodeEmailVerification, code.Type)
		assert.Equal(t, now.Add(365*24*time.Hour), code.ExpiresAt)
		assert.Equal(t, now, code.CreatedAt)
		assert.Len(t, code.ID, 24)
	})

	errs := []struct {
		name   string
		userID ulid.ULID
		typ    auth.CodeType
		ttl    time.Duration
		code   string
	}{
		{"zero user", ulid.ULID{}, auth.CodePasswordReset, time.Hour, "CODE_INVALID_USER"},
		{"unknown type", userID, auth.CodeType("bogus"), time.Hour, "CODE_INVALID_TYPE"},
		{"non-positive ttl", userID, auth.CodePasswordReset, -time.Second, "CODE_INVALID_EXPIRY"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			code, err := auth.NewVerificationCode(tt.userID, tt.typ, now, tt.ttl)
			assert.Nil(t, code)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestVerificationCodeIsValidAt(t *testing.T) {
	expires := time.Date(2026, 1, 10, 1, 0, 0, 0, time.UTC)
	code := &auth.VerificationCode{Type: auth.CodePasswordReset, ExpiresAt: expires}

	assert.True(t, code.IsValidAt(expires.Add(-time.Second), auth.CodePasswordReset))
	assert.False(t, code.IsValidAt(expires, auth.CodePasswordReset), "expired at its expiry")
	assert.False(t, code.IsValidAt(expires.Add(-time.Second), auth.CodeEmailVerification), "wrong type")
}
