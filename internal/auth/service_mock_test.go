// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
	"github.com/gatehouse-auth/gatehouse/internal/auth/mocks"
	"github.com/gatehouse-auth/gatehouse/internal/token"
	"github.com/gatehouse-auth/gatehouse/pkg/errutil"
)

type mockDeps struct {
	creds    *mocks.MockCredentialStore
	sessions *mocks.MockSessionRepository
	codes    *mocks.MockVerificationCodeRepository
	tokens   *mocks.MockTokenCodec
	notifier *mocks.MockNotifier
	logs     *bytes.Buffer
	now      time.Time
}

func newMockService(t *testing.T) (*auth.Service, *mockDeps) {
	t.Helper()
	d := &mockDeps{
		creds:    mocks.NewMockCredentialStore(t),
		sessions: mocks.NewMockSessionRepository(t),
		codes:    mocks.NewMockVerificationCodeRepository(t),
		tokens:   mocks.NewMockTokenCodec(t),
		notifier: mocks.NewMockNotifier(t),
		logs:     &bytes.Buffer{},
		now:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	svc, err := auth.NewService(auth.ServiceDeps{
		Credentials: d.creds,
		Sessions:    d.sessions,
		Codes:       d.codes,
		Tokens:      d.tokens,
		Notifier:    d.notifier,
		Logger:      slog.New(slog.NewTextHandler(d.logs, nil)),
		Clock:       func() time.Time { return d.now },
	}, auth.DefaultConfig())
	require.NoError(t, err)
	return svc, d
}

func TestNewService_NilDependencies(t *testing.T) {
	full := func() auth.ServiceDeps {
		return auth.ServiceDeps{
			Credentials: mocks.NewMockCredentialStore(t),
			Sessions:    mocks.NewMockSessionRepository(t),
			Codes:       mocks.NewMockVerificationCodeRepository(t),
			Tokens:      mocks.NewMockTokenCodec(t),
		}
	}
	tests := []struct {
		name        string
		mutate      func(*auth.ServiceDeps)
		expectError string
	}{
		{"nil credential store", func(d *auth.ServiceDeps) { d.Credentials = nil }, "credential store is required"},
		{"nil session repository", func(d *auth.ServiceDeps) { d.Sessions = nil }, "session repository is required"},
		{"nil code repository", func(d *auth.ServiceDeps) { d.Codes = nil }, "verification code repository is required"},
		{"nil token codec", func(d *auth.ServiceDeps) { d.Tokens = nil }, "token codec is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := full()
			tt.mutate(&deps)
			svc, err := auth.NewService(deps, auth.DefaultConfig())
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	t.Run("optional dependencies default", func(t *testing.T) {
		svc, err := auth.NewService(full(), auth.DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := auth.DefaultConfig()
		cfg.RefreshWindow = cfg.SessionTTL * 2
		_, err := auth.NewService(full(), cfg)
		errutil.AssertErrorCode(t, err, "AUTH_CONFIG_INVALID")
	})
}

func TestRefreshAccessToken_LostExtension(t *testing.T) {
	ctx := context.Background()
	svc, d := newMockService(t)

	userID, sessionID := ulid.Make(), ulid.Make()
	session := &auth.Session{ID: sessionID, UserID: userID, ExpiresAt: d.now.Add(time.Hour)}

	d.tokens.On("VerifyRefresh", "refresh").Return(token.RefreshPayload{SessionID: sessionID}, nil)
	d.sessions.On("GetByID", ctx, sessionID).Return(session, nil)
	d.sessions.On("Extend", ctx, sessionID, session.ExpiresAt, d.now.Add(auth.DefaultSessionTTL)).
		Return(auth.ErrStale)
	d.tokens.On("SignAccess", userID, sessionID).Return("access", nil)

	res, err := svc.RefreshAccessToken(ctx, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "access", res.AccessToken)
	assert.False(t, res.Rotated())
	d.tokens.AssertNotCalled(t, "SignRefresh", mock.Anything)
}

func TestRefreshAccessToken_SessionDeletedDuringExtension(t *testing.T) {
	ctx := context.Background()
	svc, d := newMockService(t)

	sessionID := ulid.Make()
	session := &auth.Session{ID: sessionID, UserID: ulid.Make(), ExpiresAt: d.now.Add(time.Minute)}

	d.tokens.On("VerifyRefresh", "refresh").Return(token.RefreshPayload{SessionID: sessionID}, nil)
	d.sessions.On("GetByID", ctx, sessionID).Return(session, nil)
	d.sessions.On("Extend", ctx, sessionID, mock.Anything, mock.Anything).Return(auth.ErrNotFound)

	_, err := svc.RefreshAccessToken(ctx, "refresh")
	errutil.AssertErrorCode(t, err, auth.CodeSessionExpired)
}

func TestRefreshAccessToken_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	svc, d := newMockService(t)

	sessionID := ulid.Make()
	d.tokens.On("VerifyRefresh", "refresh").Return(token.RefreshPayload{SessionID: sessionID}, nil)
	d.sessions.On("GetByID", ctx, sessionID).Return(nil, errors.New("connection reset"))

	_, err := svc.RefreshAccessToken(ctx, "refresh")
	require.Error(t, err)
	assert.Equal(t, auth.KindInternal, auth.KindOf(err))
	assert.Equal(t, auth.InternalMessage, auth.PublicMessage(err))
	errutil.AssertErrorContext(t, err, "operation", "get session")
}

func TestLogoutUser_DeleteFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	svc, d := newMockService(t)

	sessionID := ulid.Make()
	d.tokens.On("VerifyAccess", "access").Return(token.AccessPayload{UserID: ulid.Make(), SessionID: sessionID}, nil)
	d.sessions.On("Delete", ctx, sessionID).Return(errors.New("connection reset"))

	svc.LogoutUser(ctx, "access")

	logs := d.logs.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "best-effort")
	assert.Contains(t, logs, "operation=delete_session")
	assert.Contains(t, logs, "connection reset")
}

func TestLogoutUser_InvalidTokenSkipsStore(t *testing.T) {
	svc, d := newMockService(t)
	d.tokens.On("VerifyAccess", "bad").Return(token.AccessPayload{}, errors.New("invalid"))

	svc.LogoutUser(context.Background(), "bad")

	d.sessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateAccount_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("exists check fails", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.On("Exists", ctx, "a@example.com").Return(false, errors.New("db down"))

		_, err := svc.CreateAccount(ctx, auth.CreateAccountParams{Email: "a@example.com", Password: "secret123"})
		errutil.AssertErrorCode(t, err, "AUTH_CREATE_ACCOUNT_FAILED")
		assert.Equal(t, auth.KindInternal, auth.KindOf(err))
	})

	t.Run("lost race on unique email is a conflict", func(t *testing.T) {
		svc, d := newMockService(t)
		d.creds.On("Exists", ctx, "a@example.com").Return(false, nil)
		d.creds.On("Create", ctx, "a@example.com", "secret123").
			Return(nil, oops.Code(auth.CodeEmailTaken).Errorf("duplicate key"))

		_, err := svc.CreateAccount(ctx, auth.CreateAccountParams{Email: "a@example.com", Password: "secret123"})
		assert.Equal(t, auth.KindConflict, auth.KindOf(err))
	})

	t.Run("verification code persist fails", func(t *testing.T) {
		svc, d := newMockService(t)
		user := &auth.User{ID: ulid.Make(), Email: "a@example.com"}
		d.creds.On("Exists", ctx, "a@example.com").Return(false, nil)
		d.creds.On("Create", ctx, "a@example.com", "secret123").Return(user, nil)
		d.codes.On("Create", ctx, mock.AnythingOfType("*auth.VerificationCode")).Return(errors.New("db down"))

		_, err := svc.CreateAccount(ctx, auth.CreateAccountParams{Email: "a@example.com", Password: "secret123"})
		errutil.AssertErrorContext(t, err, "operation", "persist verification code")
		d.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestVerifyEmail_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup failure is internal", func(t *testing.T) {
		svc, d := newMockService(t)
		d.codes.On("FindValid", ctx, "abc", auth.CodeEmailVerification, d.now).Return(nil, errors.New("db down"))

		_, err := svc.VerifyEmail(ctx, "abc")
		errutil.AssertErrorCode(t, err, "AUTH_CODE_LOOKUP_FAILED")
		assert.Equal(t, auth.KindInternal, auth.KindOf(err))
	})

	t.Run("code consumed by a concurrent request", func(t *testing.T) {
		svc, d := newMockService(t)
		userID := ulid.Make()
		vc := &auth.VerificationCode{ID: "abc", UserID: userID, Type: auth.CodeEmailVerification, ExpiresAt: d.now.Add(time.Hour)}
		d.codes.On("FindValid", ctx, "abc", auth.CodeEmailVerification, d.now).Return(vc, nil)
		d.creds.On("UpdateVerified", ctx, userID).Return(&auth.User{ID: userID, Verified: true}, nil)
		d.codes.On("Delete", ctx, "abc").Return(auth.ErrNotFound)

		_, err := svc.VerifyEmail(ctx, "abc")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCode)
	})

	t.Run("update failure", func(t *testing.T) {
		svc, d := newMockService(t)
		userID := ulid.Make()
		vc := &auth.VerificationCode{ID: "abc", UserID: userID, Type: auth.CodeEmailVerification, ExpiresAt: d.now.Add(time.Hour)}
		d.codes.On("FindValid", ctx, "abc", auth.CodeEmailVerification, d.now).Return(vc, nil)
		d.creds.On("UpdateVerified", ctx, userID).Return(nil, errors.New("db down"))

		_, err := svc.VerifyEmail(ctx, "abc")
		require.Error(t, err)
		assert.Equal(t, auth.KindInternal, auth.KindOf(err))
		assert.Equal(t, auth.InternalMessage, auth.PublicMessage(err))
		d.codes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestResetPassword_SessionCleanupFailure(t *testing.T) {
	ctx := context.Background()
	svc, d := newMockService(t)

	userID := ulid.Make()
	vc := &auth.VerificationCode{ID: "abc", UserID: userID, Type: auth.CodePasswordReset, ExpiresAt: d.now.Add(time.Hour)}
	d.codes.On("FindValid", ctx, "abc", auth.CodePasswordReset, d.now).Return(vc, nil)
	d.codes.On("Delete", ctx, "abc").Return(nil)
	d.creds.On("UpdatePassword", ctx, userID, "new-secret").Return(&auth.User{ID: userID}, nil)
	d.sessions.On("DeleteByUser", ctx, userID).Return(int64(0), errors.New("db down"))

	_, err := svc.ResetPassword(ctx, auth.ResetPasswordParams{Code: "abc", Password: "new-secret"})
	errutil.AssertErrorCode(t, err, "AUTH_PASSWORD_RESET_FAILED")
	errutil.AssertErrorContext(t, err, "operation", "delete sessions")
}
