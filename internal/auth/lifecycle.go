// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CreateAccount registers a user, issues an email verification code and
// starts the first session.
func (s *Service) CreateAccount(ctx context.Context, p CreateAccountParams) (result *AuthResult, err error) {
	defer func() { s.metrics.RecordOperation(OpCreateAccount, outcomeOf(err)) }()

	exists, err := s.credentials.Exists(ctx, p.Email)
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_ACCOUNT_FAILED").With("operation", "check email").Wrap(err)
	}
	if exists {
		return nil, fail(CodeEmailTaken)
	}

	user, err := s.credentials.Create(ctx, p.Email, p.Password)
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_ACCOUNT_FAILED").With("operation", "create user").Wrap(err)
	}

	code, err := NewVerificationCode(user.ID, CodeEmailVerification, s.now(), s.cfg.VerificationCodeTTL)
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_ACCOUNT_FAILED").With("operation", "new verification code").Wrap(err)
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, oops.Code("AUTH_CREATE_ACCOUNT_FAILED").
			With("operation", "persist verification code").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	result, err = s.startSession(ctx, user, p.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendVerificationEmail(ctx, user, code); err != nil {
		s.logger.WarnContext(ctx, "send verification email failed (best-effort)",
			"operation", "send_verification_email",
			"user_id", user.ID.String(),
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "account created", "user_id", user.ID.String())
	return result, nil
}

// LoginUser checks credentials and starts a new session. Unknown emails and
// wrong passwords fail identically.
func (s *Service) LoginUser(ctx context.Context, p LoginParams) (result *AuthResult, err error) {
	defer func() { s.metrics.RecordOperation(OpLogin, outcomeOf(err)) }()

	user, err := s.credentials.FindByEmail(ctx, p.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").With("operation", "find user").Wrap(err)
		}
		user = nil
	}

	valid, err := s.credentials.ComparePassword(user, p.Password)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").With("operation", "compare password").Wrap(err)
	}
	if user == nil || !valid {
		return nil, fail(CodeInvalidCredentials)
	}

	return s.startSession(ctx, user, p.UserAgent)
}

// startSession persists a fresh session for user and signs its token pair.
func (s *Service) startSession(ctx context.Context, user *User, userAgent string) (*AuthResult, error) {
	session, err := NewSession(user.ID, userAgent, s.now(), s.cfg.SessionTTL)
	if err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").With("operation", "new session").Wrap(err)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	access, err := s.tokens.SignAccess(user.ID, session.ID)
	if err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").With("operation", "sign access token").Wrap(err)
	}
	refresh, err := s.tokens.SignRefresh(session.ID)
	if err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").With("operation", "sign refresh token").Wrap(err)
	}

	return &AuthResult{User: user.View(), AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. When
// the session is within the refresh window of its expiry it is extended by a
// full session lifetime and a new refresh token is issued as well.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (result *RefreshResult, err error) {
	defer func() { s.metrics.RecordOperation(OpRefresh, outcomeOf(err)) }()

	payload, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.logger.DebugContext(ctx, "refresh token rejected", "error", err)
		return nil, fail(CodeInvalidRefreshToken)
	}

	now := s.now()
	session, err := s.sessions.GetByID(ctx, payload.SessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fail(CodeSessionExpired, "session_id", payload.SessionID.String())
		}
		return nil, oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "get session").
			With("session_id", payload.SessionID.String()).
			Wrap(err)
	}
	if session.IsExpiredAt(now) {
		return nil, fail(CodeSessionExpired, "session_id", session.ID.String())
	}

	result = &RefreshResult{}
	if session.NeedsRefreshAt(now, s.cfg.RefreshWindow) {
		rotated, err := s.extendSession(ctx, session, now)
		if err != nil {
			return nil, err
		}
		result.RefreshToken = rotated
	}

	result.AccessToken, err = s.tokens.SignAccess(session.UserID, session.ID)
	if err != nil {
		return nil, oops.Code("AUTH_REFRESH_FAILED").With("operation", "sign access token").Wrap(err)
	}
	return result, nil
}

// extendSession pushes the session's expiry to a full lifetime after now and
// returns a new refresh token. Losing a concurrent extension is not an error;
// the winner already extended the session and no token is returned.
func (s *Service) extendSession(ctx context.Context, session *Session, now time.Time) (string, error) {
	next := now.UTC().Add(s.cfg.SessionTTL)

	err := s.sessions.Extend(ctx, session.ID, session.ExpiresAt, next)
	switch {
	case errors.Is(err, ErrStale):
		s.logger.DebugContext(ctx, "session extended concurrently", "session_id", session.ID.String())
		return "", nil
	case errors.Is(err, ErrNotFound):
		return "", fail(CodeSessionExpired, "session_id", session.ID.String())
	case err != nil:
		return "", oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "extend session").
			With("session_id", session.ID.String()).
			Wrap(err)
	}
	session.ExpiresAt = next
	s.metrics.RecordSessionExtended()

	refresh, err := s.tokens.SignRefresh(session.ID)
	if err != nil {
		return "", oops.Code("AUTH_REFRESH_FAILED").With("operation", "sign refresh token").Wrap(err)
	}
	return refresh, nil
}

// LogoutUser deletes the session named by accessToken. An invalid token
// means there is nothing to log out, so logout always succeeds.
func (s *Service) LogoutUser(ctx context.Context, accessToken string) {
	defer s.metrics.RecordOperation(OpLogout, OutcomeSuccess)

	payload, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return
	}

	if err := s.sessions.Delete(ctx, payload.SessionID); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.WarnContext(ctx, "delete session failed (best-effort)",
			"operation", "delete_session",
			"session_id", payload.SessionID.String(),
			"error", err,
		)
	}
}

// Authenticate verifies an access token. It does not touch storage.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (principal *Principal, err error) {
	defer func() { s.metrics.RecordOperation(OpAuthenticate, outcomeOf(err)) }()

	payload, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		s.logger.DebugContext(ctx, "access token rejected", "error", err)
		return nil, fail(CodeInvalidAccessToken)
	}
	return &Principal{UserID: payload.UserID, SessionID: payload.SessionID}, nil
}

// GetUser returns the public view of a user.
func (s *Service) GetUser(ctx context.Context, id ulid.ULID) (view *UserView, err error) {
	defer func() { s.metrics.RecordOperation(OpGetUser, outcomeOf(err)) }()

	user, err := s.credentials.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fail(CodeUserNotFound, "user_id", id.String())
		}
		return nil, oops.Code("AUTH_GET_USER_FAILED").With("user_id", id.String()).Wrap(err)
	}
	v := user.View()
	return &v, nil
}
