// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// TokenCodec signs and verifies the token pair. *token.Codec implements it.
type TokenCodec interface {
	SignAccess(userID, sessionID ulid.ULID) (string, error)
	SignRefresh(sessionID ulid.ULID) (string, error)
	VerifyAccess(raw string) (token.AccessPayload, error)
	VerifyRefresh(raw string) (token.RefreshPayload, error)
}

var _ TokenCodec = (*token.Codec)(nil)

// Config holds the lifecycle durations.
type Config struct {
	SessionTTL          time.Duration
	RefreshWindow       time.Duration
	VerificationCodeTTL time.Duration
	PasswordResetTTL    time.Duration
}

// DefaultConfig returns a 30 day session that is extended during its last
// day, one year email verification codes and one hour reset codes.
func DefaultConfig() Config {
	return Config{
		SessionTTL:          DefaultSessionTTL,
		RefreshWindow:       DefaultRefreshWindow,
		VerificationCodeTTL: DefaultEmailVerificationTTL,
		PasswordResetTTL:    DefaultPasswordResetTTL,
	}
}

// Validate checks that every duration is usable.
func (c Config) Validate() error {
	switch {
	case c.SessionTTL <= 0:
		return oops.Code("AUTH_CONFIG_INVALID").Errorf("session ttl must be positive")
	case c.RefreshWindow <= 0:
		return oops.Code("AUTH_CONFIG_INVALID").Errorf("refresh window must be positive")
	case c.RefreshWindow >= c.SessionTTL:
		return oops.Code("AUTH_CONFIG_INVALID").
			With("refresh_window", c.RefreshWindow.String()).
			With("session_ttl", c.SessionTTL.String()).
			Errorf("refresh window must be shorter than session ttl")
	case c.VerificationCodeTTL <= 0:
		return oops.Code("AUTH_CONFIG_INVALID").Errorf("verification code ttl must be positive")
	case c.PasswordResetTTL <= 0:
		return oops.Code("AUTH_CONFIG_INVALID").Errorf("password reset ttl must be positive")
	}
	return nil
}

// ServiceDeps are the collaborators of a Service. Notifier, Metrics, Logger
// and Clock are optional.
type ServiceDeps struct {
	Credentials CredentialStore
	Sessions    SessionRepository
	Codes       VerificationCodeRepository
	Tokens      TokenCodec
	Notifier    Notifier
	Metrics     MetricsRecorder
	Logger      *slog.Logger
	Clock       func() time.Time
}

// Service is the session and token lifecycle engine.
type Service struct {
	credentials CredentialStore
	sessions    SessionRepository
	codes       VerificationCodeRepository
	tokens      TokenCodec
	notifier    Notifier
	metrics     MetricsRecorder
	logger      *slog.Logger
	now         func() time.Time
	cfg         Config
}

// NewService creates a Service.
func NewService(deps ServiceDeps, cfg Config) (*Service, error) {
	if deps.Credentials == nil {
		return nil, oops.Errorf("credential store is required")
	}
	if deps.Sessions == nil {
		return nil, oops.Errorf("session repository is required")
	}
	if deps.Codes == nil {
		return nil, oops.Errorf("verification code repository is required")
	}
	if deps.Tokens == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(logger, "")
	}
	var metrics MetricsRecorder = nopMetrics{}
	if deps.Metrics != nil {
		metrics = deps.Metrics
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	return &Service{
		credentials: deps.Credentials,
		sessions:    deps.Sessions,
		codes:       deps.Codes,
		tokens:      deps.Tokens,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
		now:         now,
		cfg:         cfg,
	}, nil
}

// CreateAccountParams is the input of CreateAccount.
type CreateAccountParams struct {
	Email     string
	Password  string
	UserAgent string
}

// LoginParams is the input of LoginUser.
type LoginParams struct {
	Email     string
	Password  string
	UserAgent string
}

// ResetPasswordParams is the input of ResetPassword.
type ResetPasswordParams struct {
	Code     string
	Password string
}

// AuthResult is returned when a new session was started.
type AuthResult struct {
	User         UserView
	AccessToken  string
	RefreshToken string
}

// RefreshResult is returned by RefreshAccessToken. RefreshToken is empty
// unless the session was extended.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// Rotated reports whether a new refresh token was issued.
func (r *RefreshResult) Rotated() bool {
	return r.RefreshToken != ""
}

// Principal identifies the caller of an authenticated request.
type Principal struct {
	UserID    ulid.ULID
	SessionID ulid.ULID
}
