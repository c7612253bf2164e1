// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// Notifier delivers verification codes to a user.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, user *User, code *VerificationCode) error
	SendPasswordReset(ctx context.Context, user *User, code *VerificationCode) error
}

// LogNotifier writes the links a user would receive to the log. It stands
// in for a mail provider in development.
type LogNotifier struct {
	logger    *slog.Logger
	appOrigin string
}

// NewLogNotifier creates a LogNotifier building links under appOrigin.
func NewLogNotifier(logger *slog.Logger, appOrigin string) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger, appOrigin: strings.TrimRight(appOrigin, "/")}
}

// VerificationLink is the frontend URL that redeems an email verification code.
func (n *LogNotifier) VerificationLink(code *VerificationCode) string {
	return n.appOrigin + "/email/verify/" + url.PathEscape(code.ID)
}

// PasswordResetLink is the frontend URL that redeems a password reset code.
func (n *LogNotifier) PasswordResetLink(code *VerificationCode) string {
	q := url.Values{}
	q.Set("code", code.ID)
	q.Set("exp", strconv.FormatInt(code.ExpiresAt.UnixMilli(), 10))
	return n.appOrigin + "/password/reset?" + q.Encode()
}

// SendVerificationEmail logs the verification link.
func (n *LogNotifier) SendVerificationEmail(ctx context.Context, user *User, code *VerificationCode) error {
	n.logger.InfoContext(ctx, "verification email",
		"user_id", user.ID.String(),
		"email", user.Email,
		"link", n.VerificationLink(code),
	)
	return nil
}

// SendPasswordReset logs the password reset link.
func (n *LogNotifier) SendPasswordReset(ctx context.Context, user *User, code *VerificationCode) error {
	n.logger.InfoContext(ctx, "password reset email",
		"user_id", user.ID.String(),
		"email", user.Email,
		"link", n.PasswordResetLink(code),
	)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
