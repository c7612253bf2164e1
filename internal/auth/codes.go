// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// VerifyEmail redeems an email verification code and marks its user verified.
// A code succeeds at most once.
func (s *Service) VerifyEmail(ctx context.Context, code string) (view *UserView, err error) {
	defer func() { s.metrics.RecordOperation(OpVerifyEmail, outcomeOf(err)) }()

	vc, err := s.findValidCode(ctx, code, CodeEmailVerification)
	if err != nil {
		return nil, err
	}

	user, err := s.credentials.UpdateVerified(ctx, vc.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// A code must never outlive its user.
			return nil, fail(CodeVerifyFailed, "user_id", vc.UserID.String())
		}
		return nil, oops.Code(CodeVerifyFailed).
			With("operation", "update verified").
			With("user_id", vc.UserID.String()).
			Wrap(err)
	}

	if err := s.consumeCode(ctx, vc); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "email verified", "user_id", user.ID.String())
	v := user.View()
	return &v, nil
}

// SendPasswordReset issues a password reset code for the account using email
// and hands it to the notifier. Unknown emails succeed silently so callers
// cannot probe for accounts.
func (s *Service) SendPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { s.metrics.RecordOperation(OpSendPasswordReset, outcomeOf(err)) }()

	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return oops.Code("AUTH_PASSWORD_RESET_FAILED").With("operation", "find user").Wrap(err)
	}

	if _, err := s.codes.DeleteByUser(ctx, user.ID, CodePasswordReset); err != nil {
		s.logger.WarnContext(ctx, "delete previous reset codes failed (best-effort)",
			"operation", "delete_reset_codes",
			"user_id", user.ID.String(),
			"error", err,
		)
	}

	code, err := NewVerificationCode(user.ID, CodePasswordReset, s.now(), s.cfg.PasswordResetTTL)
	if err != nil {
		return oops.Code("AUTH_PASSWORD_RESET_FAILED").With("operation", "new reset code").Wrap(err)
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return oops.Code("AUTH_PASSWORD_RESET_FAILED").
			With("operation", "persist reset code").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user, code); err != nil {
		return oops.Code("AUTH_PASSWORD_RESET_FAILED").
			With("operation", "send reset email").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	return nil
}

// ResetPassword redeems a password reset code, replaces the password and
// ends every session of the user.
func (s *Service) ResetPassword(ctx context.Context, p ResetPasswordParams) (view *UserView, err error) {
	defer func() { s.metrics.RecordOperation(OpResetPassword, outcomeOf(err)) }()

	if err := ValidatePassword(p.Password); err != nil {
		return nil, err
	}

	vc, err := s.findValidCode(ctx, p.Code, CodePasswordReset)
	if err != nil {
		return nil, err
	}
	if err := s.consumeCode(ctx, vc); err != nil {
		return nil, err
	}

	user, err := s.credentials.UpdatePassword(ctx, vc.UserID, p.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fail(CodeUserNotFound, "user_id", vc.UserID.String())
		}
		return nil, oops.Code("AUTH_PASSWORD_RESET_FAILED").
			With("operation", "update password").
			With("user_id", vc.UserID.String()).
			Wrap(err)
	}

	n, err := s.sessions.DeleteByUser(ctx, user.ID)
	if err != nil {
		return nil, oops.Code("AUTH_PASSWORD_RESET_FAILED").
			With("operation", "delete sessions").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", user.ID.String(), "sessions_ended", n)
	v := user.View()
	return &v, nil
}

func (s *Service) findValidCode(ctx context.Context, id string, typ CodeType) (*VerificationCode, error) {
	if id == "" {
		return nil, fail(CodeInvalidCode)
	}
	vc, err := s.codes.FindValid(ctx, id, typ, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fail(CodeInvalidCode, "type", string(typ))
		}
		return nil, oops.Code("AUTH_CODE_LOOKUP_FAILED").
			With("operation", "find verification code").
			With("type", string(typ)).
			Wrap(err)
	}
	return vc, nil
}

// consumeCode deletes vc. If another request deleted it first, that request
// holds the single redemption and this one fails.
func (s *Service) consumeCode(ctx context.Context, vc *VerificationCode) error {
	if err := s.codes.Delete(ctx, vc.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fail(CodeInvalidCode, "type", string(vc.Type))
		}
		return oops.Code("AUTH_CODE_CONSUME_FAILED").
			With("operation", "delete verification code").
			With("type", string(vc.Type)).
			Wrap(err)
	}
	return nil
}
