// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
)

// VerificationCodeRepository implements auth.VerificationCodeRepository
// using PostgreSQL.
type VerificationCodeRepository struct {
	pool Pool
}

// NewVerificationCodeRepository creates a new VerificationCodeRepository.
func NewVerificationCodeRepository(pool Pool) *VerificationCodeRepository {
	return &VerificationCodeRepository{pool: pool}
}

// Create stores a new verification code.
func (r *VerificationCodeRepository) Create(ctx context.Context, code *auth.VerificationCode) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO verification_codes (id, user_id, type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		code.ID,
		code.UserID.String(),
		string(code.Type),
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		return oops.Code("CODE_CREATE_FAILED").
			With("operation", "insert verification code").
			With("user_id", code.UserID.String()).
			With("type", string(code.Type)).
			Wrap(err)
	}
	return nil
}

// FindValid returns the code with id and typ that has not expired at now.
func (r *VerificationCodeRepository) FindValid(ctx context.Context, id string, typ auth.CodeType, now time.Time) (*auth.VerificationCode, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, type, expires_at, created_at
		FROM verification_codes
		WHERE id = $1 AND type = $2 AND expires_at > $3
	`, id, string(typ), now)

	var (
		code      auth.VerificationCode
		userIDStr string
		typeStr   string
	)
	err := row.Scan(&code.ID, &userIDStr, &typeStr, &code.ExpiresAt, &code.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CODE_NOT_FOUND").With("type", string(typ)).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CODE_GET_FAILED").
			With("operation", "find valid code").
			With("type", string(typ)).
			Wrap(err)
	}

	if code.UserID, err = ulid.Parse(userIDStr); err != nil {
		return nil, oops.Code("CODE_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
	}
	code.Type = auth.CodeType(typeStr)
	return &code, nil
}

// Delete removes a code. A missing row means someone else redeemed it.
func (r *VerificationCodeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM verification_codes WHERE id = $1`, id)
	if err != nil {
		return oops.Code("CODE_DELETE_FAILED").With("operation", "delete verification code").Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CODE_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return nil
}

// DeleteByUser removes every code of typ owned by userID.
func (r *VerificationCodeRepository) DeleteByUser(ctx context.Context, userID ulid.ULID, typ auth.CodeType) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM verification_codes WHERE user_id = $1 AND type = $2
	`, userID.String(), string(typ))
	if err != nil {
		return 0, oops.Code("CODE_DELETE_BY_USER_FAILED").
			With("operation", "delete codes by user").
			With("user_id", userID.String()).
			With("type", string(typ)).
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpired removes codes expired at now and returns the count.
func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM verification_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, oops.Code("CODE_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired codes").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

var _ auth.VerificationCodeRepository = (*VerificationCodeRepository)(nil)
