// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session lifetime defaults.
const (
	DefaultSessionTTL    = 30 * 24 * time.Hour
	DefaultRefreshWindow = 24 * time.Hour
)

// Session is one logged-in continuation for a user on a client. It is the
// only thing that decides whether a refresh token is still honored.
type Session struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	UserAgent string // optional client descriptor
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession creates a session for userID that expires ttl after now.
func NewSession(userID ulid.ULID, userAgent string, now time.Time, ttl time.Duration) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if ttl <= 0 {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").
			With("ttl", ttl.String()).
			Errorf("session expiry must be in the future")
	}

	now = now.UTC()
	return &Session{
		ID:        ulid.Make(),
		UserID:    userID,
		UserAgent: userAgent,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// IsExpiredAt reports whether the session is no longer usable at t. A
// session whose expiry equals t is expired.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}

// NeedsRefreshAt reports whether the session is within window of its expiry.
func (s *Session) NeedsRefreshAt(t time.Time, window time.Duration) bool {
	return s.ExpiresAt.Sub(t) <= window
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a session by its ID. Expired sessions are returned;
	// callers check expiry.
	GetByID(ctx context.Context, id ulid.ULID) (*Session, error)

	// Extend moves the session's expiry from previous to next. Returns
	// ErrStale when the stored expiry is no longer previous and ErrNotFound
	// when the session is gone.
	Extend(ctx context.Context, id ulid.ULID, previous, next time.Time) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id ulid.ULID) error

	// DeleteByUser removes every session of a user and returns the count.
	DeleteByUser(ctx context.Context, userID ulid.ULID) (int64, error)

	// DeleteExpired removes sessions expired at now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
