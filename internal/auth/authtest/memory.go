// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package authtest provides in-memory stores and fixtures for auth tests.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
)

// Clock is a settable time source.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// NewClock returns a Clock reading t.
func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// UserStore is an in-memory auth.UserRepository.
type UserStore struct {
	mu   sync.Mutex
	byID map[ulid.ULID]auth.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[ulid.ULID]auth.User)}
}

// Create stores a user, rejecting duplicate emails.
func (s *UserStore) Create(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == user.Email {
			return oops.Code(auth.CodeEmailTaken).With("email", user.Email).Errorf("email already in use")
		}
	}
	s.byID[user.ID] = *user
	return nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
}

// ExistsByEmail reports whether email is taken.
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

// SetVerified marks a user verified.
func (s *UserStore) SetVerified(_ context.Context, id ulid.ULID, at time.Time) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	u.Verified = true
	u.UpdatedAt = at
	s.byID[id] = u
	return &u, nil
}

// UpdatePassword replaces a user's password hash.
func (s *UserStore) UpdatePassword(_ context.Context, id ulid.ULID, hash string, at time.Time) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	s.byID[id] = u
	return &u, nil
}

// Remove deletes a user without touching its sessions or codes.
func (s *UserStore) Remove(id ulid.ULID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// SessionStore is an in-memory auth.SessionRepository.
type SessionStore struct {
	mu   sync.Mutex
	byID map[ulid.ULID]auth.Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{byID: make(map[ulid.ULID]auth.Session)}
}

// Create stores a session.
func (s *SessionStore) Create(_ context.Context, session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[session.ID] = *session
	return nil
}

// GetByID retrieves a session.
func (s *SessionStore) GetByID(_ context.Context, id ulid.ULID) (*auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil, oops.Code("SESSION_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	return &sess, nil
}

// Extend moves a session's expiry if it still equals previous.
func (s *SessionStore) Extend(_ context.Context, id ulid.ULID, previous, next time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return oops.Code("SESSION_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	if !sess.ExpiresAt.Equal(previous) {
		return oops.Code("SESSION_STALE").With("id", id.String()).Wrap(auth.ErrStale)
	}
	sess.ExpiresAt = next
	s.byID[id] = sess
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, id ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return oops.Code("SESSION_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

// DeleteByUser removes every session of userID.
func (s *SessionStore) DeleteByUser(_ context.Context, userID ulid.ULID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.byID {
		if sess.UserID == userID {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

// DeleteExpired removes sessions expired at now.
func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.byID {
		if sess.IsExpiredAt(now) {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

// Get returns a copy of the stored session, if any.
func (s *SessionStore) Get(id ulid.ULID) (auth.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	return sess, ok
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// CodeStore is an in-memory auth.VerificationCodeRepository.
type CodeStore struct {
	mu   sync.Mutex
	byID map[string]auth.VerificationCode
}

// NewCodeStore creates an empty CodeStore.
func NewCodeStore() *CodeStore {
	return &CodeStore{byID: make(map[string]auth.VerificationCode)}
}

// Create stores a code.
func (s *CodeStore) Create(_ context.Context, code *auth.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[code.ID] = *code
	return nil
}

// FindValid returns an unexpired code of the given type.
func (s *CodeStore) FindValid(_ context.Context, id string, typ auth.CodeType, now time.Time) (*auth.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.byID[id]
	if !ok || !code.IsValidAt(now, typ) {
		return nil, oops.Code("CODE_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return &code, nil
}

// Delete removes a code.
func (s *CodeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return oops.Code("CODE_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

// DeleteByUser removes the codes of typ owned by userID.
func (s *CodeStore) DeleteByUser(_ context.Context, userID ulid.ULID, typ auth.CodeType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, code := range s.byID {
		if code.UserID == userID && code.Type == typ {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

// DeleteExpired removes codes expired at now.
func (s *CodeStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, code := range s.byID {
		if !code.ExpiresAt.After(now) {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

// ForUser returns the codes of typ owned by userID.
func (s *CodeStore) ForUser(userID ulid.ULID, typ auth.CodeType) []auth.VerificationCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []auth.VerificationCode
	for _, code := range s.byID {
		if code.UserID == userID && code.Type == typ {
			out = append(out, code)
		}
	}
	return out
}

var (
	_ auth.UserRepository             = (*UserStore)(nil)
	_ auth.SessionRepository          = (*SessionStore)(nil)
	_ auth.VerificationCodeRepository = (*CodeStore)(nil)
)
