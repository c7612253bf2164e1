// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Credential constraints.
const (
	MaxEmailLength    = 255
	MinPasswordLength = 6
	MaxPasswordLength = 255
)

// User is an account identity.
type User struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string `json:"-"`
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public projection of a User. It has no password field.
type UserView struct {
	ID        ulid.ULID `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View projects u into its public form.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NormalizeEmail is the canonical form emails are stored and matched in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks a normalized email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code(CodeInvalidEmail).Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return oops.Code(CodeInvalidEmail).
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return oops.Code(CodeInvalidEmail).Errorf("email is not a valid address")
	}
	return nil
}

// ValidatePassword checks plaintext password length in characters.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return oops.Code(CodeInvalidPassword).
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return oops.Code(CodeInvalidPassword).
			With("max", MaxPasswordLength).
			Errorf("password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// UserRepository manages user persistence. Emails passed in are normalized.
type UserRepository interface {
	// Create stores a new user. Returns an AUTH_EMAIL_TAKEN error when the
	// email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email.
	// Returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether a user has the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SetVerified marks the user verified and returns the updated row.
	SetVerified(ctx context.Context, id ulid.ULID, at time.Time) (*User, error)

	// UpdatePassword replaces the password hash and returns the updated row.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string, at time.Time) (*User, error)
}
