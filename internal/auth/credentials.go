// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CredentialStore persists users and owns password hashing. No other
// component ever sees a plaintext password after it is handed in here.
type CredentialStore interface {
	// Exists reports whether an account uses email.
	Exists(ctx context.Context, email string) (bool, error)

	// Create hashes password and stores a new unverified user.
	Create(ctx context.Context, email, password string) (*User, error)

	// FindByEmail returns ErrNotFound when no account uses email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns ErrNotFound when the user does not exist.
	FindByID(ctx context.Context, id ulid.ULID) (*User, error)

	// ComparePassword checks password against the user's hash. A nil user
	// still costs one hash comparison and reports false.
	ComparePassword(user *User, password string) (bool, error)

	// UpdateVerified marks the user's email as verified.
	UpdateVerified(ctx context.Context, id ulid.ULID) (*User, error)

	// UpdatePassword hashes password and replaces the stored hash.
	UpdatePassword(ctx context.Context, id ulid.ULID, password string) (*User, error)
}

// dummyPasswordHash is verified when no user matches, so an unknown email
// costs the same as a wrong password. It matches no password.
//
//nolint:gosec // G101: intentionally fake hash, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Credentials implements CredentialStore over a UserRepository.
type Credentials struct {
	users  UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

// NewCredentials creates a Credentials store.
func NewCredentials(users UserRepository, hasher PasswordHasher) (*Credentials, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Credentials{users: users, hasher: hasher, now: time.Now}, nil
}

// WithClock replaces the time source used for timestamps.
func (c *Credentials) WithClock(now func() time.Time) *Credentials {
	c.now = now
	return c
}

// Exists reports whether an account uses email.
func (c *Credentials) Exists(ctx context.Context, email string) (bool, error) {
	exists, err := c.users.ExistsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return false, oops.With("operation", "check email exists").Wrap(err)
	}
	return exists, nil
}

// Create validates email and password, hashes the password and stores the user.
func (c *Credentials) Create(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_HASH_FAILED").With("operation", "hash password").Wrap(err)
	}

	now := c.now().UTC()
	user := &User{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.users.Create(ctx, user); err != nil {
		return nil, oops.With("operation", "create user").Wrap(err)
	}
	return user, nil
}

// FindByEmail looks a user up by its normalized email.
func (c *Credentials) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := c.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, oops.With("operation", "find user by email").Wrap(err)
	}
	return user, nil
}

// FindByID looks a user up by ID.
func (c *Credentials) FindByID(ctx context.Context, id ulid.ULID) (*User, error) {
	user, err := c.users.GetByID(ctx, id)
	if err != nil {
		return nil, oops.With("operation", "find user by id").With("user_id", id.String()).Wrap(err)
	}
	return user, nil
}

// ComparePassword checks password against user's stored hash.
func (c *Credentials) ComparePassword(user *User, password string) (bool, error) {
	if user == nil {
		_, _ = c.hasher.Verify(password, dummyPasswordHash) //nolint:errcheck // result is discarded either way
		return false, nil
	}
	ok, err := c.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return false, oops.Code("AUTH_COMPARE_FAILED").With("user_id", user.ID.String()).Wrap(err)
	}
	return ok, nil
}

// UpdateVerified marks the user's email as verified.
func (c *Credentials) UpdateVerified(ctx context.Context, id ulid.ULID) (*User, error) {
	user, err := c.users.SetVerified(ctx, id, c.now().UTC())
	if err != nil {
		return nil, oops.With("operation", "set verified").With("user_id", id.String()).Wrap(err)
	}
	return user, nil
}

// UpdatePassword validates and hashes password, then stores the new hash.
func (c *Credentials) UpdatePassword(ctx context.Context, id ulid.ULID, password string) (*User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_HASH_FAILED").With("operation", "hash password").Wrap(err)
	}
	user, err := c.users.UpdatePassword(ctx, id, hash, c.now().UTC())
	if err != nil {
		return nil, oops.With("operation", "update password").With("user_id", id.String()).Wrap(err)
	}
	return user, nil
}

var _ CredentialStore = (*Credentials)(nil)
