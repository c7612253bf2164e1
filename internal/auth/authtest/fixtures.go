// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package authtest

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// Epoch is the default start time of an Env clock.
var Epoch = time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)

// Test secrets. Never use outside tests.
const (
	AccessSecret  = "access-secret-for-tests-only-0123456789"
	RefreshSecret = "refresh-secret-for-tests-only-9876543210"
)

// NewFastHasher returns an argon2id hasher with minimal cost.
func NewFastHasher(t testing.TB) *auth.Argon2idHasher {
	t.Helper()
	h, err := auth.NewArgon2idHasher(auth.Argon2Params{
		Memory:     64,
		Iterations: 1,
		Threads:    1,
		SaltLength: 16,
		KeyLength:  32,
	})
	require.NoError(t, err)
	return h
}

// Notification is a message captured by RecordingNotifier.
type Notification struct {
	User auth.User
	Code auth.VerificationCode
}

// RecordingNotifier captures notifications. Err, when set, is returned from
// every send.
type RecordingNotifier struct {
	mu            sync.Mutex
	Err           error
	verifications []Notification
	resets        []Notification
}

// SendVerificationEmail records the verification code.
func (n *RecordingNotifier) SendVerificationEmail(_ context.Context, user *auth.User, code *auth.VerificationCode) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verifications = append(n.verifications, Notification{User: *user, Code: *code})
	return n.Err
}

// SendPasswordReset records the reset code.
func (n *RecordingNotifier) SendPasswordReset(_ context.Context, user *auth.User, code *auth.VerificationCode) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, Notification{User: *user, Code: *code})
	return n.Err
}

// Verifications returns the captured verification emails.
func (n *RecordingNotifier) Verifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.verifications...)
}

// Resets returns the captured password reset emails.
func (n *RecordingNotifier) Resets() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.resets...)
}

// RecordingMetrics counts reported outcomes.
type RecordingMetrics struct {
	mu         sync.Mutex
	operations map[string]int
	extended   int
}

// RecordOperation counts operation/outcome.
func (m *RecordingMetrics) RecordOperation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.operations == nil {
		m.operations = make(map[string]int)
	}
	m.operations[operation+"/"+outcome]++
}

// RecordSessionExtended counts session extensions.
func (m *RecordingMetrics) RecordSessionExtended() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extended++
}

// Count returns how often operation finished with outcome.
func (m *RecordingMetrics) Count(operation, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.operations[operation+"/"+outcome]
}

// Extended returns the number of session extensions.
func (m *RecordingMetrics) Extended() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extended
}

// Env is a Service wired to in-memory stores and a fake clock.
type Env struct {
	Service  *auth.Service
	Users    *UserStore
	Sessions *SessionStore
	Codes    *CodeStore
	Notifier *RecordingNotifier
	Metrics  *RecordingMetrics
	Clock    *Clock
	Tokens   *token.Codec
	Logs     *bytes.Buffer
}

// NewEnv builds an Env with default lifecycle durations.
func NewEnv(t testing.TB) *Env {
	t.Helper()
	return NewEnvWithConfig(t, auth.DefaultConfig())
}

// NewEnvWithConfig builds an Env using cfg.
func NewEnvWithConfig(t testing.TB, cfg auth.Config) *Env {
	t.Helper()

	env := &Env{
		Users:    NewUserStore(),
		Sessions: NewSessionStore(),
		Codes:    NewCodeStore(),
		Notifier: &RecordingNotifier{},
		Metrics:  &RecordingMetrics{},
		Clock:    NewClock(Epoch),
		Logs:     &bytes.Buffer{},
	}

	codec, err := token.NewCodec(token.Config{
		AccessSecret:  AccessSecret,
		RefreshSecret: RefreshSecret,
	})
	require.NoError(t, err)
	env.Tokens = codec.WithClock(env.Clock.Now)

	creds, err := auth.NewCredentials(env.Users, NewFastHasher(t))
	require.NoError(t, err)
	creds = creds.WithClock(env.Clock.Now)

	logger := slog.New(slog.NewJSONHandler(env.Logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc, err := auth.NewService(auth.ServiceDeps{
		Credentials: creds,
		Sessions:    env.Sessions,
		Codes:       env.Codes,
		Tokens:      env.Tokens,
		Notifier:    env.Notifier,
		Metrics:     env.Metrics,
		Logger:      logger,
		Clock:       env.Clock.Now,
	}, cfg)
	require.NoError(t, err)
	env.Service = svc
	return env
}

// Register creates an account and returns its result.
func (e *Env) Register(t testing.TB, email, password string) *auth.AuthResult {
	t.Helper()
	res, err := e.Service.CreateAccount(context.Background(), auth.CreateAccountParams{
		Email:     email,
		Password:  password,
		UserAgent: "authtest",
	})
	require.NoError(t, err)
	return res
}
