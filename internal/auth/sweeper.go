// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
)

// DefaultSweepInterval is how often expired rows are purged.
const DefaultSweepInterval = time.Hour

// Sweeper periodically deletes expired sessions and verification codes.
// Expired rows are already rejected on read; sweeping only bounds table size.
type Sweeper struct {
	sessions SessionRepository
	codes    VerificationCodeRepository
	interval time.Duration
	logger   *slog.Logger
	clock    func() time.Time

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepLogger sets the logger.
func WithSweepLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) { s.logger = logger }
}

// WithSweepClock sets the time source.
func WithSweepClock(clock func() time.Time) SweeperOption {
	return func(s *Sweeper) { s.clock = clock }
}

// NewSweeper creates a Sweeper. A non-positive interval uses DefaultSweepInterval.
func NewSweeper(sessions SessionRepository, codes VerificationCodeRepository, interval time.Duration, opts ...SweeperOption) (*Sweeper, error) {
	if sessions == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("session repository is required")
	}
	if codes == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("verification code repository is required")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s := &Sweeper{
		sessions: sessions,
		codes:    codes,
		interval: interval,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunOnce performs one sweep. Both deletions are attempted; errors are joined.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	now := s.clock()
	var errs []error

	sessions, err := s.sessions.DeleteExpired(ctx, now)
	if err != nil {
		errs = append(errs, oops.With("operation", "sweep sessions").Wrap(err))
	} else if sessions > 0 {
		s.logger.InfoContext(ctx, "purged expired sessions", "count", sessions)
	}

	codes, err := s.codes.DeleteExpired(ctx, now)
	if err != nil {
		errs = append(errs, oops.With("operation", "sweep verification codes").Wrap(err))
	} else if codes > 0 {
		s.logger.InfoContext(ctx, "purged expired verification codes", "count", codes)
	}

	return errors.Join(errs...)
}

// Start sweeps immediately and then every interval until Stop or ctx ends.
// Calling Start on a running sweeper does nothing.
func (s *Sweeper) Start(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop halts the sweeper and waits for an in-flight sweep.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running.Store(false)
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "sweep failed", "error", err)
	}
}
