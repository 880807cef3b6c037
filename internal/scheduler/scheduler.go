// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scheduler repeats pipeline runs on a fixed interval, applying a
// failure cooldown so a broken provider cannot turn the loop into a busy
// retry. Only context cancellation stops it.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultCooldown = time.Hour

// Runner executes one pipeline run.
type Runner func(ctx context.Context) error

// Scheduler drives a Runner forever at a fixed cadence.
type Scheduler struct {
	interval time.Duration
	cooldown time.Duration
	logger   *zap.Logger
}

// New returns a Scheduler running every interval with the standard
// one-hour failure cooldown.
func New(interval time.Duration) *Scheduler {
	return &Scheduler{
		interval: interval,
		cooldown: defaultCooldown,
		logger:   zap.NewNop(),
	}
}

// WithLogger sets the structured logger. Returns the scheduler for chaining.
func (s *Scheduler) WithLogger(logger *zap.Logger) *Scheduler {
	s.logger = logger
	return s
}

// WithCooldown overrides the failure cooldown.
func (s *Scheduler) WithCooldown(cooldown time.Duration) *Scheduler {
	s.cooldown = cooldown
	return s
}

// Run executes the runner, sleeps, and repeats until ctx is cancelled. A
// runner error is logged and followed by the cooldown instead of the
// regular interval; it never terminates the loop.
func (s *Scheduler) Run(ctx context.Context, run Runner) error {
	for {
		wait := s.interval

		if err := run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("scheduled run failed, entering cooldown",
				zap.Error(err),
				zap.Duration("cooldown", s.cooldown))
			wait = s.cooldown
		} else {
			s.logger.Info("scheduled run complete",
				zap.Duration("next_run_in", wait))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
