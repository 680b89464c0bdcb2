// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler keeps the menu cache warm by regenerating the configured
// menus on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Warmer regenerates cached menus for the given locales.
type Warmer interface {
	Warm(ctx context.Context, locales ...string) error
}

// Config holds the scheduler settings.
type Config struct {
	// Schedule is a standard five-field cron expression or a descriptor
	// such as "@every 10m".
	Schedule string
	Locales  []string
	// Timeout bounds one warm run. Zero means five minutes.
	Timeout time.Duration
}

// JobInfo is the public view of the warm job.
type JobInfo struct {
	Schedule  string
	Locales   []string
	LastRun   time.Time
	NextRun   time.Time
	LastError string
}

// Scheduler runs the cache warm job.
type Scheduler struct {
	warmer  Warmer
	cfg     Config
	cron    *cron.Cron
	logger  *slog.Logger
	entryID cron.EntryID

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// New creates a new scheduler instance.
func New(warmer Warmer, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if err := ValidateSchedule(cfg.Schedule); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		warmer: warmer,
		cfg:    cfg,
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
	}, nil
}

// Start registers the warm job and starts the cron loop.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.cfg.Schedule, s.run)
	if err != nil {
		return fmt.Errorf("scheduling menu warm job: %w", err)
	}
	s.entryID = id

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.cfg.Schedule, "locales", s.cfg.Locales)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Trigger runs the warm job immediately.
func (s *Scheduler) Trigger(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.warm(ctx)
}

// Info returns the schedule and the outcome of the last run.
func (s *Scheduler) Info() JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := JobInfo{
		Schedule: s.cfg.Schedule,
		Locales:  slices.Clone(s.cfg.Locales),
		LastRun:  s.lastRun,
	}
	if s.lastErr != nil {
		info.LastError = s.lastErr.Error()
	}
	if s.entryID != 0 {
		info.NextRun = s.cron.Entry(s.entryID).Next
	}
	return info
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	if err := s.warm(ctx); err != nil {
		s.logger.Error("failed to warm menu cache", "error", err)
	}
}

func (s *Scheduler) warm(ctx context.Context) error {
	start := time.Now()
	err := s.warmer.Warm(ctx, s.cfg.Locales...)

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.mu.Unlock()

	if err == nil {
		s.logger.Info("menu cache warmed", "locales", s.cfg.Locales, "duration", time.Since(start).Round(time.Millisecond))
	}
	return err
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
