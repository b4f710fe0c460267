// Package scheduler triggers crawl runs on a cron cadence. Overlapping
// triggers are collapsed: a tick that fires while a crawl is still in
// progress is skipped rather than queued.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// Scheduler runs one job on a standard 5-field cron expression.
type Scheduler struct {
	spec    string
	run     func(context.Context) error
	cron    *cron.Cron
	running atomic.Bool
}

// New builds a scheduler for the given cron spec and job.
func New(spec string, run func(context.Context) error) *Scheduler {
	return &Scheduler{spec: spec, run: run}
}

// Start validates the spec and begins firing the job until Stop is
// called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", s.spec, err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, func() {
		s.execute(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling job: %w", err)
	}

	s.cron.Start()
	slog.Info("scheduler started", "spec", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// execute runs the job unless a previous invocation is still in
// progress. It reports whether the job actually ran.
func (s *Scheduler) execute(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("scheduled crawl skipped, previous run still in progress")
		return false
	}
	defer s.running.Store(false)

	if err := s.run(ctx); err != nil {
		slog.Error("scheduled crawl failed", "error", err)
	}
	return true
}

// Stop halts future triggers and waits for an in-flight job's cron
// wrapper to return.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}
