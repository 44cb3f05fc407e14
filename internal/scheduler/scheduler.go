// Package scheduler fires the daily dispatch at a fixed local hour. It is a
// plain timer loop; anything smarter (cron expressions, catch-up runs)
// belongs to an external scheduler.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job is the unit of work the scheduler triggers.
type Job func(ctx context.Context)

// Scheduler runs a job once per day at a configured hour in a fixed
// reference timezone.
type Scheduler struct {
	hour   int
	loc    *time.Location
	job    Job
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New constructs a daily scheduler.
func New(hour int, loc *time.Location, job Job, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		hour:   hour,
		loc:    loc,
		job:    job,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the first trigger instant strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	local := t.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, 0, 0, 0, s.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks, firing the job once per day until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.Next(s.now())
		s.logger.Info("next dispatch scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return
		case <-timer.C:
			s.job(ctx)
		}
	}
}
