package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheduler(t *testing.T, hour int, job Job) *Scheduler {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return New(hour, loc, job, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNext(t *testing.T) {
	s := testScheduler(t, 20, nil)
	chicago := s.loc

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before the hour fires same day",
			time.Date(2026, time.January, 1, 9, 30, 0, 0, chicago),
			time.Date(2026, time.January, 1, 20, 0, 0, 0, chicago),
		},
		{
			"exactly on the hour rolls to the next day",
			time.Date(2026, time.January, 1, 20, 0, 0, 0, chicago),
			time.Date(2026, time.January, 2, 20, 0, 0, 0, chicago),
		},
		{
			"after the hour rolls to the next day",
			time.Date(2026, time.January, 1, 23, 59, 0, 0, chicago),
			time.Date(2026, time.January, 2, 20, 0, 0, 0, chicago),
		},
		{
			"month rollover",
			time.Date(2026, time.January, 31, 21, 0, 0, 0, chicago),
			time.Date(2026, time.February, 1, 20, 0, 0, 0, chicago),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Next(tt.now)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestNextConvertsCallerTimezone(t *testing.T) {
	s := testScheduler(t, 20, nil)

	// 01:00 UTC on Jan 2 is 19:00 on Jan 1 in Chicago, so the trigger is
	// still that Chicago evening.
	now := time.Date(2026, time.January, 2, 1, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.January, 1, 20, 0, 0, 0, s.loc)
	assert.True(t, s.Next(now).Equal(want))
}

func TestRunFiresJobAndStops(t *testing.T) {
	fired := make(chan struct{}, 1)
	s := testScheduler(t, 20, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	// Pin the clock so the computed trigger is already behind the wall clock
	// and the timer fires immediately.
	s.now = func() time.Time {
		return time.Date(2020, time.January, 1, 19, 0, 0, 0, s.loc)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not fire")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

func TestRunStopsWithoutFiring(t *testing.T) {
	s := testScheduler(t, 20, func(context.Context) {
		t.Error("job fired unexpectedly")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on canceled context")
	}
}
