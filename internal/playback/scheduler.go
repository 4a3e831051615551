package playback

import (
	"context"
	"time"
)

// Scheduler suspends playback between phases.
type Scheduler interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerScheduler waits on a real timer.
type TimerScheduler struct{}

// Sleep waits for d or returns early on context cancellation. Non-positive
// durations return immediately.
func (TimerScheduler) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(ctx context.Context, d time.Duration) error

func (f SchedulerFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }
