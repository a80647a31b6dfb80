package backoff

import (
	"context"
	"fmt"
	"time"

	cbackoff "github.com/cenkalti/backoff/v4"
)

var _ cbackoff.BackOff = (*TimerBackOff)(nil)

// TimerBackOff lets the cenkalti/backoff retry helpers pace themselves with a
// Timer. Each NextBackOff call counts as one failure.
type TimerBackOff struct {
	timer *Timer
}

// NewTimerBackOff wraps t.
func NewTimerBackOff(t *Timer) *TimerBackOff {
	return &TimerBackOff{timer: t}
}

// NextBackOff records a failure and returns the resulting delay.
func (b *TimerBackOff) NextBackOff() time.Duration {
	return b.timer.Failure().Delay()
}

// Reset clears the wrapped timer.
func (b *TimerBackOff) Reset() {
	b.timer.Reset()
}

// Timer returns the wrapped timer.
func (b *TimerBackOff) Timer() *Timer {
	return b.timer
}

// SleepWithContext waits for d or until ctx is done. Non-positive durations
// return immediately.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done: %w", ctx.Err())
	}
}
