package backoff

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	cbackoff "github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerBackOff(t *testing.T) {
	timer := NewTimer(WithRatio(0.001), WithRandSource(fixedSource(math.MaxUint64)))
	b := NewTimerBackOff(timer)

	assert.Equal(t, time.Millisecond, b.NextBackOff())
	assert.Equal(t, 3*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 2, b.Timer().Failures())

	b.Reset()
	assert.Equal(t, 0, timer.Failures())
}

func TestTimerBackOff_DrivesRetry(t *testing.T) {
	timer := NewTimer(WithRatio(0.001), WithMaxInterval(0.002))

	attempts := 0
	err := cbackoff.Retry(func() error {
		attempts++
		if attempts < 4 {
			return errors.New("transient")
		}
		return nil
	}, NewTimerBackOff(timer))

	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
}

func TestSleepWithContext(t *testing.T) {
	t.Run("completes", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, SleepWithContext(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := SleepWithContext(ctx, time.Second)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("non-positive returns at once", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, SleepWithContext(ctx, 0))
		assert.NoError(t, SleepWithContext(ctx, -time.Second))
	})
}
