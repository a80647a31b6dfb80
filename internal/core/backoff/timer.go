// Package backoff paces reconnects and retries with full-jitter truncated
// exponential backoff.
//
// A Timer tracks the outstanding failures of one connection. Every failure
// doubles the ceiling of the random draw, every success relaxes it by one
// step, so a flapping connection does not swing between zero and the maximum.
//
// Timers are not safe for concurrent use: keep one per connection and touch it
// only from the goroutine that owns that connection.
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// exactBits is the widest draw that still converts to float64 exactly.
const exactBits = 53

// Timer produces randomized delay intervals from a failure counter.
type Timer struct {
	failures int
	ratio    float64

	maxInterval float64
	minInterval float64
	hasMax      bool
	hasMin      bool

	src rand.Source
}

// NewTimer returns a Timer with ratio 1, no bounds and the process-wide
// random source, adjusted by opts.
func NewTimer(opts ...Option) *Timer {
	t := &Timer{
		ratio: DefaultRatio,
		src:   globalSource{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset clears all accumulated failures.
func (t *Timer) Reset() *Timer {
	t.failures = 0
	return t
}

// Success relaxes backoff pressure by one step. The counter never drops
// below zero.
func (t *Timer) Success() *Timer {
	if t.failures > 0 {
		t.failures--
	}
	return t
}

// Failure adds one step of backoff pressure.
func (t *Timer) Failure() *Timer {
	t.failures++
	return t
}

// Failures returns the number of outstanding failures.
func (t *Timer) Failures() int {
	return t.failures
}

// Interval draws a uniformly random integer from [0, 2^failures-1], scales it
// by the ratio and clamps it to the configured bounds, upper bound first.
// It does not change the timer's state.
func (t *Timer) Interval() float64 {
	interval := t.draw() * t.ratio

	if t.hasMax {
		interval = math.Min(interval, t.maxInterval)
	}
	if t.hasMin {
		interval = math.Max(interval, t.minInterval)
	}

	return interval
}

// Delay returns Interval as a duration, reading the interval in seconds.
// Intervals too large for a time.Duration saturate at math.MaxInt64.
func (t *Timer) Delay() time.Duration {
	return ToDuration(t.Interval())
}

// draw returns a uniform integer in [0, 2^failures-1]. That range is exactly
// the set of failures-bit numbers, so the draw is a matter of taking random
// bits. Above 53 bits only the top 53 are random and the rest are zero; the
// result stays an integer inside the range.
func (t *Timer) draw() float64 {
	c := t.failures
	if c <= 0 {
		return 0
	}
	if c <= exactBits {
		return float64(t.src.Uint64() >> (64 - c))
	}
	return math.Ldexp(float64(t.src.Uint64()>>(64-exactBits)), c-exactBits)
}

// ToDuration reads an interval in seconds. Negative and NaN intervals give
// zero, intervals too large for a time.Duration give math.MaxInt64.
func ToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	ns := seconds * float64(time.Second)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}

type globalSource struct{}

func (globalSource) Uint64() uint64 { return rand.Uint64() }
