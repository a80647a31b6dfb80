package backoff

import "math/rand/v2"

// DefaultRatio scales the raw draw when no ratio is configured.
const DefaultRatio = 1.0

// Option configures a Timer.
type Option func(*Timer)

// WithRatio sets the linear scale applied to every draw. Non-positive values
// are ignored.
func WithRatio(ratio float64) Option {
	return func(t *Timer) {
		if ratio > 0 {
			t.ratio = ratio
		}
	}
}

// WithMaxInterval caps every interval at max.
func WithMaxInterval(max float64) Option {
	return func(t *Timer) {
		t.maxInterval = max
		t.hasMax = true
	}
}

// WithMinInterval raises every interval to at least min.
func WithMinInterval(min float64) Option {
	return func(t *Timer) {
		t.minInterval = min
		t.hasMin = true
	}
}

// WithRandSource replaces the process-wide random source, mainly for
// reproducible tests.
func WithRandSource(src rand.Source) Option {
	return func(t *Timer) {
		if src != nil {
			t.src = src
		}
	}
}

// Config is the serialisable form of the timer options. Nil bounds are unset.
type Config struct {
	Ratio       float64  `json:"ratio" yaml:"ratio"`
	MaxInterval *float64 `json:"max_interval,omitempty" yaml:"max_interval,omitempty"`
	MinInterval *float64 `json:"min_interval,omitempty" yaml:"min_interval,omitempty"`
}

// Options turns the config into timer options.
func (c Config) Options() []Option {
	opts := make([]Option, 0, 3)
	if c.Ratio > 0 {
		opts = append(opts, WithRatio(c.Ratio))
	}
	if c.MaxInterval != nil {
		opts = append(opts, WithMaxInterval(*c.MaxInterval))
	}
	if c.MinInterval != nil {
		opts = append(opts, WithMinInterval(*c.MinInterval))
	}
	return opts
}

// NewTimer builds a Timer from the config, with extra options applied last.
func (c Config) NewTimer(extra ...Option) *Timer {
	return NewTimer(append(c.Options(), extra...)...)
}
