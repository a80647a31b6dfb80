// Package config loads retry pacing settings from YAML.
package config

import (
	"errors"
	"fmt"

	"github.com/zeusync/nsqcore/internal/core/backoff"
	"github.com/zeusync/nsqcore/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root of nsqpace.yaml.
type Config struct {
	Backoff backoff.Config `json:"backoff" yaml:"backoff"`
	Retry   RetryConfig    `json:"retry" yaml:"retry"`
	Log     LogConfig      `json:"log" yaml:"log"`
}

// RetryConfig bounds supervised retry loops.
type RetryConfig struct {
	// MaxAttempts caps the attempts of one retry loop; zero means unlimited.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns ratio 1, no interval bounds, unlimited attempts and info
// logging.
func Default() Config {
	return Config{
		Backoff: backoff.Config{Ratio: backoff.DefaultRatio},
		Log:     LogConfig{Level: log.LevelInfo.String()},
	}
}

func (c *Config) applyDefaults() {
	if c.Backoff.Ratio == 0 {
		c.Backoff.Ratio = backoff.DefaultRatio
	}
	if c.Log.Level == "" {
		c.Log.Level = log.LevelInfo.String()
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	b := c.Backoff
	if b.Ratio < 0 {
		return fmt.Errorf("%w: backoff.ratio must be positive, got %v", ErrInvalidConfig, b.Ratio)
	}
	if b.MaxInterval != nil && *b.MaxInterval < 0 {
		return fmt.Errorf("%w: backoff.max_interval must not be negative, got %v", ErrInvalidConfig, *b.MaxInterval)
	}
	if b.MinInterval != nil && *b.MinInterval < 0 {
		return fmt.Errorf("%w: backoff.min_interval must not be negative, got %v", ErrInvalidConfig, *b.MinInterval)
	}
	if b.MaxInterval != nil && b.MinInterval != nil && *b.MinInterval > *b.MaxInterval {
		return fmt.Errorf("%w: backoff.min_interval %v exceeds max_interval %v", ErrInvalidConfig, *b.MinInterval, *b.MaxInterval)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("%w: retry.max_attempts must not be negative, got %d", ErrInvalidConfig, c.Retry.MaxAttempts)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return level
}
