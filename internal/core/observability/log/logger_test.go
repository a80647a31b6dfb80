package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_Fields(t *testing.T) {
	logger, logs := newObserved(zap.DebugLevel)

	logger.With(ConnID("c-1")).Warn("retrying",
		Code("E_TOUCH_FAILED"),
		Fatal(false),
		Failures(3),
		Duration("delay", 2*time.Second),
		Float64("interval", 2),
		Uint64("attempt", 4),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "retrying", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "c-1", ctx["conn_id"])
	assert.Equal(t, "E_TOUCH_FAILED", ctx["code"])
	assert.Equal(t, false, ctx["fatal"])
	assert.Equal(t, int64(3), ctx["failures"])
	assert.Equal(t, 2*time.Second, ctx["delay"])
	assert.Equal(t, uint64(4), ctx["attempt"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLogger_Levels(t *testing.T) {
	logger, logs := newObserved(zap.DebugLevel)

	logger.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, logger.GetLevel())

	derived := logger.With(String("component", "test"))
	derived.Info("dropped")
	derived.Error("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Error("nothing", Int("n", 1))
	})
}
