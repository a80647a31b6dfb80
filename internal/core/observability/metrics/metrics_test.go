package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheus(reg)

	rec.ErrorClassified("touch_failed", false)
	rec.ErrorClassified("touch_failed", false)
	rec.ErrorClassified("invalid", true)
	rec.Decision("retry")
	rec.Delay(1500 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.ErrorsClassified.WithLabelValues("touch_failed", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ErrorsClassified.WithLabelValues("invalid", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Decisions.WithLabelValues("retry")))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "nsqcore_errors_classified_total")
	assert.Contains(t, names, "nsqcore_decisions_total")
	assert.Contains(t, names, "nsqcore_backoff_delay_seconds")
}

func TestPrometheus_Unregistered(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheus(nil).Decision("abort")
		NewPrometheus(nil).Decision("abort")
	})
}

func TestNop(t *testing.T) {
	var rec Recorder = Nop{}
	assert.NotPanics(t, func() {
		rec.ErrorClassified("frame", true)
		rec.Decision("redial")
		rec.Delay(time.Second)
	})
}
