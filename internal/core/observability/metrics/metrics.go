// Package metrics records how failures are classified and paced.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nsqcore"

// Recorder receives one call per classified failure, per supervisor decision
// and per backoff delay handed out.
type Recorder interface {
	ErrorClassified(kind string, fatal bool)
	Decision(action string)
	Delay(d time.Duration)
}

var (
	_ Recorder = (*Prometheus)(nil)
	_ Recorder = Nop{}
)

// Prometheus is a Recorder backed by client_golang collectors.
type Prometheus struct {
	// ErrorsClassified counts classified failures by kind and severity
	ErrorsClassified *prometheus.CounterVec
	// Decisions counts supervisor decisions by action
	Decisions *prometheus.CounterVec
	// BackoffDelay tracks the delays handed out before a retry or redial
	BackoffDelay prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		ErrorsClassified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_classified_total",
				Help:      "Total number of classified failures",
			},
			[]string{"kind", "fatal"},
		),
		Decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Total number of retry decisions by action",
			},
			[]string{"action"},
		),
		BackoffDelay: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backoff_delay_seconds",
				Help:      "Backoff delay handed out before the next attempt",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
			},
		),
	}
}

func (p *Prometheus) ErrorClassified(kind string, fatal bool) {
	p.ErrorsClassified.WithLabelValues(kind, strconv.FormatBool(fatal)).Inc()
}

func (p *Prometheus) Decision(action string) {
	p.Decisions.WithLabelValues(action).Inc()
}

func (p *Prometheus) Delay(d time.Duration) {
	p.BackoffDelay.Observe(d.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) ErrorClassified(string, bool) {}
func (Nop) Decision(string)              {}
func (Nop) Delay(time.Duration)          {}
