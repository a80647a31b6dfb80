// Package retry joins the backoff timers and the error taxonomy into the
// decisions a connection layer acts on: carry on, retry after a delay, redial
// after a delay, requeue, or give up.
package retry

import (
	"context"
	"errors"
	"time"

	cbackoff "github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/zeusync/nsqcore/internal/core/backoff"
	"github.com/zeusync/nsqcore/internal/core/config"
	"github.com/zeusync/nsqcore/internal/core/observability/log"
	"github.com/zeusync/nsqcore/internal/core/observability/metrics"
	"github.com/zeusync/nsqcore/internal/core/protocol"
)

// Operation is one attempt of a supervised call.
type Operation func(ctx context.Context) error

// DialFunc (re)establishes the connection to addr.
type DialFunc func(ctx context.Context, addr string) error

// Supervisor is safe for concurrent use.
type Supervisor struct {
	registry    *Registry
	logger      log.Log
	metrics     metrics.Recorder
	maxAttempts int

	flight singleflight.Group
}

// NewSupervisor returns a Supervisor over registry. A nil recorder disables
// metrics.
func NewSupervisor(registry *Registry, logger log.Log, rec metrics.Recorder, cfg config.RetryConfig) *Supervisor {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Supervisor{
		registry:    registry,
		logger:      logger.With(log.String("component", "retry")),
		metrics:     rec,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Registry returns the connection registry the supervisor works on.
func (s *Supervisor) Registry() *Registry {
	return s.registry
}

// Observe feeds the result of one attempt on connection id into its timer and
// decides what happens next:
//
//   - success relaxes the timer;
//   - a requeue request leaves the timer alone;
//   - socket and frame errors count as a failure and ask for a redial;
//   - other retryable errors count as a failure and ask for a retry;
//   - fatal errors abort without touching the timer.
//
// Errors that were never classified are treated as fatal. Any result on an
// unregistered connection aborts with a no-connections error.
func (s *Supervisor) Observe(id ConnID, err error) Decision {
	if err == nil {
		d := Decision{Action: ActionContinue}
		if unknown(s.registry.With(id, func(t *backoff.Timer) {
			d.Failures = t.Success().Failures()
		})) {
			return s.abortUnknown(id)
		}
		return s.record(id, d)
	}

	perr := classify(err)
	if perr.Kind == protocol.KindRequeue {
		return s.record(id, Decision{Action: ActionRequeue, Err: perr})
	}
	s.metrics.ErrorClassified(perr.Kind.String(), perr.Fatal)

	var action Action
	switch {
	case perr.Kind == protocol.KindSocket, perr.Kind == protocol.KindFrame:
		action = ActionRedial
	case !perr.Fatal:
		action = ActionRetry
	default:
		return s.record(id, Decision{Action: ActionAbort, Err: perr})
	}

	d := Decision{Action: action, Err: perr}
	if unknown(s.registry.With(id, func(t *backoff.Timer) {
		d.Delay = t.Failure().Delay()
		d.Failures = t.Failures()
	})) {
		return s.abortUnknown(id)
	}
	return s.record(id, d)
}

// Settle records what a message handler decided. Acknowledgements relax the
// timer, failures add to it, requeue requests are not counted at all.
func (s *Supervisor) Settle(id ConnID, outcome protocol.Outcome) Decision {
	switch outcome {
	case protocol.OutcomeAck:
		return s.Observe(id, nil)
	case protocol.OutcomeRequeue:
		return s.Observe(id, protocol.ErrRequeue)
	default:
		d := Decision{Action: ActionRetry}
		if unknown(s.registry.With(id, func(t *backoff.Timer) {
			d.Delay = t.Failure().Delay()
			d.Failures = t.Failures()
		})) {
			return s.abortUnknown(id)
		}
		return s.record(id, d)
	}
}

// Do runs op until it succeeds, fails fatally, runs out of attempts or ctx is
// done, waiting the connection's backoff delay between attempts. Only
// ActionRetry decisions run op again. Socket and frame errors end the loop
// and are returned so the caller can Redial first; the failure is already on
// the timer. A requeue request is returned as protocol.ErrRequeue.
func (s *Supervisor) Do(ctx context.Context, id ConnID, op Operation) error {
	var last Decision

	var b cbackoff.BackOff = &decisionBackOff{last: &last}
	if s.maxAttempts > 0 {
		b = cbackoff.WithMaxRetries(b, uint64(s.maxAttempts-1))
	}
	b = cbackoff.WithContext(b, ctx)

	attempt := func() error {
		last = s.Observe(id, op(ctx))
		switch {
		case last.Action == ActionContinue:
			return nil
		case last.Action == ActionRetry && last.Retryable():
			return last.Err
		default:
			return cbackoff.Permanent(last.Err)
		}
	}

	notify := func(err error, delay time.Duration) {
		s.logger.Debug("Waiting before next attempt",
			log.ConnID(string(id)),
			log.Duration("delay", delay),
			log.Error(err))
	}

	return cbackoff.RetryNotify(attempt, b, notify)
}

// Redial waits the connection's current backoff delay, then dials its
// address and records the result. Concurrent redials of the same connection
// share a single dial; callers joining one in flight share its ctx too.
func (s *Supervisor) Redial(ctx context.Context, id ConnID, dial DialFunc) error {
	_, err, _ := s.flight.Do(string(id), func() (any, error) {
		addr, ok := s.registry.Addr(id)
		if !ok {
			return nil, protocol.NoConnections("redial")
		}

		var delay time.Duration
		if unknown(s.registry.With(id, func(t *backoff.Timer) {
			delay = t.Delay()
		})) {
			return nil, protocol.NoConnections("redial")
		}
		if err := backoff.SleepWithContext(ctx, delay); err != nil {
			return nil, err
		}

		s.logger.Info("Redialling", log.ConnID(string(id)), log.String("addr", addr))

		var dialErr error
		if err := dial(ctx, addr); err != nil {
			dialErr = protocol.FromTransport(err)
		}
		d := s.Observe(id, dialErr)
		if d.Err != nil {
			return nil, d.Err
		}
		return nil, nil
	})
	return err
}

// RedialAll redials every registered connection concurrently and returns the
// first error. The remaining redials are cancelled once one fails.
func (s *Supervisor) RedialAll(ctx context.Context, dial DialFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range s.registry.IDs() {
		g.Go(func() error {
			return s.Redial(gctx, id, dial)
		})
	}
	return g.Wait()
}

func (s *Supervisor) record(id ConnID, d Decision) Decision {
	s.metrics.Decision(d.Action.String())
	if d.Action == ActionRetry || d.Action == ActionRedial {
		s.metrics.Delay(d.Delay)
	}

	fields := []log.Field{
		log.ConnID(string(id)),
		log.String("action", d.Action.String()),
		log.Failures(d.Failures),
	}
	if d.Err != nil {
		fields = append(fields,
			log.Code(d.Err.Code),
			log.String("kind", d.Err.Kind.String()),
			log.Fatal(d.Err.Fatal),
			log.Error(d.Err))
	}

	switch d.Action {
	case ActionAbort:
		s.logger.Error("Giving up", fields...)
	case ActionRetry, ActionRedial:
		s.logger.Warn("Backing off", append(fields, log.Duration("delay", d.Delay))...)
	default:
		s.logger.Debug("Attempt settled", fields...)
	}
	return d
}

func (s *Supervisor) abortUnknown(id ConnID) Decision {
	return s.record(id, Decision{Action: ActionAbort, Err: protocol.NoConnections(string(id))})
}

func unknown(err error) bool {
	return errors.Is(err, ErrUnknownConnection)
}

// classify returns err's classification, or a fatal KindUnknown error
// wrapping it.
func classify(err error) *protocol.Error {
	if perr, ok := protocol.AsError(err); ok {
		return perr
	}
	return &protocol.Error{
		Kind:  protocol.KindUnknown,
		Fatal: true,
		Cause: err,
	}
}

// decisionBackOff hands the cenkalti retry loop the delay Observe already
// computed. Reset is a no-op: the timer outlives any single loop.
type decisionBackOff struct {
	last *Decision
}

func (b *decisionBackOff) NextBackOff() time.Duration {
	return b.last.Delay
}

func (b *decisionBackOff) Reset() {}
