package retry

import (
	"time"

	"github.com/zeusync/nsqcore/internal/core/protocol"
)

// Action tells the connection layer what to do after an attempt.
type Action uint8

const (
	// ActionContinue: the attempt succeeded, carry on.
	ActionContinue Action = iota
	// ActionRetry: retry the same operation on the same connection after Delay.
	ActionRetry
	// ActionRedial: tear the connection down and dial it again after Delay.
	ActionRedial
	// ActionAbort: stop and surface Err to the caller.
	ActionAbort
	// ActionRequeue: the handler asked for redelivery; not a failure.
	ActionRequeue
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionRetry:
		return "retry"
	case ActionRedial:
		return "redial"
	case ActionAbort:
		return "abort"
	case ActionRequeue:
		return "requeue"
	default:
		return "unknown"
	}
}

// Decision is the supervisor's verdict on one attempt.
type Decision struct {
	Action Action
	// Delay to wait before the next attempt; zero unless Action is
	// ActionRetry or ActionRedial.
	Delay time.Duration
	// Err is the classified failure, nil on success.
	Err *protocol.Error
	// Failures is the connection's failure count after the attempt.
	Failures int
}

// Retryable reports whether the operation may run again after Delay, on the
// same connection for ActionRetry or on a fresh one for ActionRedial. Fatal
// errors are never retryable, even when they ask for a redial.
func (d Decision) Retryable() bool {
	if d.Err != nil && d.Err.Fatal {
		return false
	}
	return d.Action == ActionRetry || d.Action == ActionRedial
}
