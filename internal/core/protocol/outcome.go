package protocol

import "errors"

// Outcome is what a message handler decided to do with a message.
type Outcome uint8

const (
	// OutcomeAck finishes the message.
	OutcomeAck Outcome = iota
	// OutcomeRequeue asks for redelivery later. It is not a failure.
	OutcomeRequeue
	// OutcomeFail marks the handler as failed; the message is requeued and
	// the failure counts towards backoff.
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAck:
		return "ack"
	case OutcomeRequeue:
		return "requeue"
	case OutcomeFail:
		return "fail"
	default:
		return "unknown"
	}
}

// OutcomeFromError bridges error-returning handlers: nil acknowledges,
// ErrRequeue anywhere in the chain requeues, anything else fails.
func OutcomeFromError(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeAck
	case errors.Is(err, ErrRequeue):
		return OutcomeRequeue
	default:
		return OutcomeFail
	}
}
