package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeFromError(t *testing.T) {
	assert.Equal(t, OutcomeAck, OutcomeFromError(nil))
	assert.Equal(t, OutcomeRequeue, OutcomeFromError(ErrRequeue))
	assert.Equal(t, OutcomeRequeue, OutcomeFromError(fmt.Errorf("handler: %w", ErrRequeue)))
	assert.Equal(t, OutcomeFail, OutcomeFromError(errors.New("boom")))
	assert.Equal(t, OutcomeFail, OutcomeFromError(Classify(CodeTouchFailed)))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "ack", OutcomeAck.String())
	assert.Equal(t, "requeue", OutcomeRequeue.String())
	assert.Equal(t, "fail", OutcomeFail.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}

func TestRequeueIsNotAFailure(t *testing.T) {
	assert.False(t, ErrRequeue.Fatal)
	assert.False(t, KindRequeue.Fatal())
}
