// Package protocol classifies the failures an NSQ-style client sees: error
// responses sent by the server, keyed by wire code, and the handful of
// conditions the client raises itself. Every classified failure is an *Error
// carrying its Kind and an explicit fatal flag that callers branch on.
package protocol

import (
	"bytes"
	"errors"
)

// Wire error codes sent by the server. Finish and requeue failures have two
// spellings depending on the server version; both are recognised.
const (
	CodeInvalid       = "E_INVALID"
	CodeBadBody       = "E_BAD_BODY"
	CodeBadTopic      = "E_BAD_TOPIC"
	CodeBadChannel    = "E_BAD_CHANNEL"
	CodeBadMessage    = "E_BAD_MESSAGE"
	CodePutFailed     = "E_PUT_FAILED"
	CodePubFailed     = "E_PUB_FAILED"
	CodeMPubFailed    = "E_MPUB_FAILED"
	CodeFinishFailed  = "E_FINISH_FAILED"
	CodeFinFailed     = "E_FIN_FAILED"
	CodeRequeueFailed = "E_REQUEUE_FAILED"
	CodeReqFailed     = "E_REQ_FAILED"
	CodeTouchFailed   = "E_TOUCH_FAILED"
)

// Identifiers for locally raised failures. They never appear on the wire.
const (
	CodeRequeue       = "REQUEUE"
	CodeNoConnections = "NO_CONNECTIONS"
	CodeSocket        = "SOCKET_ERROR"
	CodeFrame         = "FRAME_ERROR"
)

var kindByCode = map[string]Kind{
	CodeInvalid:       KindInvalid,
	CodeBadBody:       KindBadBody,
	CodeBadTopic:      KindBadTopic,
	CodeBadChannel:    KindBadChannel,
	CodeBadMessage:    KindBadMessage,
	CodePutFailed:     KindPutFailed,
	CodePubFailed:     KindPubFailed,
	CodeMPubFailed:    KindMPubFailed,
	CodeFinishFailed:  KindFinishFailed,
	CodeFinFailed:     KindFinishFailed,
	CodeRequeueFailed: KindRequeueFailed,
	CodeReqFailed:     KindRequeueFailed,
	CodeTouchFailed:   KindTouchFailed,
}

// Sentinels for errors.Is. Matching is by Kind, so any classified error of the
// same kind matches regardless of code spelling, message or cause.
//
// They are shared values and must be treated as read-only. Classify and the
// constructors never hand them out; each call builds a fresh value whose
// severity comes from Kind.Fatal.
var (
	ErrUnknown       = &Error{Kind: KindUnknown, Fatal: true}
	ErrInvalid       = &Error{Code: CodeInvalid, Kind: KindInvalid, Fatal: true}
	ErrBadBody       = &Error{Code: CodeBadBody, Kind: KindBadBody, Fatal: true}
	ErrBadTopic      = &Error{Code: CodeBadTopic, Kind: KindBadTopic, Fatal: true}
	ErrBadChannel    = &Error{Code: CodeBadChannel, Kind: KindBadChannel, Fatal: true}
	ErrBadMessage    = &Error{Code: CodeBadMessage, Kind: KindBadMessage, Fatal: true}
	ErrPutFailed     = &Error{Code: CodePutFailed, Kind: KindPutFailed, Fatal: true}
	ErrPubFailed     = &Error{Code: CodePubFailed, Kind: KindPubFailed, Fatal: true}
	ErrMPubFailed    = &Error{Code: CodeMPubFailed, Kind: KindMPubFailed, Fatal: true}
	ErrFinishFailed  = &Error{Code: CodeFinishFailed, Kind: KindFinishFailed}
	ErrRequeueFailed = &Error{Code: CodeRequeueFailed, Kind: KindRequeueFailed}
	ErrTouchFailed   = &Error{Code: CodeTouchFailed, Kind: KindTouchFailed}

	// ErrRequeue is not a failure. Message handlers return it to ask for the
	// message to be redelivered later instead of acknowledged.
	ErrRequeue       = &Error{Code: CodeRequeue, Kind: KindRequeue, Message: "requeue requested"}
	ErrNoConnections = &Error{Code: CodeNoConnections, Kind: KindNoConnections, Fatal: true}
	ErrSocket        = &Error{Code: CodeSocket, Kind: KindSocket}
	ErrFrame         = &Error{Code: CodeFrame, Kind: KindFrame, Fatal: true}
)

// Error is a classified failure. Values are built by Classify and the local
// constructors and are never mutated afterwards.
type Error struct {
	Code    string
	Kind    Kind
	Fatal   bool
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	s := e.Code
	if s == "" {
		s = e.Kind.String()
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// IsTemporary checks if the operation can be retried after a backoff delay
func (e *Error) IsTemporary() bool {
	return !e.Fatal
}

// Classify maps a wire error code to its kind. It is total: codes outside the
// known table, including the empty string, come back as a fatal KindUnknown
// error that keeps the raw code for diagnostics.
func Classify(code string) *Error {
	kind, ok := kindByCode[code]
	if !ok {
		kind = KindUnknown
	}
	return &Error{
		Code:  code,
		Kind:  kind,
		Fatal: kind.Fatal(),
	}
}

// ParseErrorResponse classifies the body of a server error frame, which holds
// the code followed by an optional human-readable message:
//
//	E_BAD_TOPIC PUB topic name "a b" is not valid
func ParseErrorResponse(body []byte) *Error {
	body = bytes.TrimSpace(body)
	code, message, _ := bytes.Cut(body, []byte{' '})

	err := Classify(string(code))
	err.Message = string(bytes.TrimSpace(message))
	return err
}

// NoConnections reports that op could not run because no live connection was
// available. It is fatal to that operation only.
func NoConnections(op string) *Error {
	msg := "no connections available"
	if op != "" {
		msg = op + ": " + msg
	}
	return &Error{
		Code:    CodeNoConnections,
		Kind:    KindNoConnections,
		Fatal:   true,
		Message: msg,
	}
}

// SocketError wraps a transport failure. The connection is expected to be
// redialled after a backoff delay, so it is not fatal.
func SocketError(cause error) *Error {
	return &Error{
		Code:  CodeSocket,
		Kind:  KindSocket,
		Fatal: false,
		Cause: cause,
	}
}

// FrameError reports a stream that could not be parsed into frames. The
// connection that produced it can no longer be trusted and must be closed.
func FrameError(detail string, cause error) *Error {
	return &Error{
		Code:    CodeFrame,
		Kind:    KindFrame,
		Fatal:   true,
		Message: detail,
		Cause:   cause,
	}
}

// AsError returns the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// GetKind returns the kind of the first *Error in err's chain, or KindUnknown.
func GetKind(err error) Kind {
	if perr, ok := AsError(err); ok {
		return perr.Kind
	}
	return KindUnknown
}

// IsFatal reports whether err must not be retried. Errors that were never
// classified are treated as fatal. A nil error is not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if perr, ok := AsError(err); ok {
		return perr.Fatal
	}
	return true
}

// IsRetryable reports whether err is a classified, non-fatal failure.
func IsRetryable(err error) bool {
	return err != nil && !IsFatal(err)
}
