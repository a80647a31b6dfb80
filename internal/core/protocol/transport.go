package protocol

import (
	"errors"

	"github.com/gorilla/websocket"
	"github.com/quic-go/quic-go"
)

// FromTransport classifies a failure reported by the transport underneath a
// connection. Errors that are already classified pass through unchanged.
// Close and reset conditions that signal a corrupt stream become fatal frame
// errors; every other transport failure is a retryable socket error.
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}

	if perr, ok := AsError(err); ok {
		return perr
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseProtocolError,
			websocket.CloseUnsupportedData,
			websocket.CloseInvalidFramePayloadData:
			return FrameError(closeErr.Text, err)
		}
		return SocketError(err)
	}

	var transportErr *quic.TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.ErrorCode {
		case quic.FrameEncodingError, quic.ProtocolViolation:
			return FrameError(transportErr.ErrorMessage, err)
		}
		return SocketError(err)
	}

	return SocketError(err)
}
