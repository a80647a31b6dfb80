package retry

import "errors"

var (
	ErrUnknownConnection = errors.New("unknown connection")
)
