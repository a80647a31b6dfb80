package protocol

// Kind is the closed set of failure categories a client can run into.
type Kind uint8

const (
	// KindUnknown covers any wire code the client does not recognise.
	KindUnknown Kind = iota

	// Request errors

	KindInvalid
	KindBadBody
	KindBadTopic
	KindBadChannel
	KindBadMessage

	// Publish errors

	KindPutFailed
	KindPubFailed
	KindMPubFailed

	// Message lifecycle errors

	KindFinishFailed
	KindRequeueFailed
	KindTouchFailed

	// Local kinds, raised by the client itself

	KindRequeue
	KindNoConnections
	KindSocket
	KindFrame
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindInvalid:       "invalid",
	KindBadBody:       "bad_body",
	KindBadTopic:      "bad_topic",
	KindBadChannel:    "bad_channel",
	KindBadMessage:    "bad_message",
	KindPutFailed:     "put_failed",
	KindPubFailed:     "pub_failed",
	KindMPubFailed:    "mpub_failed",
	KindFinishFailed:  "finish_failed",
	KindRequeueFailed: "requeue_failed",
	KindTouchFailed:   "touch_failed",
	KindRequeue:       "requeue",
	KindNoConnections: "no_connections",
	KindSocket:        "socket",
	KindFrame:         "frame",
}

// String returns a stable snake_case name, suitable for logs and metric labels.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Fatal reports the default severity of the kind. Fatal kinds must not be
// retried in place; everything else is safe to retry after a backoff delay.
func (k Kind) Fatal() bool {
	switch k {
	case KindFinishFailed,
		KindRequeueFailed,
		KindTouchFailed,
		KindRequeue,
		KindSocket:
		return false
	default:
		return true
	}
}

// Local reports whether the kind is raised by the client rather than sent by
// the server.
func (k Kind) Local() bool {
	return k >= KindRequeue && int(k) < len(kindNames)
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}
