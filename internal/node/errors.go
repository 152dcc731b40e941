package node

import "errors"

var (
	ErrShutdown          = errors.New("node is shutting down")
	ErrInvalidName       = errors.New("peer name must be non-empty and must not contain '|'")
	ErrMalformedEnvelope = errors.New("envelope has no sender delimiter")
	ErrInvalidUTF8       = errors.New("envelope is not valid utf-8")
	ErrCommandText       = errors.New("command text must not be sent as a message")
	ErrQueueClosed       = errors.New("outbound queue is closed")
)
