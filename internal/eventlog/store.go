// Package eventlog persists the node's timestamped event stream.
package eventlog

import (
	"errors"
	"time"
)

var ErrHistoryUnsupported = errors.New("history backend cannot be read back")

type Entry struct {
	At   time.Time
	Text string
}

// Store is a durable destination for entries. Appends arrive from a single
// goroutine.
type Store interface {
	Append(e Entry) error
	Close() error
}

// Historian is implemented by stores that can return recent entries,
// oldest first.
type Historian interface {
	Recent(limit int) ([]Entry, error)
}
