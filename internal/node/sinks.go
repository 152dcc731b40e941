package node

import "time"

// Console displays one notification line. Implementations serialize their
// own writes so notifications never interleave with the prompt mid-line.
type Console interface {
	Notify(line string)
}

// EventSink receives timestamped events for durable history. Close is the
// end-of-stream marker; the node calls it exactly once.
type EventSink interface {
	Record(at time.Time, text string)
	Close() error
}

type nopConsole struct{}

func (nopConsole) Notify(string) {}

type nopEvents struct{}

func (nopEvents) Record(time.Time, string) {}
func (nopEvents) Close() error             { return nil }
