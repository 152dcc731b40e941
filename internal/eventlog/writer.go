package eventlog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// item is either an entry or the end-of-stream marker.
type item struct {
	entry Entry
	last  bool
}

// Writer feeds a Store from its own goroutine. Record never blocks: entries
// that do not fit the buffer are dropped, as are entries recorded after Close.
type Writer struct {
	store Store
	log   *zap.Logger

	entries   chan item
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
	closeErr  error
	timeout   time.Duration
}

// NewWriter starts draining into store. timeout bounds how long Close waits
// for pending entries to be flushed.
func NewWriter(store Store, log *zap.Logger, buffer int, timeout time.Duration) *Writer {
	w := &Writer{
		store:   store,
		log:     log,
		entries: make(chan item, buffer),
		done:    make(chan struct{}),
		timeout: timeout,
	}
	go w.run()
	return w
}

func (w *Writer) Record(at time.Time, text string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.entries <- item{entry: Entry{At: at, Text: text}}:
	default:
		w.log.Warn("event log backlog full, dropping entry", zap.String("text", text))
	}
}

// Close forwards the end marker once and waits for the store to be flushed
// and closed. Both steps share one timeout, so a stalled store cannot hold
// Close past it.
func (w *Writer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()

		select {
		case w.entries <- item{last: true}:
		case <-ctx.Done():
		}
	})

	select {
	case <-w.done:
		return w.closeErr
	case <-ctx.Done():
		w.log.Warn("event log did not flush in time", zap.Duration("timeout", w.timeout))
		return nil
	}
}

// History reads back recent entries when the store supports it.
func (w *Writer) History(limit int) ([]Entry, error) {
	h, ok := w.store.(Historian)
	if !ok {
		return nil, ErrHistoryUnsupported
	}
	return h.Recent(limit)
}

func (w *Writer) run() {
	defer close(w.done)

	for it := range w.entries {
		if it.last {
			break
		}
		if err := w.store.Append(it.entry); err != nil {
			w.log.Warn("failed to persist event", zap.Error(err))
		}
	}
	w.closeErr = w.store.Close()
}
