package node

import "sync"

// item is either a line of local text or the end-of-input marker.
type item struct {
	text string
	last bool
}

// Queue is the unbounded FIFO between the input source and the single
// consumer goroutine.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []item
	closed bool
}

func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends text. It fails once the end marker has been queued.
func (q *Queue) Put(text string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, item{text: text})
	q.cond.Signal()
	return nil
}

// Close queues the end marker behind any pending text. It reports whether
// this call was the one that queued it.
func (q *Queue) Close() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.closed = true
	q.items = append(q.items, item{last: true})
	q.cond.Signal()
	return true
}

// get blocks until an item is available.
func (q *Queue) get() item {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.cond.Wait()
	}
	it := q.items[0]
	q.items[0] = item{}
	q.items = q.items[1:]
	return it
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
