package node

import (
	"cmp"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Entry is a point-in-time view of a registered connection.
type Entry struct {
	Conn *Conn
	Addr string
}

type registered struct {
	seq  uint64
	addr string
}

// Registry maps live connections to their remote address. It never performs
// network I/O while holding its lock; callers iterate over a Snapshot.
type Registry struct {
	mu      sync.Mutex
	entries map[*Conn]registered
	seq     uint64
	sealed  bool
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[*Conn]registered)}
}

// Register adds c. It returns false once the registry has been drained by
// shutdown, in which case the caller still owns c and must close it.
func (r *Registry) Register(c *Conn, addr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return false
	}
	r.seq++
	r.entries[c] = registered{seq: r.seq, addr: addr}
	return true
}

// Unregister removes c and returns its address. Removing a non-member is a no-op.
func (r *Registry) Unregister(c *Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[c]
	if !ok {
		return "", false
	}
	delete(r.entries, c)
	return e.addr, true
}

// Snapshot returns the current entries in registration order.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ordered()
}

// Drain empties the registry and refuses further registrations. Ownership of
// every returned connection passes to the caller.
func (r *Registry) Drain() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.ordered()
	clear(r.entries)
	r.sealed = true
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) ordered() []Entry {
	conns := lo.Keys(r.entries)
	slices.SortFunc(conns, func(a, b *Conn) int {
		return cmp.Compare(r.entries[a].seq, r.entries[b].seq)
	})
	return lo.Map(conns, func(c *Conn, _ int) Entry {
		return Entry{Conn: c, Addr: r.entries[c].addr}
	})
}
