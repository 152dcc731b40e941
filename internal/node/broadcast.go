package node

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Broadcast sends payload to every registered connection except excluded,
// which may be nil. A connection whose send fails is evicted; the remaining
// recipients are still served.
func (n *Node) Broadcast(payload []byte, excluded *Conn) {
	targets := lo.Filter(n.registry.Snapshot(), func(e Entry, _ int) bool {
		return e.Conn != excluded
	})

	for _, e := range targets {
		if err := e.Conn.Send(payload, n.cfg.WriteTimeout); err != nil {
			n.evict(e.Conn, err)
		}
	}
}

func (n *Node) evict(c *Conn, cause error) {
	addr, ok := n.registry.Unregister(c)
	_ = c.Close()

	// Already gone through its own session or through shutdown.
	if !ok || n.ctx.Err() != nil {
		return
	}

	n.log.Debug("send failed, evicting peer", zap.String("peer", addr), zap.Error(cause))
	n.notify(fmt.Sprintf("[PEER REMOVED] Connection with %s lost.", addr))
	n.record(fmt.Sprintf("Peer removed: %s", addr))
}
