package node

import (
	"fmt"
	"net"
	"strconv"

	"go.uber.org/zap"
)

// Connect dials host:port and hands the socket to a session. A failed dial
// is reported to the console and the event log and never registers anything.
func (n *Node) Connect(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	if n.ctx.Err() != nil {
		return ErrShutdown
	}

	dialer := net.Dialer{Timeout: n.cfg.DialTimeout}
	raw, err := dialer.DialContext(n.ctx, "tcp", addr)
	if err != nil {
		if n.ctx.Err() != nil {
			return ErrShutdown
		}
		n.log.Debug("dial failed", zap.String("peer", addr), zap.Error(err))
		n.notify(fmt.Sprintf("[ERROR] Could not connect to %s -> %v", addr, err))
		n.record(fmt.Sprintf("Failed to connect to %s: %v", addr, err))
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if !n.spawn(raw, addr) {
		return ErrShutdown
	}
	n.notify(fmt.Sprintf("[CONNECTED] %s", addr))
	n.record(fmt.Sprintf("Connected manually to %s", addr))
	return nil
}
