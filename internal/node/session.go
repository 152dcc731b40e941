package node

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

// spawn runs a session for raw on its own goroutine. Inbound and outbound
// connections share this path. After shutdown raw is closed instead and
// spawn reports false.
func (n *Node) spawn(raw net.Conn, addr string) bool {
	n.spawnMu.Lock()
	defer n.spawnMu.Unlock()

	if n.ctx.Err() != nil {
		_ = raw.Close()
		return false
	}
	n.wg.Add(1)
	go n.serve(raw, addr)
	return true
}

func (n *Node) serve(raw net.Conn, addr string) {
	defer n.wg.Done()

	c := newConn(raw, addr)
	if !n.registry.Register(c, addr) {
		// Shutdown drained the registry before this session got in.
		_ = c.Close()
		return
	}
	defer n.closeSession(c)

	n.notify(fmt.Sprintf("[CONNECTION] Connected to %s", addr))
	n.record(fmt.Sprintf("Connection established with %s", addr))

	buf := make([]byte, n.cfg.BufferSize)
	for n.ctx.Err() == nil {
		_ = raw.SetReadDeadline(time.Now().Add(n.cfg.PollInterval))
		read, err := raw.Read(buf)
		if read > 0 {
			if read == len(buf) {
				n.log.Warn("payload filled the receive buffer and may be truncated",
					zap.String("peer", addr), zap.Int("buffer_size", len(buf)))
			}
			n.handlePayload(c, buf[:read])
		}
		if err == nil {
			continue
		}
		if isTimeout(err) {
			continue
		}
		switch {
		case n.ctx.Err() != nil:
		case errors.Is(err, io.EOF):
			n.log.Debug("peer closed the connection", zap.String("peer", addr))
		default:
			n.log.Debug("read failed", zap.String("peer", addr), zap.Error(err))
		}
		return
	}
}

// handlePayload displays a valid envelope and floods the original bytes to
// every other connection. Malformed payloads are dropped without side effects.
func (n *Node) handlePayload(from *Conn, payload []byte) {
	env, err := ParseEnvelope(payload)
	if err != nil {
		n.log.Debug("discarding payload", zap.String("peer", from.Addr), zap.Error(err))
		return
	}

	n.notify(fmt.Sprintf("[%s said]: %s", env.Sender, env.Content))
	n.record(fmt.Sprintf("Message received from %s: %s", env.Sender, env.Content))

	n.Broadcast(payload, from)
}

func (n *Node) closeSession(c *Conn) {
	n.registry.Unregister(c)
	_ = c.Close()

	n.notify(fmt.Sprintf("[DISCONNECTED] %s", c.Addr))
	n.record(fmt.Sprintf("Connection closed with %s", c.Addr))
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
