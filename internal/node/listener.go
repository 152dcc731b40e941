package node

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

const acceptBackoff = 50 * time.Millisecond

func (n *Node) acceptLoop() {
	defer n.wg.Done()

	n.notify(fmt.Sprintf("[LISTENING] Peer at %s:%d", n.cfg.Host, n.cfg.Port))

	tcpListener, _ := n.listener.(*net.TCPListener)
	for n.ctx.Err() == nil {
		if tcpListener != nil {
			_ = tcpListener.SetDeadline(time.Now().Add(n.cfg.PollInterval))
		}

		raw, err := n.listener.Accept()
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if n.ctx.Err() != nil {
				break
			}
			n.log.Warn("accept failed", zap.Error(err))
			select {
			case <-n.ctx.Done():
			case <-time.After(acceptBackoff):
			}
			continue
		}

		n.spawn(raw, raw.RemoteAddr().String())
	}

	n.notify("[LISTENING STOPPED]")
}
