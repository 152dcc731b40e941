package node

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conn is the handle for one peer link. Close may be called by the owning
// session and by the shutdown path; only the first call reaches the socket.
type Conn struct {
	ID   string
	Addr string

	raw      net.Conn
	once     sync.Once
	closeErr error
}

func newConn(raw net.Conn, addr string) *Conn {
	return &Conn{
		ID:   uuid.NewString(),
		Addr: addr,
		raw:  raw,
	}
}

// Send writes the whole payload in a single write.
func (c *Conn) Send(payload []byte, timeout time.Duration) error {
	if timeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(timeout))
	}
	_, err := c.raw.Write(payload)
	return err
}

func (c *Conn) Close() error {
	c.once.Do(func() {
		if tcp, ok := c.raw.(*net.TCPConn); ok {
			_ = tcp.CloseRead()
		}
		c.closeErr = c.raw.Close()
	})
	return c.closeErr
}

func (c *Conn) String() string { return c.Addr }
