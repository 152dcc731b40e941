package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShutdown_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	a := startNode(t, "alice")
	client := dial(t, a)
	a.waitPeers(t, 1)

	// When shutdown is triggered twice
	a.Shutdown()
	a.Shutdown()

	// Then every loop finished and the peer socket was closed
	req.True(a.Wait(2 * time.Second))
	buf := make([]byte, 16)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	_, err := client.Read(buf)
	req.Error(err)

	// And the sentinels were forwarded exactly once
	req.Equal(1, a.events.closeCount())
	req.False(a.queue.Close())
	req.Zero(a.registry.Len())

	select {
	case <-a.Done():
	default:
		req.Fail("done channel still open")
	}
}

func TestShutdown_Refuses_New_Work(t *testing.T) {
	req := require.New(t)
	a := startNode(t, "alice")
	b := startNode(t, "bob")

	a.Shutdown()

	req.ErrorIs(a.Send("late"), ErrShutdown)
	req.ErrorIs(a.Connect("127.0.0.1", b.port()), ErrShutdown)
	req.Zero(a.registry.Len())
	req.True(a.Wait(2 * time.Second))
}

func TestShutdown_Records_Lifecycle_Events(t *testing.T) {
	req := require.New(t)
	a := startNode(t, "alice")

	a.Shutdown()
	req.True(a.Wait(2 * time.Second))

	texts := a.events.recorded()
	req.Equal("Peer initialized and ready for messages.", texts[0])
	req.Contains(texts, "Shutting down peer.")
	req.Contains(texts, "Peer shut down.")
}

func TestSpawn_After_Shutdown_Closes_Socket_And_Skips_Wait(t *testing.T) {
	req := require.New(t)
	a := startNode(t, "alice")
	server, client := tcpPair(t)

	// Given a node that has shut down and finished waiting
	a.Shutdown()
	req.True(a.Wait(2 * time.Second))

	// When a socket dialed before shutdown is handed over late
	spawned := a.spawn(server, client.LocalAddr().String())

	// Then it is refused and closed, nothing is registered and Wait stays clean
	req.False(spawned)
	buf := make([]byte, 16)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	_, err := client.Read(buf)
	req.Error(err)
	req.Zero(a.registry.Len())
	req.True(a.Wait(time.Second))
}
