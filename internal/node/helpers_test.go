package node

import (
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	testPoll = 50 * time.Millisecond
	settle   = 300 * time.Millisecond
)

type recordingConsole struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingConsole) Notify(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recordingConsole) count(substr string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

type recordingSink struct {
	mu     sync.Mutex
	texts  []string
	closes int
}

func (s *recordingSink) Record(_ time.Time, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *recordingSink) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *recordingSink) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

type testNode struct {
	*Node
	console *recordingConsole
	events  *recordingSink
}

func startNode(t *testing.T, name string) testNode {
	t.Helper()
	console := &recordingConsole{}
	events := &recordingSink{}
	n, err := New(Config{Host: "127.0.0.1", Name: name, PollInterval: testPoll},
		WithLogger(zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))),
		WithConsole(console),
		WithEventSink(events),
	)
	require.NoError(t, err)
	n.Start()
	t.Cleanup(func() {
		n.Shutdown()
		n.Wait(2 * time.Second)
	})
	return testNode{Node: n, console: console, events: events}
}

func (n testNode) port() int {
	return n.Addr().(*net.TCPAddr).Port
}

func (n testNode) waitPeers(t *testing.T, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return n.registry.Len() == want
	}, 2*time.Second, 10*time.Millisecond)
}

func (n testNode) waitConsole(t *testing.T, substr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return n.console.count(substr) > 0
	}, 2*time.Second, 10*time.Millisecond, "console never showed %q", substr)
}

func dial(t *testing.T, n testNode) net.Conn {
	t.Helper()
	c, err := net.Dial("tcp", n.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// readChunk returns what arrives on c within d, or "" on timeout.
func readChunk(c net.Conn, d time.Duration) string {
	buf := make([]byte, 4096)
	_ = c.SetReadDeadline(time.Now().Add(d))
	n, _ := c.Read(buf)
	return string(buf[:n])
}

// tcpPair returns the accepted and dialed ends of a loopback connection.
func tcpPair(t *testing.T) (server, client net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
		close(accepted)
	}()

	client, err = net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server = <-accepted
	require.NotNil(t, server)

	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return server, client
}
