package node

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Node is one participant of the flooding mesh. It owns the listening
// socket, the connection registry and the local outbound queue.
type Node struct {
	cfg Config
	me  string

	log     *zap.Logger
	console Console
	events  EventSink

	listener net.Listener
	registry *Registry
	queue    *Queue

	ctx          context.Context
	cancel       context.CancelFunc
	startOnce    sync.Once
	shutdownOnce sync.Once
	wg           sync.WaitGroup
	// spawnMu orders session wg.Add calls against Wait.
	spawnMu sync.Mutex
}

type Option func(*Node)

func WithLogger(log *zap.Logger) Option {
	return func(n *Node) { n.log = log }
}

func WithConsole(c Console) Option {
	return func(n *Node) { n.console = c }
}

func WithEventSink(s EventSink) Option {
	return func(n *Node) { n.events = s }
}

// New binds the listening socket. Port 0 picks a free port, which then
// becomes part of the node's identity.
func New(cfg Config, opts ...Option) (*Node, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = listener.Addr().(*net.TCPAddr).Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Node{
		cfg:      cfg,
		me:       Identity(cfg.Name, cfg.Host, cfg.Port),
		log:      zap.NewNop(),
		console:  nopConsole{},
		events:   nopEvents{},
		listener: listener,
		registry: NewRegistry(),
		queue:    NewQueue(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.With(zap.String("node", n.me))
	return n, nil
}

// Start launches the accept loop and the outbound queue consumer.
func (n *Node) Start() {
	n.startOnce.Do(func() {
		n.log.Info("node listening", zap.Stringer("addr", n.listener.Addr()))

		n.wg.Add(2)
		go n.acceptLoop()
		go n.consume()

		n.record("Peer initialized and ready for messages.")
	})
}

// Send queues a line of local text for broadcast to every connection.
func (n *Node) Send(text string) error {
	if strings.HasPrefix(strings.TrimSpace(text), commandPrefix) {
		return ErrCommandText
	}
	if n.ctx.Err() != nil {
		return ErrShutdown
	}
	return n.queue.Put(text)
}

// Wait blocks until every goroutine the node started has returned or grace
// elapses. It reports whether everything finished in time; stragglers are
// abandoned. Once shutdown has begun no new session can join the wait.
func (n *Node) Wait(grace time.Duration) bool {
	n.spawnMu.Lock()
	n.spawnMu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(grace):
		n.log.Warn("goroutines still running after grace period", zap.Duration("grace", grace))
		return false
	}
}

// Done is closed once shutdown has begun.
func (n *Node) Done() <-chan struct{} { return n.ctx.Done() }

func (n *Node) ID() string { return n.me }

func (n *Node) Addr() net.Addr { return n.listener.Addr() }

// Peers lists the remote addresses of the registered connections.
func (n *Node) Peers() []string {
	return lo.Map(n.registry.Snapshot(), func(e Entry, _ int) string {
		return e.Addr
	})
}

func (n *Node) consume() {
	defer n.wg.Done()

	for {
		it := n.queue.get()
		if it.last {
			n.log.Debug("outbound queue drained")
			return
		}
		if strings.TrimSpace(it.text) == "" {
			continue
		}

		n.record(fmt.Sprintf("Local message sent: %s", it.text))
		n.Broadcast(Envelope{Sender: n.me, Content: it.text}.Encode(), nil)
	}
}

func (n *Node) notify(line string) {
	n.console.Notify(line)
}

func (n *Node) record(text string) {
	n.events.Record(time.Now(), text)
}
