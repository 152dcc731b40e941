package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"floodchat/internal/console"
	"floodchat/internal/eventlog"
	"floodchat/internal/logger"
	"floodchat/internal/node"
)

const (
	eventBuffer       = 64
	eventFlushTimeout = 5 * time.Second
)

// stringList is a custom flag type for multiple peer addresses
type stringList []string

func (s *stringList) String() string {
	return fmt.Sprintf("%v", *s)
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	var peerAddrs stringList
	var useTUI bool
	flag.StringVar(&cfg.Host, "host", cfg.Host, "address to listen on")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on (0 = auto-assign)")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "display name shown to other peers")
	flag.Var(&peerAddrs, "peer", "peer address host:port to connect to (can be specified multiple times)")
	flag.StringVar(&cfg.History, "history", cfg.History, "event history backend: file, badger or none")
	flag.BoolVar(&useTUI, "tui", false, "use the full-screen interface")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer func() { _ = log.Sync() }()

	events, history, err := openHistory(cfg, log)
	if err != nil {
		return err
	}

	var out node.Console
	var term *console.Terminal
	var tui *console.TUI
	if useTUI {
		tui = console.NewTUI()
		out = tui
	} else {
		term = console.NewTerminal(os.Stdout, cfg.Name, !cfg.NoColor)
		out = term
	}

	opts := []node.Option{node.WithLogger(log), node.WithConsole(out)}
	if events != nil {
		opts = append(opts, node.WithEventSink(events))
	}
	n, err := node.New(cfg.node(), opts...)
	if err != nil {
		if events != nil {
			_ = events.Close()
		}
		return err
	}

	interp := console.NewInterpreter(n, out, history)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n.Start()
	for _, addr := range peerAddrs {
		go bootstrap(n, addr, out)
	}

	if useTUI {
		err = runTUI(ctx, n, tui, interp)
	} else {
		runTerminal(ctx, n, term, interp, log)
	}

	n.Shutdown()
	if !n.Wait(cfg.JoinGrace) {
		log.Warn("exiting with goroutines still running")
	}
	return err
}

func runTerminal(ctx context.Context, n *node.Node, term *console.Terminal, interp *console.Interpreter, log *zap.Logger) {
	term.Notify("Interface ready. Type /help to see the available commands.")

	// Blocked stdin reads cannot be interrupted; the reader is abandoned at exit.
	go func() {
		if err := console.ReadLines(os.Stdin, term, interp); err != nil {
			log.Warn("input read failed", zap.Error(err))
		}
		n.Shutdown()
	}()

	select {
	case <-ctx.Done():
		term.Notify("[EXITING] Shutting down...")
	case <-n.Done():
	}
	term.Stop()
}

func runTUI(ctx context.Context, n *node.Node, tui *console.TUI, interp *console.Interpreter) error {
	tui.Attach(n, interp)
	go func() {
		select {
		case <-ctx.Done():
			n.Shutdown()
		case <-n.Done():
		}
	}()

	p := tea.NewProgram(tui, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// openHistory returns a nil sink when history is disabled, and a nil
// reader when the backend cannot be read back.
func openHistory(cfg Config, log *zap.Logger) (*eventlog.Writer, console.History, error) {
	var store eventlog.Store
	var err error
	switch cfg.History {
	case "none":
		return nil, nil, nil
	case "badger":
		store, err = eventlog.OpenBadger(cfg.historyPath(), log)
	case "file":
		store, err = eventlog.OpenFile(cfg.historyPath())
	default:
		return nil, nil, fmt.Errorf("config error: unknown history backend %q", cfg.History)
	}
	if err != nil {
		return nil, nil, err
	}

	w := eventlog.NewWriter(store, log, eventBuffer, eventFlushTimeout)
	if _, ok := store.(eventlog.Historian); ok {
		return w, w, nil
	}
	return w, nil, nil
}

func bootstrap(n *node.Node, addr string, out node.Console) {
	host, port, err := splitPeer(addr)
	if err != nil {
		out.Notify(fmt.Sprintf("[ERROR] Invalid peer address %q: %v", addr, err))
		return
	}
	// Failures are reported by the node itself.
	_ = n.Connect(host, port)
}

func splitPeer(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}
	return host, port, nil
}
