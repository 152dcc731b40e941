package console

import (
	"fmt"
	"strconv"
	"strings"

	"floodchat/internal/eventlog"
	"floodchat/internal/node"
)

const defaultHistoryLimit = 20

// Core is the part of a node the interpreter drives.
type Core interface {
	Connect(host string, port int) error
	Shutdown()
	Peers() []string
	Send(text string) error
}

// History reads back persisted events.
type History interface {
	History(limit int) ([]eventlog.Entry, error)
}

// Interpreter turns input lines into commands or outgoing chat messages.
// Command text never reaches the node's outbound queue.
type Interpreter struct {
	core    Core
	out     node.Console
	history History
}

// NewInterpreter wires an interpreter. history may be nil.
func NewInterpreter(core Core, out node.Console, history History) *Interpreter {
	return &Interpreter{core: core, out: out, history: history}
}

// Handle processes one line of input and reports whether input should stop.
func (i *Interpreter) Handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "/") {
		return i.command(trimmed)
	}

	if err := i.core.Send(line); err != nil {
		i.out.Notify(fmt.Sprintf("[ERROR] %v", err))
	}
	return false
}

func (i *Interpreter) command(text string) bool {
	tokens := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(tokens) == 0 {
		i.out.Notify("Empty command. Type /help for help.")
		return false
	}

	cmd, args := strings.ToLower(tokens[0]), tokens[1:]
	switch cmd {
	case "quit", "exit":
		i.out.Notify("Shutting down from /quit...")
		i.core.Shutdown()
		return true
	case "help":
		i.showHelp()
	case "peers":
		i.showPeers()
	case "connect":
		i.connect(args)
	case "history":
		i.showHistory(args)
	default:
		i.out.Notify(fmt.Sprintf("Unknown command: /%s. Type /help for help.", cmd))
	}
	return false
}

func (i *Interpreter) connect(args []string) {
	if len(args) < 2 {
		i.out.Notify("Usage: /connect HOST PORT")
		return
	}
	port, err := strconv.Atoi(args[1])
	if err != nil {
		i.out.Notify("Invalid port. Use an integer.")
		return
	}

	i.out.Notify(fmt.Sprintf("Connecting to %s:%d...", args[0], port))
	// Failures are already reported by the node.
	_ = i.core.Connect(args[0], port)
}

func (i *Interpreter) showPeers() {
	peers := i.core.Peers()
	if len(peers) == 0 {
		i.out.Notify("No peers connected.")
		return
	}

	var b strings.Builder
	b.WriteString("Connected peers:")
	for _, addr := range peers {
		b.WriteString("\n- " + addr)
	}
	i.out.Notify(b.String())
}

func (i *Interpreter) showHistory(args []string) {
	if i.history == nil {
		i.out.Notify("History is disabled.")
		return
	}
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			i.out.Notify("Usage: /history [COUNT]")
			return
		}
		limit = n
	}

	entries, err := i.history.History(limit)
	if err != nil {
		i.out.Notify(fmt.Sprintf("[ERROR] %v", err))
		return
	}
	if len(entries) == 0 {
		i.out.Notify("History is empty.")
		return
	}

	var b strings.Builder
	b.WriteString("Recent events:")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("\n[%s] %s", e.At.Format("15:04:05"), e.Text))
	}
	i.out.Notify(b.String())
}

func (i *Interpreter) showHelp() {
	i.out.Notify(strings.Join([]string{
		"Available commands:",
		"/help                -> show this help",
		"/connect HOST PORT   -> connect to a running peer",
		"/peers               -> list connected peers",
		"/history [COUNT]     -> show recent events",
		"/quit                -> exit the program",
		"Any other text is sent as a chat message.",
	}, "\n"))
}
