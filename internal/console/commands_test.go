package console

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"floodchat/internal/eventlog"
	"floodchat/internal/node"
)

type fakeCore struct {
	mu        sync.Mutex
	sent      []string
	dials     []string
	shutdowns int
	peers     []string
	sendErr   error
}

func (f *fakeCore) Connect(host string, port int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dials = append(f.dials, host+":"+strconv.Itoa(port))
	return nil
}

func (f *fakeCore) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
}

func (f *fakeCore) Peers() []string { return f.peers }

func (f *fakeCore) Send(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

type recordingConsole struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingConsole) Notify(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recordingConsole) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

type fakeHistory []eventlog.Entry

func (h fakeHistory) History(limit int) ([]eventlog.Entry, error) {
	if limit < len(h) {
		return h[len(h)-limit:], nil
	}
	return h, nil
}

func TestInterpreter_Text_Goes_To_Queue_Commands_Do_Not(t *testing.T) {
	req := require.New(t)
	core := &fakeCore{}
	out := &recordingConsole{}
	interp := NewInterpreter(core, out, nil)

	req.False(interp.Handle("hi there"))
	req.False(interp.Handle("   "))
	req.False(interp.Handle("/help"))
	req.False(interp.Handle("/unknown"))

	req.Equal([]string{"hi there"}, core.sent)
	req.Equal("Unknown command: /unknown. Type /help for help.", out.last())
}

func TestInterpreter_Connect_Validates_Arguments(t *testing.T) {
	req := require.New(t)
	core := &fakeCore{}
	out := &recordingConsole{}
	interp := NewInterpreter(core, out, nil)

	interp.Handle("/connect 127.0.0.1")
	req.Equal("Usage: /connect HOST PORT", out.last())

	interp.Handle("/connect 127.0.0.1 abc")
	req.Equal("Invalid port. Use an integer.", out.last())

	interp.Handle("/connect 127.0.0.1 5001")
	req.Equal([]string{"127.0.0.1:5001"}, core.dials)
}

func TestInterpreter_Quit_Shuts_Down(t *testing.T) {
	req := require.New(t)
	core := &fakeCore{}
	interp := NewInterpreter(core, &recordingConsole{}, nil)

	req.True(interp.Handle("/QUIT"))
	req.True(interp.Handle("/exit"))
	req.Equal(2, core.shutdowns)
}

func TestInterpreter_Peers(t *testing.T) {
	req := require.New(t)
	core := &fakeCore{}
	out := &recordingConsole{}
	interp := NewInterpreter(core, out, nil)

	interp.Handle("/peers")
	req.Equal("No peers connected.", out.last())

	core.peers = []string{"127.0.0.1:5001", "127.0.0.1:5002"}
	interp.Handle("/peers")
	req.Equal("Connected peers:\n- 127.0.0.1:5001\n- 127.0.0.1:5002", out.last())
}

func TestInterpreter_History(t *testing.T) {
	req := require.New(t)
	out := &recordingConsole{}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	history := fakeHistory{{At: at, Text: "a"}, {At: at, Text: "b"}}

	NewInterpreter(&fakeCore{}, out, nil).Handle("/history")
	req.Equal("History is disabled.", out.last())

	interp := NewInterpreter(&fakeCore{}, out, history)
	interp.Handle("/history 1")
	req.Equal("Recent events:\n[10:00:00] b", out.last())

	interp.Handle("/history zero")
	req.Equal("Usage: /history [COUNT]", out.last())
}

func TestInterpreter_Reports_Send_Errors(t *testing.T) {
	req := require.New(t)
	core := &fakeCore{sendErr: node.ErrShutdown}
	out := &recordingConsole{}

	NewInterpreter(core, out, nil).Handle("late message")

	req.True(errors.Is(core.sendErr, node.ErrShutdown))
	req.Equal("[ERROR] "+node.ErrShutdown.Error(), out.last())
}
