// Package console is the interactive side of a node: the line-oriented
// terminal, the full-screen TUI and the slash-command interpreter.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"
)

// Terminal is a line console. Every notification clears the pending prompt,
// prints the line and redraws the prompt, all under one lock.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	prompt  string
	colored bool
	stopped bool
}

func NewTerminal(out io.Writer, name string, colored bool) *Terminal {
	return &Terminal{
		out:     out,
		prompt:  name + "> ",
		colored: colored,
	}
}

func (t *Terminal) Notify(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprint(t.out, "\r\033[K")
	fmt.Fprintln(t.out, t.paint(line))
	if !t.stopped {
		fmt.Fprint(t.out, t.renderPrompt())
	}
}

// Prompt draws the input prompt.
func (t *Terminal) Prompt() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.stopped {
		fmt.Fprint(t.out, t.renderPrompt())
	}
}

// Stop disables prompt redraws; notifications are still printed.
func (t *Terminal) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *Terminal) renderPrompt() string {
	if !t.colored {
		return t.prompt
	}
	return color.Bold.Render(t.prompt)
}

func (t *Terminal) paint(line string) string {
	if !t.colored || !strings.HasPrefix(line, "[") {
		return line
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return line
	}
	tag, rest := line[:end+1], line[end+1:]

	switch {
	case strings.HasSuffix(tag, " said]"):
		return color.Cyan.Render(tag) + rest
	case tag == "[ERROR]":
		return color.Red.Render(tag) + rest
	case tag == "[CONNECTION]" || tag == "[CONNECTED]" || tag == "[LISTENING]":
		return color.Green.Render(tag) + rest
	case tag == "[DISCONNECTED]" || tag == "[PEER REMOVED]":
		return color.Yellow.Render(tag) + rest
	default:
		return color.Gray.Render(tag) + rest
	}
}
