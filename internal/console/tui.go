package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	accentColor  = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	systemLineStyle = lipgloss.NewStyle().Foreground(accentColor).Italic(true)
	errorLineStyle  = lipgloss.NewStyle().Foreground(errorColor)
	senderStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	timestampStyle  = lipgloss.NewStyle().Foreground(mutedColor).Faint(true)
	peerDotStyle    = lipgloss.NewStyle().Foreground(accentColor)
)

const (
	peerPanelWidth = 30
	maxShownPeers  = 15
	notifyBacklog  = 256
)

type chatLine struct {
	at   time.Time
	text string
}

type lineMsg chatLine

type tickMsg time.Time

type stoppedMsg struct{}

type handledMsg struct{ stop bool }

// Node is what the TUI needs from a running node.
type Node interface {
	Core
	ID() string
	Done() <-chan struct{}
}

// TUI is a full-screen front end. It implements node.Console so the node
// can deliver notifications straight into the scrollback.
type TUI struct {
	node   Node
	interp *Interpreter
	lines  chan chatLine

	history  []chatLine
	peers    []string
	viewport viewport.Model
	textarea textarea.Model
	ready    bool
	width    int
	height   int
}

// NewTUI builds the model. It must be attached to a node before it runs.
func NewTUI() *TUI {
	ta := textarea.New()
	ta.Placeholder = "Type a message or /help for commands..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 500
	ta.SetWidth(80)
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return &TUI{
		lines:    make(chan chatLine, notifyBacklog),
		viewport: viewport.New(80, 20),
		textarea: ta,
	}
}

// Attach binds the node and the interpreter that handles submitted input.
func (ui *TUI) Attach(n Node, interp *Interpreter) {
	ui.node = n
	ui.interp = interp
}

// Notify never blocks the caller; lines beyond the backlog are dropped.
func (ui *TUI) Notify(line string) {
	select {
	case ui.lines <- chatLine{at: time.Now(), text: line}:
	default:
	}
}

func (ui *TUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, ui.nextLine(), ui.waitStopped(), ui.tick())
}

func (ui *TUI) nextLine() tea.Cmd {
	return func() tea.Msg {
		return lineMsg(<-ui.lines)
	}
}

func (ui *TUI) waitStopped() tea.Cmd {
	return func() tea.Msg {
		<-ui.node.Done()
		return stoppedMsg{}
	}
}

func (ui *TUI) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// submit runs the interpreter off the update loop; /connect may block for
// the whole dial timeout.
func (ui *TUI) submit(input string) tea.Cmd {
	return func() tea.Msg {
		return handledMsg{stop: ui.interp.Handle(input)}
	}
}

func (ui *TUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd tea.Cmd
	ui.textarea, tiCmd = ui.textarea.Update(msg)
	ui.viewport, vpCmd = ui.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			ui.node.Shutdown()
			return ui, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(ui.textarea.Value())
			ui.textarea.Reset()
			if input == "" {
				return ui, nil
			}
			return ui, ui.submit(input)
		}

	case tea.WindowSizeMsg:
		ui.width, ui.height = msg.Width, msg.Height
		ui.ready = true
		ui.viewport.Width = ui.width - peerPanelWidth - 5
		ui.viewport.Height = ui.height - 3 - 5 - 1
		ui.textarea.SetWidth(ui.width - 4)
		ui.refresh()

	case lineMsg:
		ui.history = append(ui.history, chatLine(msg))
		ui.refresh()
		ui.viewport.GotoBottom()
		return ui, ui.nextLine()

	case handledMsg:
		if msg.stop {
			return ui, tea.Quit
		}

	case stoppedMsg:
		return ui, tea.Quit

	case tickMsg:
		ui.peers = ui.node.Peers()
		return ui, ui.tick()
	}

	return ui, tea.Batch(tiCmd, vpCmd)
}

func (ui *TUI) refresh() {
	var content strings.Builder
	for _, l := range ui.history {
		content.WriteString(renderLine(l))
		content.WriteString("\n")
	}
	ui.viewport.SetContent(content.String())
}

func renderLine(l chatLine) string {
	stamp := timestampStyle.Render(l.at.Format("15:04:05"))

	end := strings.Index(l.text, "]")
	switch {
	case strings.HasPrefix(l.text, "[ERROR]"):
		return fmt.Sprintf("%s %s", stamp, errorLineStyle.Render(l.text))
	case strings.HasPrefix(l.text, "[") && end > 0 && strings.HasSuffix(l.text[:end+1], " said]"):
		return fmt.Sprintf("%s %s%s", stamp, senderStyle.Render(l.text[:end+1]), l.text[end+1:])
	default:
		return fmt.Sprintf("%s %s", stamp, systemLineStyle.Render(l.text))
	}
}

func (ui *TUI) View() string {
	if !ui.ready {
		return "\n  Initializing chat...\n"
	}

	header := headerStyle.Render("Flood Chat - " + ui.node.ID())
	messages := panelStyle.Width(ui.width - peerPanelWidth - 5).Height(ui.viewport.Height + 2).
		Render(fmt.Sprintf("Messages\n%s", ui.viewport.View()))
	body := lipgloss.JoinHorizontal(lipgloss.Top, messages, ui.renderPeers())
	input := inputStyle.Width(ui.width - 4).
		Render(fmt.Sprintf("Input (Esc to quit)\n%s", ui.textarea.View()))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input)
}

func (ui *TUI) renderPeers() string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("Peers (%d)\n", len(ui.peers)))
	content.WriteString(strings.Repeat("─", peerPanelWidth-2) + "\n")

	if len(ui.peers) == 0 {
		content.WriteString("  No peers connected\n  Use /connect HOST PORT\n")
	}
	for i, peer := range ui.peers {
		if i == maxShownPeers {
			content.WriteString(fmt.Sprintf("  ... and %d more\n", len(ui.peers)-maxShownPeers))
			break
		}
		content.WriteString(fmt.Sprintf("  %s %s\n", peerDotStyle.Render("●"), peer))
	}

	return panelStyle.Width(peerPanelWidth).Height(ui.viewport.Height + 2).Render(content.String())
}
