package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdemtable/internal/protocol"
)

// Conn is the part of a Client the model drives.
type Conn interface {
	GetState() error
	Act(move string, amount int) error
	Messages() <-chan any
}

// serverMsg carries one decoded server message into the program.
type serverMsg struct{ msg any }

// closedMsg reports that the server connection ended.
type closedMsg struct{}

// sendErrMsg reports a request that could not be written.
type sendErrMsg struct{ err error }

// Model is the Bubble Tea model for the line client. Every server message
// is printed above the prompt; the prompt line shows whose turn it is.
type Model struct {
	conn     Conn
	renderer *Renderer
	input    textinput.Model

	state    *protocol.State
	notice   string
	err      error
	closed   bool
	quitting bool
}

// NewModel creates a model reading from conn.
func NewModel(conn Conn, renderer *Renderer) *Model {
	ti := textinput.New()
	ti.Placeholder = "fold, check, call, bet N, raise N, state, help, quit"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		conn:     conn,
		renderer: renderer,
		input:    ti,
	}
}

// Init starts the cursor blink and the server listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForMessage())
}

func (m *Model) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.conn.Messages()
		if !ok {
			return closedMsg{}
		}
		return serverMsg{msg: msg}
	}
}

// Update handles server messages and key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case serverMsg:
		if st, ok := msg.msg.(*protocol.State); ok {
			m.state = st
		}
		return m, tea.Batch(tea.Println(m.renderer.Render(msg.msg)), m.waitForMessage())

	case closedMsg:
		m.closed = true
		m.quitting = true
		return m, tea.Sequence(tea.Println("Connection closed by server"), tea.Quit)

	case sendErrMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			return m, m.handleLine(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleLine(line string) tea.Cmd {
	m.notice = ""
	if strings.TrimSpace(line) == "" {
		return nil
	}
	cmd, err := ParseCommand(line)
	if err != nil {
		m.notice = m.renderer.errorText.Render(err.Error())
		return nil
	}

	switch cmd.Kind {
	case CommandQuit:
		m.quitting = true
		return tea.Quit
	case CommandHelp:
		m.notice = HelpText
		return nil
	case CommandState:
		return m.send(m.conn.GetState)
	default:
		return m.send(func() error { return m.conn.Act(cmd.Move, cmd.Amount) })
	}
}

func (m *Model) send(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return sendErrMsg{err: fmt.Errorf("failed to send: %w", err)}
		}
		return nil
	}
}

// Err is the error that stopped the model, if any.
func (m *Model) Err() error { return m.err }

// View renders the status line, any notice and the prompt.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.status())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m *Model) status() string {
	r := m.renderer
	if m.state == nil {
		return r.muted.Render("Connecting...")
	}
	v := m.state.View
	switch {
	case v.Stage == protocol.StageWaiting:
		return r.muted.Render("Waiting for more players to join...")
	case v.SessionOver:
		return r.success.Render(fmt.Sprintf("Session over, %s wins", v.Winner))
	case v.IsTurn:
		return r.actions.Render(fmt.Sprintf("Hand #%d · your move: %s", v.HandNumber, strings.Join(v.ValidActions, ", ")))
	default:
		return r.muted.Render(fmt.Sprintf("Hand #%d · waiting for %s", v.HandNumber, v.Current))
	}
}
