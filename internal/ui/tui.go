package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	inputBoxStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
)

// TUI implements UserInterface using Bubble Tea.
type TUI struct {
	program *tea.Program

	// agent -> UI channels
	inputReq    chan string
	inputResp   chan string
	statusChan  chan statusMsg
	messageChan chan string
}

var _ UserInterface = (*TUI)(nil)

type statusMsg struct {
	phase   string
	message string
}

// NewTUI creates the Bubble Tea chat interface.
func NewTUI(renderer MarkdownRenderer) *TUI {
	t := &TUI{
		inputReq:    make(chan string),
		inputResp:   make(chan string),
		statusChan:  make(chan statusMsg, 10),
		messageChan: make(chan string, 10),
	}

	model := newChatModel(t.inputReq, t.inputResp, t.statusChan, t.messageChan, renderer)
	t.program = tea.NewProgram(model, tea.WithAltScreen())
	return t
}

// Start runs the UI program and blocks until it exits.
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Quit stops the UI program.
func (t *TUI) Quit() {
	t.program.Quit()
}

// ReadInput implements UserInterface.
func (t *TUI) ReadInput(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case t.inputReq <- prompt:
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case response := <-t.inputResp:
			return response, nil
		}
	}
}

// WriteStatus implements UserInterface.
func (t *TUI) WriteStatus(phase string, message string) {
	select {
	case t.statusChan <- statusMsg{phase: phase, message: message}:
	default:
		// Drop if channel is full
	}
}

// WriteMessage implements UserInterface.
func (t *TUI) WriteMessage(content string) {
	select {
	case t.messageChan <- content:
	default:
		// Drop if channel is full
	}
}

// Internal messages
type inputRequestMsg string
type statusUpdateMsg statusMsg
type messageReceivedMsg string

// chatModel implements tea.Model
type chatModel struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []string
	status     string
	thinking   bool
	accepting  bool
	width      int

	renderer  MarkdownRenderer
	inputReq  <-chan string
	inputResp chan<- string
	statuses  <-chan statusMsg
	messages  <-chan string
}

func newChatModel(
	inputReq <-chan string,
	inputResp chan<- string,
	statuses <-chan statusMsg,
	messages <-chan string,
	renderer MarkdownRenderer,
) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if renderer == nil {
		renderer = PlainRenderer{}
	}

	return chatModel{
		input:     ti,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		width:     80,
		renderer:  renderer,
		inputReq:  inputReq,
		inputResp: inputResp,
		statuses:  statuses,
		messages:  messages,
	}
}

// Init implements tea.Model
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		listenForInputRequests(m.inputReq),
		listenForStatus(m.statuses),
		listenForMessages(m.messages),
	)
}

// Update implements tea.Model
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.accepting && strings.TrimSpace(m.input.Value()) != "" {
				value := strings.TrimSpace(m.input.Value())
				m.appendLine(userStyle.Render("You: ") + value)
				m.input.Reset()
				m.accepting = false
				m.thinking = true
				resp := m.inputResp
				return m, func() tea.Msg {
					resp <- value
					return nil
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 5 // input box and status line

	case inputRequestMsg:
		m.accepting = true
		m.thinking = false
		m.input.Placeholder = string(msg)
		cmds = append(cmds, listenForInputRequests(m.inputReq))

	case statusUpdateMsg:
		m.status = fmt.Sprintf("[%s] %s", msg.phase, msg.message)
		cmds = append(cmds, listenForStatus(m.statuses))

	case messageReceivedMsg:
		rendered, err := m.renderer.Render(string(msg))
		if err != nil {
			rendered = string(msg)
		}
		m.appendLine(assistantStyle.Render(strings.TrimRight(rendered, "\n")))
		m.thinking = false
		m.status = ""
		cmds = append(cmds, listenForMessages(m.messages))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View implements tea.Model
func (m chatModel) View() string {
	var status string
	switch {
	case m.thinking:
		status = statusStyle.Render(m.spinner.View() + " " + m.status)
	case m.status != "":
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		status,
		inputBoxStyle.Width(m.width-2).Render(m.input.View()),
	)
}

func (m *chatModel) appendLine(line string) {
	m.transcript = append(m.transcript, line)
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func listenForInputRequests(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return inputRequestMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		return statusUpdateMsg(<-ch)
	}
}

func listenForMessages(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return messageReceivedMsg(<-ch)
	}
}
