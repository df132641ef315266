package ui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReadInput(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("  make a red cube  \n"), &out, nil)

	line, err := c.ReadInput(context.Background(), "You: ")
	require.NoError(t, err)
	assert.Equal(t, "make a red cube", line)
	assert.Contains(t, out.String(), "You:")
}

func TestConsoleReadInputCancelled(t *testing.T) {
	var out bytes.Buffer
	blocked, cancel := context.WithCancel(context.Background())

	// Reader that never produces a line
	r, w := io.Pipe()
	defer w.Close()
	c := NewConsole(r, &out, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.ReadInput(blocked, "You: ")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("ReadInput did not honor cancellation")
	}
}

func TestConsoleWriteMessageRenders(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out, upperRenderer{})

	c.WriteMessage("scene updated")
	assert.Contains(t, out.String(), "SCENE UPDATED")
}

func TestConsoleWriteStatus(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out, nil)

	c.WriteStatus("thinking", "Generating response...")
	assert.Contains(t, out.String(), "thinking")
	assert.Contains(t, out.String(), "Generating response...")
}

func TestPlainRendererPassthrough(t *testing.T) {
	out, err := PlainRenderer{}.Render("# heading")
	require.NoError(t, err)
	assert.Equal(t, "# heading", out)
}

func TestChatModelInputRequestOpensInput(t *testing.T) {
	inputReq := make(chan string, 1)
	m := newChatModel(inputReq, make(chan string, 1), make(chan statusMsg, 1), make(chan string, 1), nil)

	updated, _ := m.Update(inputRequestMsg("Ask me anything"))
	model := updated.(chatModel)

	assert.True(t, model.accepting)
	assert.False(t, model.thinking)
	assert.Equal(t, "Ask me anything", model.input.Placeholder)
}

func TestChatModelEnterSendsInput(t *testing.T) {
	inputResp := make(chan string, 1)
	m := newChatModel(make(chan string, 1), inputResp, make(chan statusMsg, 1), make(chan string, 1), nil)
	m.accepting = true
	m.input.SetValue("delete the cube")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(chatModel)
	require.NotNil(t, cmd)

	assert.False(t, model.accepting)
	assert.True(t, model.thinking)
	assert.Contains(t, strings.Join(model.transcript, "\n"), "delete the cube")

	go cmd()
	select {
	case got := <-inputResp:
		assert.Equal(t, "delete the cube", got)
	case <-time.After(time.Second):
		t.Fatal("input was never delivered")
	}
}

func TestChatModelMessageAppendsTranscript(t *testing.T) {
	m := newChatModel(make(chan string, 1), make(chan string, 1), make(chan statusMsg, 1), make(chan string, 1), upperRenderer{})
	m.thinking = true

	updated, _ := m.Update(messageReceivedMsg("done"))
	model := updated.(chatModel)

	assert.False(t, model.thinking)
	assert.Contains(t, strings.Join(model.transcript, "\n"), "DONE")
}

func TestChatModelCtrlCQuits(t *testing.T) {
	m := newChatModel(make(chan string, 1), make(chan string, 1), make(chan statusMsg, 1), make(chan string, 1), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// upperRenderer makes renderer output observable in assertions.
type upperRenderer struct{}

func (upperRenderer) Render(markdown string) (string, error) {
	return strings.ToUpper(markdown), nil
}
