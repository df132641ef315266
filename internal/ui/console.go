package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	consolePromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	consoleStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// Console is the line-oriented fallback interface for dumb terminals and
// scripted use.
type Console struct {
	reader   *bufio.Reader
	out      io.Writer
	renderer MarkdownRenderer
}

var _ UserInterface = (*Console)(nil)

// NewConsole creates a Console reading from in and writing to out.
func NewConsole(in io.Reader, out io.Writer, renderer MarkdownRenderer) *Console {
	if renderer == nil {
		renderer = PlainRenderer{}
	}
	return &Console{
		reader:   bufio.NewReader(in),
		out:      out,
		renderer: renderer,
	}
}

// ReadInput implements UserInterface. The blocking read runs in its own
// goroutine so cancellation is honored; the pending read is abandoned on
// cancel, which is fine for a process that is about to exit.
func (c *Console) ReadInput(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, consolePromptStyle.Render(prompt))

	type readResult struct {
		line string
		err  error
	}
	ch := make(chan readResult, 1)
	go func() {
		line, err := c.reader.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil && res.line == "" {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// WriteStatus implements UserInterface.
func (c *Console) WriteStatus(phase string, message string) {
	fmt.Fprintln(c.out, consoleStatusStyle.Render(fmt.Sprintf("[%s] %s", phase, message)))
}

// WriteMessage implements UserInterface.
func (c *Console) WriteMessage(content string) {
	rendered, err := c.renderer.Render(content)
	if err != nil {
		rendered = content
	}
	fmt.Fprintln(c.out, rendered)
}
