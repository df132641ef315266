package ui

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown with glamour's terminal styles.
type GlamourRenderer struct {
	renderer *glamour.TermRenderer
}

// NewGlamourRenderer creates a renderer wrapped to the given width.
func NewGlamourRenderer(width int) (*GlamourRenderer, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &GlamourRenderer{renderer: r}, nil
}

// Render implements MarkdownRenderer.
func (g *GlamourRenderer) Render(markdown string) (string, error) {
	return g.renderer.Render(markdown)
}

// PlainRenderer passes text through untouched. Used with --plain and as the
// fallback when the terminal cannot be styled.
type PlainRenderer struct{}

// Render implements MarkdownRenderer.
func (PlainRenderer) Render(markdown string) (string, error) {
	return markdown, nil
}
