// Package ui holds the user-facing chat surfaces: a Bubble Tea terminal UI
// and a plain console fallback.
package ui

import "context"

// UserInterface defines the contract for all user interactions.
// It follows a Read/Write pattern for clarity.
//
// All methods accept or honor context cancellation where they block. If the
// user cancels (Ctrl+C), implementations return context.Canceled.
type UserInterface interface {
	// ReadInput prompts the user for the next chat message
	ReadInput(ctx context.Context, prompt string) (string, error)

	// WriteStatus displays ephemeral status updates (e.g., "Thinking...")
	WriteStatus(phase string, message string)

	// WriteMessage displays the agent's actual text responses
	WriteMessage(content string)
}

// MarkdownRenderer renders model output for the terminal.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}
