package models

import (
	"context"

	"github.com/saofund/blender-agent/internal/agent/models"
)

// Provider defines the interface for LLM backends.
// Each concrete adapter translates the internal conversation and tool schema
// into the backend's own request shape and maps the backend's tool-call
// representation back into the uniform AssistantTurn.
type Provider interface {
	// Chat sends the conversation plus tool definitions to the model and
	// returns either a final text answer or a batch of tool calls.
	// Failures are reported as *ProviderError; Chat is never retried.
	Chat(ctx context.Context, req *ChatRequest) (*AssistantTurn, error)

	// Name returns the configured provider name (e.g. "claude", "deepseek").
	Name() string
}

// ChatRequest encapsulates all parameters for one LLM round-trip.
type ChatRequest struct {
	// Messages contains the full conversation history, oldest first.
	Messages []models.Message

	// Tools contains the tool definitions the model may invoke.
	Tools []ToolDefinition

	// System is the system prompt, when the backend supports one.
	System string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens bounds the completion length. Zero means provider default.
	MaxTokens int
}

// TurnKind discriminates the AssistantTurn union.
type TurnKind string

const (
	TurnFinalText TurnKind = "final_text"
	TurnToolCalls TurnKind = "tool_calls"
)

// AssistantTurn is the uniform result of one LLM round-trip: either a final
// text reply or one-or-more tool calls, never both.
type AssistantTurn struct {
	Kind TurnKind

	// For Kind = TurnFinalText
	Text string

	// For Kind = TurnToolCalls, in the order the model returned them
	Calls []models.ToolCall
}

// ToolDefinition defines a tool that the model can invoke.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *ParameterSchema // nil means no parameters
}

// ParameterSchema maps directly to standard JSON Schema.
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema defines a single parameter property.
type PropertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Enum        []string        `json:"enum,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"`
}
