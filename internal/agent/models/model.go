package models

// Message represents a single message in the conversation history
type Message struct {
	Role    string // "user", "assistant", "tool"
	Content string

	// For assistant messages carrying tool calls
	ToolCalls []ToolCall

	// For tool messages carrying tool results
	ToolResults []ToolResult
}

// ToolCall represents a structured tool invocation from the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult represents the result of a tool execution.
// Error == "" means the call succeeded.
type ToolResult struct {
	ID      string // Matches ToolCall.ID
	Name    string // Tool name
	Content string // Result content (JSON)
	Error   string // Error message if the tool failed
}

// OK reports whether the tool call succeeded.
func (r ToolResult) OK() bool {
	return r.Error == ""
}
