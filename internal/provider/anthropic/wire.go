package anthropic

import (
	"encoding/json"

	"github.com/saofund/blender-agent/internal/agent/models"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// --- Messages API wire types ---

type messageRequest struct {
	Model       string         `json:"model"`
	Messages    []messageParam `json:"messages"`
	System      string         `json:"system,omitempty"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature *float64       `json:"temperature,omitempty"`
	Tools       []wireTool     `json:"tools,omitempty"`
}

type messageParam struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is the union of text, tool_use, and tool_result blocks.
type contentBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

type wireTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type messageResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// emptyObjectSchema is the input_schema for tools that take no parameters.
var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// toMessageRequest translates the internal conversation into the Messages
// API shape. Tool results ride in user-role messages as tool_result blocks.
func toMessageRequest(model string, req *provider.ChatRequest) messageRequest {
	wireReq := messageRequest{
		Model:     model,
		System:    req.System,
		MaxTokens: req.MaxTokens,
	}
	if wireReq.MaxTokens <= 0 {
		wireReq.MaxTokens = defaultMaxTokens
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		wireReq.Temperature = &temp
	}

	for _, m := range req.Messages {
		switch m.Role {
		case "tool":
			msg := messageParam{Role: "user"}
			for _, result := range m.ToolResults {
				block := contentBlock{
					Type:      "tool_result",
					ToolUseID: result.ID,
					Content:   result.Content,
				}
				if result.Error != "" {
					block.Content = result.Error
					block.IsError = true
				}
				msg.Content = append(msg.Content, block)
			}
			wireReq.Messages = append(wireReq.Messages, msg)

		case "assistant":
			msg := messageParam{Role: "assistant"}
			if m.Content != "" {
				msg.Content = append(msg.Content, contentBlock{Type: "text", Text: m.Content})
			}
			for _, call := range m.ToolCalls {
				msg.Content = append(msg.Content, contentBlock{
					Type:  "tool_use",
					ID:    call.ID,
					Name:  call.Name,
					Input: call.Args,
				})
			}
			wireReq.Messages = append(wireReq.Messages, msg)

		default: // user
			wireReq.Messages = append(wireReq.Messages, messageParam{
				Role:    "user",
				Content: []contentBlock{{Type: "text", Text: m.Content}},
			})
		}
	}

	for _, t := range req.Tools {
		schema := emptyObjectSchema
		if t.Parameters != nil {
			if raw, err := json.Marshal(t.Parameters); err == nil {
				schema = raw
			}
		}
		wireReq.Tools = append(wireReq.Tools, wireTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}

	return wireReq
}

// fromMessageResponse maps the response blocks into the uniform turn. Any
// tool_use block makes the turn a tool-call batch; text blocks alone make it
// a final answer.
func fromMessageResponse(resp messageResponse) *provider.AssistantTurn {
	var text string
	var calls []models.ToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			if text != "" {
				text += "\n"
			}
			text += block.Text
		case "tool_use":
			calls = append(calls, models.ToolCall{
				ID:   block.ID,
				Name: block.Name,
				Args: block.Input,
			})
		}
	}

	if len(calls) > 0 {
		return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: calls}
	}
	return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: text}
}
