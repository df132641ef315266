package openai

import (
	"encoding/json"
	"fmt"

	"github.com/saofund/blender-agent/internal/agent/models"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// --- chat-completions wire types ---

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type wireToolCall struct {
	ID       string               `json:"id"`
	Type     string               `json:"type"`
	Function wireToolCallFunction `json:"function"`
}

// The arguments field is a JSON object serialized into a string.
type wireToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []wireChoice `json:"choices"`
}

type wireChoice struct {
	Index        int         `json:"index"`
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// toWireRequest translates the internal conversation. Each tool result gets
// its own tool-role message keyed by tool_call_id.
func toWireRequest(model string, req *provider.ChatRequest) wireRequest {
	wireReq := wireRequest{
		Model:     model,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		wireReq.Temperature = &temp
	}
	if req.System != "" {
		wireReq.Messages = append(wireReq.Messages, wireMessage{Role: "system", Content: req.System})
	}

	for _, m := range req.Messages {
		switch m.Role {
		case "tool":
			for _, result := range m.ToolResults {
				content := result.Content
				if result.Error != "" {
					content = fmt.Sprintf(`{"status":"error","message":%q}`, result.Error)
				}
				wireReq.Messages = append(wireReq.Messages, wireMessage{
					Role:       "tool",
					Content:    content,
					ToolCallID: result.ID,
				})
			}

		case "assistant":
			msg := wireMessage{Role: "assistant", Content: m.Content}
			for _, call := range m.ToolCalls {
				args, err := json.Marshal(call.Args)
				if err != nil {
					args = []byte("{}")
				}
				msg.ToolCalls = append(msg.ToolCalls, wireToolCall{
					ID:   call.ID,
					Type: "function",
					Function: wireToolCallFunction{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			wireReq.Messages = append(wireReq.Messages, msg)

		default: // user
			wireReq.Messages = append(wireReq.Messages, wireMessage{Role: "user", Content: m.Content})
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
			Type: "function",
			Function: wireToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schema,
			},
		})
	}

	return wireReq
}

// fromWireResponse maps the first choice into the uniform turn. Tool-call
// arguments arrive as a JSON string and must parse into an object.
func fromWireResponse(name string, resp wireResponse) (*provider.AssistantTurn, error) {
	if len(resp.Choices) == 0 {
		return nil, provider.NewProviderError(name, provider.ErrorCodeMalformed, "response has no choices", provider.ErrMalformed)
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: msg.Content}, nil
	}

	calls := make([]models.ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, provider.NewProviderError(name, provider.ErrorCodeMalformed,
					fmt.Sprintf("tool call %s has unparseable arguments", tc.Function.Name), err)
			}
		}
		calls = append(calls, models.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}

	return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: calls}, nil
}
