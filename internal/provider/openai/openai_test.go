package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saofund/blender-agent/internal/agent/models"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

func TestChatFinalText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req wireRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "cmpl-1",
			"model": "deepseek-chat",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "Done."}, "finish_reason": "stop"},
			},
		})
	}))
	defer srv.Close()

	p := New(Config{Name: "deepseek", Model: "deepseek-chat", APIKey: "test-key", BaseURL: srv.URL}, nil)
	turn, err := p.Chat(context.Background(), &provider.ChatRequest{
		System:   "You drive Blender.",
		Messages: []models.Message{{Role: "user", Content: "delete the cube"}},
	})
	require.NoError(t, err)
	assert.Equal(t, provider.TurnFinalText, turn.Kind)
	assert.Equal(t, "Done.", turn.Text)
}

func TestChatToolCallsStringArguments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "cmpl-2",
			"model": "deepseek-chat",
			"choices": []map[string]any{{
				"index": 0,
				"message": map[string]any{
					"role": "assistant",
					"tool_calls": []map[string]any{{
						"id":   "call_1",
						"type": "function",
						"function": map[string]any{
							"name":      "create_object",
							"arguments": `{"type":"CUBE","name":"MyCube","location":[0,0,1]}`,
						},
					}},
				},
				"finish_reason": "tool_calls",
			}},
		})
	}))
	defer srv.Close()

	p := New(Config{Name: "deepseek", Model: "deepseek-chat", APIKey: "k", BaseURL: srv.URL}, nil)
	turn, err := p.Chat(context.Background(), &provider.ChatRequest{
		Messages: []models.Message{{Role: "user", Content: "make a cube"}},
	})
	require.NoError(t, err)
	assert.Equal(t, provider.TurnToolCalls, turn.Kind)
	require.Len(t, turn.Calls, 1)
	assert.Equal(t, "call_1", turn.Calls[0].ID)
	assert.Equal(t, "create_object", turn.Calls[0].Name)
	assert.Equal(t, "MyCube", turn.Calls[0].Args["name"])
	assert.Equal(t, []any{0.0, 0.0, 1.0}, turn.Calls[0].Args["location"])
}

func TestChatUnparseableArguments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{
					"role": "assistant",
					"tool_calls": []map[string]any{{
						"id":       "call_x",
						"type":     "function",
						"function": map[string]any{"name": "create_object", "arguments": "{not json"},
					}},
				},
			}},
		})
	}))
	defer srv.Close()

	p := New(Config{Name: "zhipu", Model: "glm-4", APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := p.Chat(context.Background(), &provider.ChatRequest{})

	var pe *provider.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, provider.ErrorCodeMalformed, pe.Code)
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := New(Config{Name: "moonshot", Model: "moonshot-v1", APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := p.Chat(context.Background(), &provider.ChatRequest{})

	var pe *provider.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, provider.ErrorCodeMalformed, pe.Code)
}

func TestChatQuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient balance", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	p := New(Config{Name: "doubao", Model: "doubao-pro", APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := p.Chat(context.Background(), &provider.ChatRequest{})

	var pe *provider.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, provider.ErrorCodeQuota, pe.Code)
}

func TestToWireRequestRoundTrip(t *testing.T) {
	req := &provider.ChatRequest{
		Messages: []models.Message{
			{Role: "user", Content: "make a cube"},
			{Role: "assistant", ToolCalls: []models.ToolCall{
				{ID: "call_1", Name: "create_object", Args: map[string]any{"type": "CUBE"}},
			}},
			{Role: "tool", ToolResults: []models.ToolResult{
				{ID: "call_1", Name: "create_object", Content: `{"name":"Cube"}`},
			}},
		},
		Tools: []provider.ToolDefinition{
			{Name: "create_object", Description: "Create an object"},
		},
		Temperature: 0.5,
	}

	wireReq := toWireRequest("glm-4", req)
	require.Len(t, wireReq.Messages, 3)

	assistant := wireReq.Messages[1]
	require.Len(t, assistant.ToolCalls, 1)
	assert.Equal(t, "function", assistant.ToolCalls[0].Type)
	assert.JSONEq(t, `{"type":"CUBE"}`, assistant.ToolCalls[0].Function.Arguments)

	toolMsg := wireReq.Messages[2]
	assert.Equal(t, "tool", toolMsg.Role)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)
	assert.JSONEq(t, `{"name":"Cube"}`, toolMsg.Content)

	require.Len(t, wireReq.Tools, 1)
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(wireReq.Tools[0].Function.Parameters))
}

func TestToWireRequestErrorResult(t *testing.T) {
	req := &provider.ChatRequest{
		Messages: []models.Message{
			{Role: "tool", ToolResults: []models.ToolResult{
				{ID: "call_9", Name: "delete_object", Error: "object not found"},
			}},
		},
	}

	wireReq := toWireRequest("glm-4", req)
	require.Len(t, wireReq.Messages, 1)
	assert.JSONEq(t, `{"status":"error","message":"object not found"}`, wireReq.Messages[0].Content)
}
