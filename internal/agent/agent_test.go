package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saofund/blender-agent/internal/agent/adapter"
	"github.com/saofund/blender-agent/internal/agent/models"
	"github.com/saofund/blender-agent/internal/blender"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// MockProvider implements provider.Provider for testing
type MockProvider struct {
	NameValue string
	ChatFunc  func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error)
}

func (m *MockProvider) Name() string { return m.NameValue }

func (m *MockProvider) Chat(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

// MockTool implements adapter.Tool for testing
type MockTool struct {
	NameValue   string
	ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)
}

func (m *MockTool) Name() string        { return m.NameValue }
func (m *MockTool) Description() string { return "mock tool" }

func (m *MockTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{
		Name:        m.NameValue,
		Description: "mock tool",
		Parameters:  &provider.ParameterSchema{Type: "object"},
	}
}

func (m *MockTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, args)
	}
	return "", errors.New("not implemented")
}

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestRunTurnFinalTextSingleRoundTrip(t *testing.T) {
	chats := 0
	p := &MockProvider{
		NameValue: "claude",
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			chats++
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "hello", req.Messages[0].Content)
			assert.NotEmpty(t, req.System)
			return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: "Hi there."}, nil
		},
	}

	a := New(p, nil, quietOptions())
	answer, err := a.RunTurn(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there.", answer)
	assert.Equal(t, 1, chats)

	history := a.History()
	require.Len(t, history, 2)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestRunTurnExecutesToolBatchInOrder(t *testing.T) {
	var executed []string
	tools := []adapter.Tool{
		&MockTool{NameValue: "create_object", ExecuteFunc: func(ctx context.Context, args map[string]any) (string, error) {
			executed = append(executed, "create_object")
			return `{"name":"Cube"}`, nil
		}},
		&MockTool{NameValue: "set_material", ExecuteFunc: func(ctx context.Context, args map[string]any) (string, error) {
			executed = append(executed, "set_material")
			return `{"material":"Red"}`, nil
		}},
	}

	chats := 0
	p := &MockProvider{
		NameValue: "claude",
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			chats++
			if chats == 1 {
				assert.Len(t, req.Tools, 2)
				return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: []models.ToolCall{
					{ID: "1", Name: "create_object", Args: map[string]any{"type": "CUBE"}},
					{ID: "2", Name: "set_material", Args: map[string]any{"object_name": "Cube"}},
				}}, nil
			}

			// Second round sees the assistant tool calls and their results.
			require.Len(t, req.Messages, 3)
			toolMsg := req.Messages[2]
			assert.Equal(t, "tool", toolMsg.Role)
			require.Len(t, toolMsg.ToolResults, 2)
			assert.Equal(t, "1", toolMsg.ToolResults[0].ID)
			assert.Equal(t, "2", toolMsg.ToolResults[1].ID)
			assert.True(t, toolMsg.ToolResults[0].OK())
			return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: "Made a red cube."}, nil
		},
	}

	a := New(p, tools, quietOptions())
	answer, err := a.RunTurn(context.Background(), "make a red cube")
	require.NoError(t, err)
	assert.Equal(t, "Made a red cube.", answer)
	assert.Equal(t, []string{"create_object", "set_material"}, executed)
}

func TestRunTurnToolErrorFedBackNotFatal(t *testing.T) {
	tools := []adapter.Tool{
		&MockTool{NameValue: "delete_object", ExecuteFunc: func(ctx context.Context, args map[string]any) (string, error) {
			return "", fmt.Errorf("object not found: Ghost")
		}},
	}

	chats := 0
	p := &MockProvider{
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			chats++
			if chats == 1 {
				return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: []models.ToolCall{
					{ID: "1", Name: "delete_object", Args: map[string]any{"name": "Ghost"}},
				}}, nil
			}
			result := req.Messages[2].ToolResults[0]
			assert.False(t, result.OK())
			assert.Contains(t, result.Error, "object not found")
			return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: "That object does not exist."}, nil
		},
	}

	a := New(p, tools, quietOptions())
	answer, err := a.RunTurn(context.Background(), "delete Ghost")
	require.NoError(t, err)
	assert.Equal(t, "That object does not exist.", answer)
}

func TestRunTurnTransportFailureShortCircuitsBatch(t *testing.T) {
	var executed []string
	tools := []adapter.Tool{
		&MockTool{NameValue: "create_object", ExecuteFunc: func(ctx context.Context, args map[string]any) (string, error) {
			executed = append(executed, "create_object")
			return "", &blender.TransportError{Op: "dial", Err: errors.New("connection refused")}
		}},
		&MockTool{NameValue: "render_scene", ExecuteFunc: func(ctx context.Context, args map[string]any) (string, error) {
			executed = append(executed, "render_scene")
			return "{}", nil
		}},
	}

	chats := 0
	p := &MockProvider{
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			chats++
			if chats == 1 {
				return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: []models.ToolCall{
					{ID: "1", Name: "create_object", Args: map[string]any{"type": "CUBE"}},
					{ID: "2", Name: "render_scene", Args: map[string]any{}},
				}}, nil
			}
			results := req.Messages[2].ToolResults
			require.Len(t, results, 2)
			assert.Contains(t, results[0].Error, "editor unreachable")
			assert.Contains(t, results[1].Error, "skipped")
			return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: "Blender is not responding."}, nil
		},
	}

	a := New(p, tools, quietOptions())
	answer, err := a.RunTurn(context.Background(), "make and render a cube")
	require.NoError(t, err)
	assert.Equal(t, "Blender is not responding.", answer)
	// The second tool never runs against a dead socket.
	assert.Equal(t, []string{"create_object"}, executed)
}

func TestRunTurnUnknownToolBecomesErrorResult(t *testing.T) {
	chats := 0
	p := &MockProvider{
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			chats++
			if chats == 1 {
				return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: []models.ToolCall{
					{ID: "1", Name: "teleport_object", Args: map[string]any{}},
				}}, nil
			}
			assert.Contains(t, req.Messages[2].ToolResults[0].Error, "unknown tool")
			return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: "I cannot do that."}, nil
		},
	}

	a := New(p, nil, quietOptions())
	_, err := a.RunTurn(context.Background(), "teleport the cube")
	require.NoError(t, err)
}

func TestRunTurnRoundBudgetSynthesizesMessage(t *testing.T) {
	tools := []adapter.Tool{
		&MockTool{NameValue: "get_scene_info", ExecuteFunc: func(ctx context.Context, args map[string]any) (string, error) {
			return "{}", nil
		}},
	}

	chats := 0
	p := &MockProvider{
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			chats++
			return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: []models.ToolCall{
				{ID: fmt.Sprintf("%d", chats), Name: "get_scene_info", Args: map[string]any{}},
			}}, nil
		},
	}

	opts := quietOptions()
	opts.MaxRounds = 3
	a := New(p, tools, opts)

	answer, err := a.RunTurn(context.Background(), "loop forever")
	require.NoError(t, err)
	assert.Contains(t, answer, "3 tool rounds")
	assert.Equal(t, 3, chats)
}

func TestRunTurnProviderErrorAborts(t *testing.T) {
	p := &MockProvider{
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			return nil, provider.NewProviderError("claude", provider.ErrorCodeRateLimit, "slow down", provider.ErrRateLimit)
		},
	}

	a := New(p, nil, quietOptions())
	_, err := a.RunTurn(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrRateLimit)

	var pe *provider.ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestRunTurnHistoryAccumulatesAcrossTurns(t *testing.T) {
	p := &MockProvider{
		ChatFunc: func(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
			return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: "ok"}, nil
		},
	}

	a := New(p, nil, quietOptions())
	_, err := a.RunTurn(context.Background(), "first")
	require.NoError(t, err)
	_, err = a.RunTurn(context.Background(), "second")
	require.NoError(t, err)

	history := a.History()
	require.Len(t, history, 4)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[2].Content)
}
