// Package agent runs the dispatch loop: user message in, provider turns and
// tool executions until the model produces a final text answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/saofund/blender-agent/internal/agent/adapter"
	"github.com/saofund/blender-agent/internal/agent/models"
	"github.com/saofund/blender-agent/internal/blender"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

const defaultSystemPrompt = `You are a 3D scene assistant controlling a running Blender instance through tools.
Use the tools to inspect and modify the scene. Prefer small, verifiable steps:
inspect before you modify, and report what changed. When a tool fails, explain
the failure to the user instead of retrying blindly.`

const defaultMaxRounds = 8

// Options tune one Agent.
type Options struct {
	MaxRounds    int
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	Logger       *slog.Logger
}

// Agent owns the conversation history and drives provider turns. A single
// mutex serializes turns: the editor does not interleave scene mutations, so
// tool batches from concurrent turns must never overlap.
type Agent struct {
	provider    provider.Provider
	tools       map[string]adapter.Tool
	definitions []provider.ToolDefinition

	maxRounds   int
	temperature float64
	maxTokens   int
	system      string
	logger      *slog.Logger

	mu      sync.Mutex
	history []models.Message
}

// New creates an Agent over the given provider and tool roster.
func New(p provider.Provider, tools []adapter.Tool, opts Options) *Agent {
	toolMap := make(map[string]adapter.Tool, len(tools))
	definitions := make([]provider.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		toolMap[t.Name()] = t
		definitions = append(definitions, t.Definition())
	}

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	system := opts.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Agent{
		provider:    p,
		tools:       toolMap,
		definitions: definitions,
		maxRounds:   maxRounds,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		system:      system,
		logger:      logger,
		history:     make([]models.Message, 0),
	}
}

// RunTurn appends the user message and drives provider rounds until the
// model answers in text or the round budget runs out. Tool failures are fed
// back to the model as error results; only provider failures abort the turn.
func (a *Agent) RunTurn(ctx context.Context, userMessage string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, models.Message{Role: "user", Content: userMessage})

	for round := 0; round < a.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		turn, err := a.provider.Chat(ctx, &provider.ChatRequest{
			Messages:    a.history,
			Tools:       a.definitions,
			System:      a.system,
			Temperature: a.temperature,
			MaxTokens:   a.maxTokens,
		})
		if err != nil {
			return "", fmt.Errorf("provider error: %w", err)
		}

		switch turn.Kind {
		case provider.TurnFinalText:
			a.history = append(a.history, models.Message{Role: "assistant", Content: turn.Text})
			return turn.Text, nil

		case provider.TurnToolCalls:
			a.history = append(a.history, models.Message{Role: "assistant", ToolCalls: turn.Calls})
			a.history = append(a.history, models.Message{
				Role:        "tool",
				ToolResults: a.executeBatch(ctx, turn.Calls),
			})

		default:
			return "", fmt.Errorf("unknown turn kind %q", turn.Kind)
		}
	}

	// The budget stops runaway tool loops; it is not an error the caller
	// should have to handle.
	msg := fmt.Sprintf("Stopped after %d tool rounds without a final answer. "+
		"Ask me to continue if you want me to keep going.", a.maxRounds)
	a.history = append(a.history, models.Message{Role: "assistant", Content: msg})
	return msg, nil
}

// executeBatch runs a batch of tool calls sequentially, in call order. The
// first transport failure marks the editor unreachable and the remaining
// calls are skipped rather than fired at a dead socket.
func (a *Agent) executeBatch(ctx context.Context, calls []models.ToolCall) []models.ToolResult {
	results := make([]models.ToolResult, 0, len(calls))
	unreachable := false

	for _, call := range calls {
		if unreachable {
			results = append(results, models.ToolResult{
				ID:    call.ID,
				Name:  call.Name,
				Error: "skipped: editor unreachable after earlier transport failure",
			})
			continue
		}

		result, fatal := a.executeToolCall(ctx, call)
		if fatal {
			unreachable = true
		}
		results = append(results, result)
	}

	return results
}

// executeToolCall executes a single tool call. The second return value is
// true when the failure was a transport failure, meaning the editor itself
// is unreachable and the rest of the batch should be skipped.
func (a *Agent) executeToolCall(ctx context.Context, call models.ToolCall) (models.ToolResult, bool) {
	tool, exists := a.tools[call.Name]
	if !exists {
		return models.ToolResult{
			ID:    call.ID,
			Name:  call.Name,
			Error: fmt.Sprintf("unknown tool %q", call.Name),
		}, false
	}

	a.logger.Info("executing tool", "tool", call.Name)
	content, err := tool.Execute(ctx, call.Args)
	if err != nil {
		a.logger.Warn("tool failed", "tool", call.Name, "error", err)
		var transportErr *blender.TransportError
		if errors.As(err, &transportErr) {
			return models.ToolResult{
				ID:    call.ID,
				Name:  call.Name,
				Error: "editor unreachable: " + err.Error(),
			}, true
		}
		return models.ToolResult{ID: call.ID, Name: call.Name, Error: err.Error()}, false
	}

	return models.ToolResult{ID: call.ID, Name: call.Name, Content: content}, false
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []models.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Message, len(a.history))
	copy(out, a.history)
	return out
}
