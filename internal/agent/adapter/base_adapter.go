package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// Validator is an interface for request types that support validation
type Validator interface {
	Validate() error
}

// ToolExecutor is a function that executes a tool with typed request/response.
type ToolExecutor[Req, Resp any] func(context.Context, *Deps, Req) (Resp, error)

// BaseAdapter provides common adapter functionality using generics.
// This eliminates duplication across all tool adapters by centralizing:
// - Argument decoding (mapstructure)
// - Tool execution
// - Response marshaling
// - Error handling
type BaseAdapter[Req, Resp any] struct {
	name        string
	description string
	definition  provider.ToolDefinition
	deps        *Deps
	executor    ToolExecutor[Req, Resp]
}

// NewBaseAdapter creates a new base adapter with the given configuration.
func NewBaseAdapter[Req, Resp any](
	name string,
	description string,
	paramSchema *provider.ParameterSchema,
	deps *Deps,
	executor ToolExecutor[Req, Resp],
) *BaseAdapter[Req, Resp] {
	return &BaseAdapter[Req, Resp]{
		name:        name,
		description: description,
		definition: provider.ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  paramSchema,
		},
		deps:     deps,
		executor: executor,
	}
}

// Name implements Tool
func (b *BaseAdapter[Req, Resp]) Name() string {
	return b.name
}

// Description implements Tool
func (b *BaseAdapter[Req, Resp]) Description() string {
	return b.description
}

// Definition implements Tool
func (b *BaseAdapter[Req, Resp]) Definition() provider.ToolDefinition {
	return b.definition
}

// Execute implements Tool
//
// This method:
// 1. Decodes the args map into a typed request using mapstructure
// 2. Validates the request if it implements Validator interface
// 3. Calls the tool executor function with the typed request
// 4. Marshals the response back to JSON
func (b *BaseAdapter[Req, Resp]) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req Req

	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return "", fmt.Errorf("%s validation failed: %w", b.name, err)
		}
	}

	resp, err := b.executor(ctx, b.deps, req)
	if err != nil {
		return "", err
	}

	bytes, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(bytes), nil
}
