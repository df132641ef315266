// Package adapter exposes the editor and job operations as tools the model
// can call. Each tool decodes its arguments into a typed request, validates
// it and runs against the shared dependencies.
package adapter

import (
	"context"
	"log/slog"

	"github.com/saofund/blender-agent/internal/blender"
	"github.com/saofund/blender-agent/internal/config"
	"github.com/saofund/blender-agent/internal/jobs"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// Tool represents a capability the agent can use.
// Each tool must be stateless and safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns a human-readable description
	Description() string

	// Definition returns the structured tool definition for the provider
	Definition() provider.ToolDefinition

	// Execute runs the tool with the given arguments
	// Args is a map of argument names to values, as provided by the LLM
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Deps carries the shared dependencies every tool executor runs against.
type Deps struct {
	Client *blender.Client
	Poller *jobs.Poller
	Rodin  jobs.Provider
	Config *config.Config
	Logger *slog.Logger
}
