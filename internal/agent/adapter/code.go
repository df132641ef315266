package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// maxCodeSize caps the execute_code payload.
const maxCodeSize = 64 * 1024

// ExecuteCodeRequest runs arbitrary Python inside the editor.
type ExecuteCodeRequest struct {
	Code string `mapstructure:"code"`
}

func (r ExecuteCodeRequest) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("code is required")
	}
	if len(r.Code) > maxCodeSize {
		return fmt.Errorf("code exceeds %d byte limit", maxCodeSize)
	}
	return nil
}

// NewExecuteCode creates an execute_code adapter. Callers only register it
// when blender.allow_code_execution is set; an unadvertised tool is never
// attempted by the model.
func NewExecuteCode(deps *Deps) Tool {
	return NewBaseAdapter(
		"execute_code",
		"Executes arbitrary Python code inside the editor environment",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"code": {
					Type:        "string",
					Description: "Python code to execute",
				},
			},
			Required: []string{"code"},
		},
		deps,
		func(ctx context.Context, d *Deps, req ExecuteCodeRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "execute_code", map[string]any{"code": req.Code})
		},
	)
}
