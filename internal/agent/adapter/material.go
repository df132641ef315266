package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// SetMaterialRequest creates or applies a material on an object.
type SetMaterialRequest struct {
	ObjectName    string    `mapstructure:"object_name"`
	MaterialName  string    `mapstructure:"material_name"`
	CreateMissing *bool     `mapstructure:"create_if_missing"`
	Color         []float64 `mapstructure:"color"`
}

func (r SetMaterialRequest) Validate() error {
	if r.ObjectName == "" {
		return fmt.Errorf("object_name is required")
	}
	if r.Color != nil && len(r.Color) != 3 && len(r.Color) != 4 {
		return fmt.Errorf("color must have 3 (RGB) or 4 (RGBA) elements")
	}
	return nil
}

// NewSetMaterial creates a set_material adapter
func NewSetMaterial(deps *Deps) Tool {
	return NewBaseAdapter(
		"set_material",
		"Creates or applies a material on the named object",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"object_name": {
					Type:        "string",
					Description: "Name of the object to apply the material to",
				},
				"material_name": {
					Type:        "string",
					Description: "Material name (optional, a default name is generated when omitted)",
				},
				"create_if_missing": {
					Type:        "boolean",
					Description: "Create the material when it does not exist (optional, defaults to true)",
				},
				"color": {
					Type:        "array",
					Description: "RGBA color [r, g, b, a] (optional)",
					Items:       &provider.PropertySchema{Type: "number"},
				},
			},
			Required: []string{"object_name"},
		},
		deps,
		func(ctx context.Context, d *Deps, req SetMaterialRequest) (json.RawMessage, error) {
			params := map[string]any{"object_name": req.ObjectName}
			if req.MaterialName != "" {
				params["material_name"] = req.MaterialName
			}
			if req.CreateMissing != nil {
				params["create_if_missing"] = *req.CreateMissing
			}
			if req.Color != nil {
				params["color"] = req.Color
			}
			return d.Client.Send(ctx, "set_material", params)
		},
	)
}
