package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// objectTypes are the primitive types the editor can create.
var objectTypes = []string{"CUBE", "SPHERE", "CYLINDER", "PLANE", "CONE", "TORUS", "EMPTY", "CAMERA", "LIGHT"}

func validObjectType(t string) bool {
	for _, known := range objectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// validVec3 accepts a nil (absent) or 3-element vector.
func validVec3(v []float64) bool {
	return v == nil || len(v) == 3
}

// GetSceneInfoRequest has no parameters.
type GetSceneInfoRequest struct{}

// NewGetSceneInfo creates a get_scene_info adapter
func NewGetSceneInfo(deps *Deps) Tool {
	return NewBaseAdapter(
		"get_scene_info",
		"Returns current scene information: scene name, object count and the object list",
		&provider.ParameterSchema{
			Type:       "object",
			Properties: map[string]provider.PropertySchema{},
		},
		deps,
		func(ctx context.Context, d *Deps, _ GetSceneInfoRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "get_scene_info", nil)
		},
	)
}

// CreateObjectRequest creates a new primitive in the scene.
type CreateObjectRequest struct {
	Type     string    `mapstructure:"type"`
	Name     string    `mapstructure:"name"`
	Location []float64 `mapstructure:"location"`
	Rotation []float64 `mapstructure:"rotation"`
	Scale    []float64 `mapstructure:"scale"`
}

func (r CreateObjectRequest) Validate() error {
	if !validObjectType(r.Type) {
		return fmt.Errorf("unknown object type %q", r.Type)
	}
	if !validVec3(r.Location) || !validVec3(r.Rotation) || !validVec3(r.Scale) {
		return fmt.Errorf("location, rotation and scale must each have 3 elements")
	}
	return nil
}

// NewCreateObject creates a create_object adapter
func NewCreateObject(deps *Deps) Tool {
	return NewBaseAdapter(
		"create_object",
		"Creates a new object of the given type in the scene",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"type": {
					Type:        "string",
					Description: "Object type to create",
					Enum:        objectTypes,
				},
				"name": {
					Type:        "string",
					Description: "Object name (optional)",
				},
				"location": {
					Type:        "array",
					Description: "Position [x, y, z] (optional, defaults to [0, 0, 0])",
					Items:       &provider.PropertySchema{Type: "number"},
				},
				"rotation": {
					Type:        "array",
					Description: "Rotation [x, y, z] (optional, defaults to [0, 0, 0])",
					Items:       &provider.PropertySchema{Type: "number"},
				},
				"scale": {
					Type:        "array",
					Description: "Scale [x, y, z] (optional, defaults to [1, 1, 1])",
					Items:       &provider.PropertySchema{Type: "number"},
				},
			},
			Required: []string{"type"},
		},
		deps,
		func(ctx context.Context, d *Deps, req CreateObjectRequest) (json.RawMessage, error) {
			params := map[string]any{"type": req.Type}
			if req.Name != "" {
				params["name"] = req.Name
			}
			if req.Location != nil {
				params["location"] = req.Location
			}
			if req.Rotation != nil {
				params["rotation"] = req.Rotation
			}
			if req.Scale != nil {
				params["scale"] = req.Scale
			}
			return d.Client.Send(ctx, "create_object", params)
		},
	)
}

// ModifyObjectRequest updates transform or visibility of an existing object.
type ModifyObjectRequest struct {
	Name     string    `mapstructure:"name"`
	Location []float64 `mapstructure:"location"`
	Rotation []float64 `mapstructure:"rotation"`
	Scale    []float64 `mapstructure:"scale"`
	Visible  *bool     `mapstructure:"visible"`
}

func (r ModifyObjectRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validVec3(r.Location) || !validVec3(r.Rotation) || !validVec3(r.Scale) {
		return fmt.Errorf("location, rotation and scale must each have 3 elements")
	}
	return nil
}

// NewModifyObject creates a modify_object adapter
func NewModifyObject(deps *Deps) Tool {
	return NewBaseAdapter(
		"modify_object",
		"Modifies properties of an existing object in the scene",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"name": {
					Type:        "string",
					Description: "Name of the object to modify",
				},
				"location": {
					Type:        "array",
					Description: "New position [x, y, z] (optional)",
					Items:       &provider.PropertySchema{Type: "number"},
				},
				"rotation": {
					Type:        "array",
					Description: "New rotation [x, y, z] (optional)",
					Items:       &provider.PropertySchema{Type: "number"},
				},
				"scale": {
					Type:        "array",
					Description: "New scale [x, y, z] (optional)",
					Items:       &provider.PropertySchema{Type: "number"},
				},
				"visible": {
					Type:        "boolean",
					Description: "Visibility (optional)",
				},
			},
			Required: []string{"name"},
		},
		deps,
		func(ctx context.Context, d *Deps, req ModifyObjectRequest) (json.RawMessage, error) {
			params := map[string]any{"name": req.Name}
			if req.Location != nil {
				params["location"] = req.Location
			}
			if req.Rotation != nil {
				params["rotation"] = req.Rotation
			}
			if req.Scale != nil {
				params["scale"] = req.Scale
			}
			if req.Visible != nil {
				params["visible"] = *req.Visible
			}
			return d.Client.Send(ctx, "modify_object", params)
		},
	)
}

// DeleteObjectRequest removes an object from the scene.
type DeleteObjectRequest struct {
	Name string `mapstructure:"name"`
}

func (r DeleteObjectRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// NewDeleteObject creates a delete_object adapter
func NewDeleteObject(deps *Deps) Tool {
	return NewBaseAdapter(
		"delete_object",
		"Deletes the named object from the scene",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"name": {
					Type:        "string",
					Description: "Name of the object to delete",
				},
			},
			Required: []string{"name"},
		},
		deps,
		func(ctx context.Context, d *Deps, req DeleteObjectRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "delete_object", map[string]any{"name": req.Name})
		},
	)
}

// GetObjectInfoRequest fetches details for one object.
type GetObjectInfoRequest struct {
	Name string `mapstructure:"name"`
}

func (r GetObjectInfoRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// NewGetObjectInfo creates a get_object_info adapter
func NewGetObjectInfo(deps *Deps) Tool {
	return NewBaseAdapter(
		"get_object_info",
		"Returns details for the named object: transform, materials and mesh stats",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"name": {
					Type:        "string",
					Description: "Object name",
				},
			},
			Required: []string{"name"},
		},
		deps,
		func(ctx context.Context, d *Deps, req GetObjectInfoRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "get_object_info", map[string]any{"name": req.Name})
		},
	)
}
