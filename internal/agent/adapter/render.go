package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saofund/blender-agent/internal/blender"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// RenderSceneRequest renders the current scene.
type RenderSceneRequest struct {
	OutputPath  string `mapstructure:"output_path"`
	ResolutionX int    `mapstructure:"resolution_x"`
	ResolutionY int    `mapstructure:"resolution_y"`
}

func (r RenderSceneRequest) Validate() error {
	if r.ResolutionX < 0 || r.ResolutionY < 0 {
		return fmt.Errorf("resolution must be positive")
	}
	return nil
}

// renderSceneResponse carries the editor result plus the local save path.
type renderSceneResponse struct {
	Result  json.RawMessage `json:"result"`
	SavedTo string          `json:"saved_to,omitempty"`
}

// NewRenderScene creates a render_scene adapter. Image data returned by the
// editor is decoded and written under the configured render directory; the
// model sees the saved path instead of megabytes of base64.
func NewRenderScene(deps *Deps) Tool {
	return NewBaseAdapter(
		"render_scene",
		"Renders the current scene and saves the image locally",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"output_path": {
					Type:        "string",
					Description: "Output file path inside the editor (optional)",
				},
				"resolution_x": {
					Type:        "integer",
					Description: "Render width in pixels (optional)",
				},
				"resolution_y": {
					Type:        "integer",
					Description: "Render height in pixels (optional)",
				},
			},
		},
		deps,
		func(ctx context.Context, d *Deps, req RenderSceneRequest) (renderSceneResponse, error) {
			params := map[string]any{"return_image": true}
			if req.OutputPath != "" {
				params["output_path"] = req.OutputPath
			}
			if req.ResolutionX > 0 {
				params["resolution_x"] = req.ResolutionX
			}
			if req.ResolutionY > 0 {
				params["resolution_y"] = req.ResolutionY
			}

			result, err := d.Client.Send(ctx, "render_scene", params)
			if err != nil {
				return renderSceneResponse{}, err
			}

			resp := renderSceneResponse{Result: stripImageData(result)}
			path, err := blender.SaveRender(result, d.Config.Blender.RenderDir)
			if err != nil {
				d.Logger.Warn("render save failed", "error", err)
			} else if path != "" {
				resp.SavedTo = path
				d.Logger.Info("render saved", "path", path)
			}
			return resp, nil
		},
	)
}

// stripImageData removes the base64 payload from a render result so it never
// lands in the conversation.
func stripImageData(result json.RawMessage) json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(result, &m); err != nil {
		return result
	}
	if _, ok := m["image_data"]; !ok {
		return result
	}
	delete(m, "image_data")
	stripped, err := json.Marshal(m)
	if err != nil {
		return result
	}
	return stripped
}
