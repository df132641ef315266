package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/saofund/blender-agent/internal/jobs"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// GetHyper3DStatusRequest has no parameters.
type GetHyper3DStatusRequest struct{}

// NewGetHyper3DStatus creates a get_hyper3d_status adapter
func NewGetHyper3DStatus(deps *Deps) Tool {
	return NewBaseAdapter(
		"get_hyper3d_status",
		"Checks whether the Hyper3D Rodin integration is enabled in the editor",
		&provider.ParameterSchema{
			Type:       "object",
			Properties: map[string]provider.PropertySchema{},
		},
		deps,
		func(ctx context.Context, d *Deps, _ GetHyper3DStatusRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "get_hyper3d_status", nil)
		},
	)
}

// Generate3DModelRequest drives Hunyuan3D generation inside the editor.
// When image_path is set the file is read locally and sent base64-encoded;
// text is ignored in that case, matching the editor's priority order.
type Generate3DModelRequest struct {
	Text              string  `mapstructure:"text"`
	ImagePath         string  `mapstructure:"image_path"`
	ObjectName        string  `mapstructure:"object_name"`
	OctreeResolution  int     `mapstructure:"octree_resolution"`
	NumInferenceSteps int     `mapstructure:"num_inference_steps"`
	GuidanceScale     float64 `mapstructure:"guidance_scale"`
	Texture           bool    `mapstructure:"texture"`
}

func (r Generate3DModelRequest) Validate() error {
	if r.Text == "" && r.ImagePath == "" {
		return fmt.Errorf("either text or image_path is required")
	}
	return nil
}

// NewGenerate3DModel creates a generate_3d_model adapter. The command runs a
// full inference pass inside the editor before replying, so the transport's
// long deadline applies.
func NewGenerate3DModel(deps *Deps) Tool {
	return NewBaseAdapter(
		"generate_3d_model",
		"Generates a 3D model with Hunyuan3D from a text prompt or reference image",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"text": {
					Type:        "string",
					Description: "Text prompt describing the model (ignored when image_path is set)",
				},
				"image_path": {
					Type:        "string",
					Description: "Path to a reference image for image-to-3D generation (optional)",
				},
				"object_name": {
					Type:        "string",
					Description: "Existing object to apply the generated texture to (optional)",
				},
				"octree_resolution": {
					Type:        "integer",
					Description: "Octree resolution (optional, defaults to 256)",
				},
				"num_inference_steps": {
					Type:        "integer",
					Description: "Inference step count (optional, defaults to 20)",
				},
				"guidance_scale": {
					Type:        "number",
					Description: "Guidance scale (optional, defaults to 5.5)",
				},
				"texture": {
					Type:        "boolean",
					Description: "Generate a texture as well (optional, defaults to false)",
				},
			},
		},
		deps,
		func(ctx context.Context, d *Deps, req Generate3DModelRequest) (json.RawMessage, error) {
			params := map[string]any{}

			if req.ImagePath != "" {
				data, err := os.ReadFile(req.ImagePath)
				if err != nil {
					return nil, fmt.Errorf("read reference image: %w", err)
				}
				params["image_data"] = base64.StdEncoding.EncodeToString(data)
			} else {
				params["text"] = req.Text
			}
			if req.ObjectName != "" {
				params["object_name"] = req.ObjectName
			}

			octree := req.OctreeResolution
			if octree == 0 {
				octree = 256
			}
			steps := req.NumInferenceSteps
			if steps == 0 {
				steps = 20
			}
			guidance := req.GuidanceScale
			if guidance == 0 {
				guidance = 5.5
			}
			params["octree_resolution"] = octree
			params["num_inference_steps"] = steps
			params["guidance_scale"] = guidance
			params["texture"] = req.Texture

			return d.Client.Send(ctx, "generate_3d_model", params)
		},
	)
}

// GenerateRodinModelRequest submits a Rodin generation job and waits for it.
type GenerateRodinModelRequest struct {
	TextPrompt    string    `mapstructure:"text_prompt"`
	Images        []string  `mapstructure:"images"`
	BBoxCondition []float64 `mapstructure:"bbox_condition"`
}

func (r GenerateRodinModelRequest) Validate() error {
	if r.TextPrompt == "" && len(r.Images) == 0 {
		return fmt.Errorf("either text_prompt or images is required")
	}
	return nil
}

// rodinJobResponse reports the outcome of a Rodin generation job.
type rodinJobResponse struct {
	JobID   string          `json:"job_id"`
	State   jobs.State      `json:"state"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewGenerateRodinModel creates a generate_rodin_model adapter. It submits
// the job against the configured Rodin backend and blocks until the job
// reaches a terminal state or the poll budget runs out.
func NewGenerateRodinModel(deps *Deps) Tool {
	return NewBaseAdapter(
		"generate_rodin_model",
		"Generates a 3D model with Hyper3D Rodin and waits for the job to finish",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"text_prompt": {
					Type:        "string",
					Description: "Text prompt describing the model (optional when images are given)",
				},
				"images": {
					Type:        "array",
					Description: "Reference image paths or URLs (optional)",
					Items:       &provider.PropertySchema{Type: "string"},
				},
				"bbox_condition": {
					Type:        "array",
					Description: "Bounding box condition as [width, height, depth] (optional)",
					Items:       &provider.PropertySchema{Type: "number"},
				},
			},
		},
		deps,
		func(ctx context.Context, d *Deps, req GenerateRodinModelRequest) (rodinJobResponse, error) {
			jobID, err := d.Poller.Submit(ctx, d.Rodin, jobs.Request{
				Prompt:        req.TextPrompt,
				Images:        req.Images,
				BBoxCondition: req.BBoxCondition,
			})
			if err != nil {
				return rodinJobResponse{}, err
			}

			interval := time.Duration(d.Config.Hyper3D.PollIntervalSeconds) * time.Second
			maxWait := time.Duration(d.Config.Hyper3D.MaxWaitSeconds) * time.Second

			result, err := d.Poller.AwaitTerminal(ctx, jobID, interval, maxWait)
			if err != nil {
				return rodinJobResponse{}, err
			}
			return rodinJobResponse{JobID: jobID, State: result.State, Payload: result.Payload}, nil
		},
	)
}

// PollRodinJobStatusRequest checks one submitted job.
type PollRodinJobStatusRequest struct {
	JobID string `mapstructure:"job_id"`
}

func (r PollRodinJobStatusRequest) Validate() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	return nil
}

// NewPollRodinJobStatus creates a poll_rodin_job_status adapter
func NewPollRodinJobStatus(deps *Deps) Tool {
	return NewBaseAdapter(
		"poll_rodin_job_status",
		"Returns the current state of a Rodin generation job",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"job_id": {
					Type:        "string",
					Description: "Job identifier returned by generate_rodin_model",
				},
			},
			Required: []string{"job_id"},
		},
		deps,
		func(ctx context.Context, d *Deps, req PollRodinJobStatusRequest) (rodinJobResponse, error) {
			state, err := d.Poller.Poll(ctx, req.JobID)
			if err != nil {
				return rodinJobResponse{}, err
			}
			return rodinJobResponse{JobID: req.JobID, State: state}, nil
		},
	)
}

// ImportGeneratedAssetRequest imports a finished Rodin job into the scene.
type ImportGeneratedAssetRequest struct {
	JobID string `mapstructure:"job_id"`
	Name  string `mapstructure:"name"`
}

func (r ImportGeneratedAssetRequest) Validate() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// NewImportGeneratedAsset creates an import_generated_asset adapter. The
// editor downloads the finished model itself; the command carries the
// backend identity so the addon can resolve the download.
func NewImportGeneratedAsset(deps *Deps) Tool {
	return NewBaseAdapter(
		"import_generated_asset",
		"Imports a finished Rodin generation into the scene under the given name",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"job_id": {
					Type:        "string",
					Description: "Job identifier returned by generate_rodin_model",
				},
				"name": {
					Type:        "string",
					Description: "Name for the imported object",
				},
			},
			Required: []string{"job_id", "name"},
		},
		deps,
		func(ctx context.Context, d *Deps, req ImportGeneratedAssetRequest) (json.RawMessage, error) {
			handle, err := d.Poller.Handle(req.JobID)
			if err != nil {
				return nil, err
			}
			params := map[string]any{
				"name":    req.Name,
				"mode":    handle.Mode,
				"task_id": handle.ID,
			}
			if handle.Key != "" {
				params["subscription_key"] = handle.Key
			}
			result, err := d.Client.Send(ctx, "import_generated_asset", params)
			if err != nil {
				return nil, err
			}
			d.Poller.Discard(req.JobID)
			return result, nil
		},
	)
}
