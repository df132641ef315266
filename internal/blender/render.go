package blender

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// renderResult is the slice of a render_scene reply we care about.
type renderResult struct {
	ImageData string `json:"image_data"`
}

// SaveRender decodes the base64 image payload of a render_scene result and
// writes it to dir as render_<timestamp>.png. It returns the saved path, or
// "" with a nil error when the result carries no image data.
func SaveRender(result json.RawMessage, dir string) (string, error) {
	var r renderResult
	if err := json.Unmarshal(result, &r); err != nil {
		return "", fmt.Errorf("parse render result: %w", err)
	}
	if r.ImageData == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(r.ImageData)
	if err != nil {
		return "", fmt.Errorf("decode render image: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create render dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write render image: %w", err)
	}

	return path, nil
}
