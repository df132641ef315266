// Package hyper3d implements the jobs.Provider capability set for the two
// Hyper3D Rodin deployments. The main site identifies work by a task uuid
// and polls with a per-job subscription key; the fal.ai fast-inference
// deployment identifies and polls by a single request id. Both are consumed
// as opaque HTTP JSON endpoints: submit, poll status, fetch result.
package hyper3d

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saofund/blender-agent/internal/jobs"
)

const (
	// ModeMainSite keys polling by subscription key.
	ModeMainSite = "MAIN_SITE"
	// ModeFal keys polling by request id.
	ModeFal = "FAL_AI"

	defaultMainSiteBaseURL = "https://hyperhuman.deemos.com"
	defaultFalBaseURL      = "https://queue.fal.run/fal-ai/hyper3d"

	maxResponseBody = 4 * 1024 * 1024
)

// Config selects the deployment and carries its credentials.
type Config struct {
	Mode    string // ModeMainSite or ModeFal
	APIKey  string
	BaseURL string // override for tests; empty selects the mode default
	Timeout time.Duration
}

// NewProvider builds the provider for the configured mode.
func NewProvider(cfg Config) (jobs.Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 30 * time.Second
	}

	switch cfg.Mode {
	case ModeMainSite, "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultMainSiteBaseURL
		}
		return &MainSiteProvider{apiKey: cfg.APIKey, baseURL: baseURL, client: client}, nil
	case ModeFal:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultFalBaseURL
		}
		return &FalProvider{apiKey: cfg.APIKey, baseURL: baseURL, client: client}, nil
	default:
		return nil, fmt.Errorf("unknown hyper3d mode %q", cfg.Mode)
	}
}

// doJSON performs one JSON request and returns the decoded body, mapping
// non-2xx statuses to errors.
func doJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("API error %d: %s", httpResp.StatusCode, respBody)
	}
	return respBody, nil
}
