package hyper3d

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/saofund/blender-agent/internal/jobs"
)

// FalProvider talks to the fal.ai queue deployment. A single request id is
// both the polling identity and the result key; there is no subscription key.
type FalProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ jobs.Provider = (*FalProvider)(nil)

func (p *FalProvider) Name() string { return "hyper3d-fal" }

type falSubmitRequest struct {
	Prompt         string    `json:"prompt,omitempty"`
	InputImageURLs []string  `json:"input_image_urls,omitempty"`
	BBoxCondition  []float64 `json:"bbox_condition,omitempty"`
}

type falSubmitResponse struct {
	RequestID string `json:"request_id"`
}

// Submit enqueues a generation request.
func (p *FalProvider) Submit(ctx context.Context, req jobs.Request) (jobs.Handle, error) {
	body := falSubmitRequest{
		Prompt:         req.Prompt,
		InputImageURLs: req.Images,
		BBoxCondition:  req.BBoxCondition,
	}

	respBody, err := doJSON(ctx, p.client, http.MethodPost, p.baseURL+"/rodin", p.headers(), body)
	if err != nil {
		return jobs.Handle{}, fmt.Errorf("fal submit: %w", err)
	}

	var resp falSubmitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return jobs.Handle{}, fmt.Errorf("fal submit: parse response: %w", err)
	}
	if resp.RequestID == "" {
		return jobs.Handle{}, fmt.Errorf("fal submit: response missing request_id")
	}

	return jobs.Handle{Mode: ModeFal, ID: resp.RequestID}, nil
}

type falStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// CheckStatus polls the queue entry for the request id.
func (p *FalProvider) CheckStatus(ctx context.Context, h jobs.Handle) (jobs.State, string, error) {
	url := fmt.Sprintf("%s/requests/%s/status", p.baseURL, h.ID)
	respBody, err := doJSON(ctx, p.client, http.MethodGet, url, p.headers(), nil)
	if err != nil {
		return "", "", fmt.Errorf("fal status: %w", err)
	}

	var resp falStatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", "", fmt.Errorf("fal status: parse response: %w", err)
	}

	switch resp.Status {
	case "IN_QUEUE":
		return jobs.StateSubmitted, "", nil
	case "IN_PROGRESS":
		return jobs.StatePending, "", nil
	case "COMPLETED":
		return jobs.StateSucceeded, "", nil
	case "FAILED", "ERROR":
		return jobs.StateFailed, resp.Error, nil
	case "CANCELLED":
		return jobs.StateCancelled, "", nil
	default:
		return "", "", fmt.Errorf("fal status: unknown status %q", resp.Status)
	}
}

// FetchResult retrieves the completed request payload.
func (p *FalProvider) FetchResult(ctx context.Context, h jobs.Handle) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/requests/%s", p.baseURL, h.ID)
	respBody, err := doJSON(ctx, p.client, http.MethodGet, url, p.headers(), nil)
	if err != nil {
		return nil, fmt.Errorf("fal result: %w", err)
	}
	return respBody, nil
}

// Cancel asks the queue to drop the request. Requests already in progress
// may complete anyway.
func (p *FalProvider) Cancel(ctx context.Context, h jobs.Handle) error {
	url := fmt.Sprintf("%s/requests/%s/cancel", p.baseURL, h.ID)
	if _, err := doJSON(ctx, p.client, http.MethodPut, url, p.headers(), nil); err != nil {
		return fmt.Errorf("fal cancel: %w", err)
	}
	return nil
}

func (p *FalProvider) headers() map[string]string {
	return map[string]string{"Authorization": "Key " + p.apiKey}
}
