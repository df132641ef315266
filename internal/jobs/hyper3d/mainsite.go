package hyper3d

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/saofund/blender-agent/internal/jobs"
)

// MainSiteProvider talks to the hyperhuman.deemos.com deployment. Submission
// returns a task uuid plus a subscription key; status is polled with the
// subscription key and the result is downloaded with the task uuid.
type MainSiteProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ jobs.Provider = (*MainSiteProvider)(nil)

func (p *MainSiteProvider) Name() string { return "hyper3d-main-site" }

type mainSiteSubmitRequest struct {
	Prompt        string    `json:"prompt,omitempty"`
	Images        []string  `json:"images,omitempty"`
	BBoxCondition []float64 `json:"bbox_condition,omitempty"`
	Tier          string    `json:"tier"`
}

type mainSiteSubmitResponse struct {
	UUID string `json:"uuid"`
	Jobs struct {
		UUIDs           []string `json:"uuids"`
		SubscriptionKey string   `json:"subscription_key"`
	} `json:"jobs"`
	Error string `json:"error"`
}

// Submit starts a Rodin generation task.
func (p *MainSiteProvider) Submit(ctx context.Context, req jobs.Request) (jobs.Handle, error) {
	body := mainSiteSubmitRequest{
		Prompt:        req.Prompt,
		Images:        req.Images,
		BBoxCondition: req.BBoxCondition,
		Tier:          "Sketch",
	}

	respBody, err := doJSON(ctx, p.client, http.MethodPost, p.baseURL+"/api/v2/rodin", p.headers(), body)
	if err != nil {
		return jobs.Handle{}, fmt.Errorf("hyper3d submit: %w", err)
	}

	var resp mainSiteSubmitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return jobs.Handle{}, fmt.Errorf("hyper3d submit: parse response: %w", err)
	}
	if resp.Error != "" {
		return jobs.Handle{}, fmt.Errorf("hyper3d submit rejected: %s", resp.Error)
	}
	if resp.UUID == "" || resp.Jobs.SubscriptionKey == "" {
		return jobs.Handle{}, fmt.Errorf("hyper3d submit: response missing task identity")
	}

	return jobs.Handle{
		Mode: ModeMainSite,
		ID:   resp.UUID,
		Key:  resp.Jobs.SubscriptionKey,
	}, nil
}

type mainSiteStatusResponse struct {
	Jobs []struct {
		UUID   string `json:"uuid"`
		Status string `json:"status"`
	} `json:"jobs"`
}

// CheckStatus polls the subscription key. A generation fans out into several
// sub-jobs; the task is done only when every sub-job is done and failed as
// soon as any sub-job failed.
func (p *MainSiteProvider) CheckStatus(ctx context.Context, h jobs.Handle) (jobs.State, string, error) {
	body := map[string]string{"subscription_key": h.Key}
	respBody, err := doJSON(ctx, p.client, http.MethodPost, p.baseURL+"/api/v2/status", p.headers(), body)
	if err != nil {
		return "", "", fmt.Errorf("hyper3d status: %w", err)
	}

	var resp mainSiteStatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", "", fmt.Errorf("hyper3d status: parse response: %w", err)
	}
	if len(resp.Jobs) == 0 {
		return jobs.StateSubmitted, "", nil
	}

	allDone := true
	for _, j := range resp.Jobs {
		switch j.Status {
		case "Failed":
			return jobs.StateFailed, fmt.Sprintf("sub-job %s failed", j.UUID), nil
		case "Done":
			// keep scanning
		default: // Waiting, Generating
			allDone = false
		}
	}
	if allDone {
		return jobs.StateSucceeded, "", nil
	}
	return jobs.StatePending, "", nil
}

type mainSiteDownloadResponse struct {
	List []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"list"`
}

// FetchResult resolves the download list for a finished task.
func (p *MainSiteProvider) FetchResult(ctx context.Context, h jobs.Handle) (json.RawMessage, error) {
	body := map[string]string{"task_uuid": h.ID}
	respBody, err := doJSON(ctx, p.client, http.MethodPost, p.baseURL+"/api/v2/download", p.headers(), body)
	if err != nil {
		return nil, fmt.Errorf("hyper3d download: %w", err)
	}

	var resp mainSiteDownloadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("hyper3d download: parse response: %w", err)
	}
	if len(resp.List) == 0 {
		return nil, fmt.Errorf("hyper3d download: task %s produced no files", h.ID)
	}
	return respBody, nil
}

// Cancel is not offered by the main-site API.
func (p *MainSiteProvider) Cancel(ctx context.Context, h jobs.Handle) error {
	return fmt.Errorf("hyper3d main site does not support cancellation")
}

func (p *MainSiteProvider) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.apiKey}
}
