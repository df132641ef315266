// Package anthropic adapts the Anthropic Messages API to the uniform
// provider interface.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	provider "github.com/saofund/blender-agent/internal/provider/models"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 4096

	maxResponseBody = 10 * 1024 * 1024
)

// Provider implements provider.Provider for Claude models.
type Provider struct {
	name    string
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ provider.Provider = (*Provider)(nil)

// Config carries the per-provider settings from the configuration file.
type Config struct {
	Name    string
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// New creates a Claude provider.
func New(cfg Config, logger *slog.Logger) *Provider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	name := cfg.Name
	if name == "" {
		name = "claude"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Provider{
		name:    name,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return p.name }

// Chat implements provider.Provider.
func (p *Provider) Chat(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
	body, err := json.Marshal(toMessageRequest(p.model, req))
	if err != nil {
		return nil, provider.NewProviderError(p.name, provider.ErrorCodeInvalidRequest, "marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, provider.NewProviderError(p.name, provider.ErrorCodeInvalidRequest, "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, provider.NewProviderError(p.name, provider.ErrorCodeNetwork, "http request", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, provider.NewProviderError(p.name, provider.ErrorCodeNetwork, "read response", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, mapHTTPError(p.name, httpResp.StatusCode, respBody)
	}

	var resp messageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, provider.NewProviderError(p.name, provider.ErrorCodeMalformed, "unmarshal response", err)
	}

	turn := fromMessageResponse(resp)
	p.logger.Debug("chat completed",
		"provider", p.name,
		"model", resp.Model,
		"kind", turn.Kind,
		"tool_calls", len(turn.Calls),
	)
	return turn, nil
}

// mapHTTPError maps an HTTP failure to the provider error taxonomy.
func mapHTTPError(name string, statusCode int, body []byte) *provider.ProviderError {
	detail := fmt.Sprintf("API error %d: %s", statusCode, body)
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return provider.NewProviderError(name, provider.ErrorCodeAuth, detail, provider.ErrAuthentication)
	case statusCode == http.StatusTooManyRequests:
		return provider.NewProviderError(name, provider.ErrorCodeRateLimit, detail, provider.ErrRateLimit)
	case statusCode == http.StatusPaymentRequired:
		return provider.NewProviderError(name, provider.ErrorCodeQuota, detail, provider.ErrQuotaExceeded)
	case statusCode >= 500:
		return provider.NewProviderError(name, provider.ErrorCodeNetwork, detail, provider.ErrNetwork)
	default:
		return provider.NewProviderError(name, provider.ErrorCodeInvalidRequest, detail, nil)
	}
}
