// Package gemini adapts the Google Gemini SDK to the uniform provider
// interface.
package gemini

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// Provider implements provider.Provider for Gemini models.
type Provider struct {
	name   string
	model  string
	client Client
	logger *slog.Logger
}

var _ provider.Provider = (*Provider)(nil)

// New creates a Gemini provider over the given client.
func New(name, model string, client Client, logger *slog.Logger) *Provider {
	if name == "" {
		name = "gemini"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		name:   name,
		model:  model,
		client: client,
		logger: logger,
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return p.name }

// Chat implements provider.Provider.
func (p *Provider) Chat(ctx context.Context, req *provider.ChatRequest) (*provider.AssistantTurn, error) {
	contents := toGeminiContents(req.Messages)
	config := toGeminiConfig(req)

	resp, err := p.client.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, p.mapError(err)
	}

	turn, err := fromGeminiResponse(p.name, resp)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("chat completed",
		"provider", p.name,
		"model", p.model,
		"kind", turn.Kind,
		"tool_calls", len(turn.Calls),
	)
	return turn, nil
}

// mapError translates SDK failures into the provider error taxonomy.
func (p *Provider) mapError(err error) *provider.ProviderError {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return provider.NewProviderError(p.name, provider.ErrorCodeAuth, apiErr.Message, provider.ErrAuthentication)
		case http.StatusTooManyRequests:
			return provider.NewProviderError(p.name, provider.ErrorCodeRateLimit, apiErr.Message, provider.ErrRateLimit)
		case http.StatusBadRequest:
			return provider.NewProviderError(p.name, provider.ErrorCodeInvalidRequest, apiErr.Message, nil)
		default:
			if apiErr.Code >= 500 {
				return provider.NewProviderError(p.name, provider.ErrorCodeNetwork, apiErr.Message, provider.ErrNetwork)
			}
			return provider.NewProviderError(p.name, provider.ErrorCodeInvalidRequest, apiErr.Message, nil)
		}
	}
	return provider.NewProviderError(p.name, provider.ErrorCodeNetwork, "gemini request failed", err)
}
