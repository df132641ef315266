// Package provider constructs chat providers from configuration.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/saofund/blender-agent/internal/config"
	"github.com/saofund/blender-agent/internal/provider/anthropic"
	"github.com/saofund/blender-agent/internal/provider/gemini"
	"github.com/saofund/blender-agent/internal/provider/models"
	"github.com/saofund/blender-agent/internal/provider/openai"
)

// Base URLs for the OpenAI-compatible backends that ship without one in
// their provider config.
var compatibleBaseURLs = map[string]string{
	"deepseek": "https://api.deepseek.com/v1",
	"zhipu":    "https://open.bigmodel.cn/api/paas/v4",
	"moonshot": "https://api.moonshot.cn/v1",
	"doubao":   "https://ark.cn-beijing.volces.com/api/v3",
	"aimlapi":  "https://api.aimlapi.com/v1",
	"openai":   "", // adapter default
}

// New builds the provider selected by name from the configuration. Empty
// name falls back to the configured default. Every provider is wrapped in
// a circuit breaker.
func New(ctx context.Context, cfg *config.Config, name string, logger *slog.Logger) (models.Provider, error) {
	name, pc := cfg.ActiveProvider(name)
	if pc.APIKey == "" {
		return nil, fmt.Errorf("provider %q: no api_key configured", name)
	}
	if pc.Model == "" {
		return nil, fmt.Errorf("provider %q: no model configured", name)
	}

	inner, err := build(ctx, name, pc, logger)
	if err != nil {
		return nil, err
	}
	return NewBreaker(inner, BreakerConfig{}, logger), nil
}

func build(ctx context.Context, name string, pc config.ProviderConfig, logger *slog.Logger) (models.Provider, error) {
	switch name {
	case "claude", "anthropic":
		return anthropic.New(anthropic.Config{
			Name:    name,
			Model:   pc.Model,
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
		}, logger), nil

	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  pc.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}
		return gemini.New(name, pc.Model, gemini.NewRealClient(client), logger), nil

	default:
		baseURL := pc.BaseURL
		if baseURL == "" {
			known, ok := compatibleBaseURLs[name]
			if !ok {
				return nil, fmt.Errorf("provider %q: unknown provider requires a base_url", name)
			}
			baseURL = known
		}
		return openai.New(openai.Config{
			Name:    name,
			Model:   pc.Model,
			APIKey:  pc.APIKey,
			BaseURL: baseURL,
		}, logger), nil
	}
}
