package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Blender validation
	if c.Blender.Host == "" {
		errs = append(errs, "blender.host must not be empty")
	}
	if c.Blender.Port < 1 || c.Blender.Port > 65535 {
		errs = append(errs, "blender.port must be between 1 and 65535")
	}
	if c.Blender.TimeoutSeconds < 1 {
		errs = append(errs, "blender.timeout_seconds must be >= 1")
	}
	if c.Blender.GenerateTimeoutSeconds < 1 {
		errs = append(errs, "blender.generate_timeout_seconds must be >= 1")
	}
	if c.Blender.RenderDir == "" {
		errs = append(errs, "blender.render_dir must not be empty")
	}

	// Hyper3D validation
	switch c.Hyper3D.Mode {
	case "", "MAIN_SITE", "FAL_AI":
	default:
		errs = append(errs, "hyper3d.mode must be MAIN_SITE or FAL_AI")
	}
	if c.Hyper3D.PollIntervalSeconds < 1 {
		errs = append(errs, "hyper3d.poll_interval_seconds must be >= 1")
	}
	if c.Hyper3D.MaxWaitSeconds < 1 {
		errs = append(errs, "hyper3d.max_wait_seconds must be >= 1")
	}
	if c.Hyper3D.MaxWaitSeconds < c.Hyper3D.PollIntervalSeconds {
		errs = append(errs, "hyper3d.max_wait_seconds must be >= hyper3d.poll_interval_seconds")
	}

	// Agent validation
	if c.Agent.MaxRounds < 1 {
		errs = append(errs, "agent.max_rounds must be >= 1")
	}
	if c.Agent.Temperature < 0 || c.Agent.Temperature > 2 {
		errs = append(errs, "agent.temperature must be between 0 and 2")
	}

	// LLM validation
	if c.LLM.Provider == "" {
		errs = append(errs, "llm.provider must not be empty")
	}
	for name, p := range c.LLM.Providers {
		if p.MaxTokens < 0 {
			errs = append(errs, fmt.Sprintf("llm.providers.%s.max_tokens must be >= 0", name))
		}
	}

	// Log validation
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, "log.format must be text or json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
