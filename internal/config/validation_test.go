package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Blender(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"Empty Host Fails", func(c *Config) { c.Blender.Host = "" }, "blender.host"},
		{"Zero Port Fails", func(c *Config) { c.Blender.Port = 0 }, "blender.port"},
		{"Huge Port Fails", func(c *Config) { c.Blender.Port = 70000 }, "blender.port"},
		{"Zero Timeout Fails", func(c *Config) { c.Blender.TimeoutSeconds = 0 }, "blender.timeout_seconds"},
		{"Zero Generate Timeout Fails", func(c *Config) { c.Blender.GenerateTimeoutSeconds = 0 }, "blender.generate_timeout_seconds"},
		{"Empty Render Dir Fails", func(c *Config) { c.Blender.RenderDir = "" }, "blender.render_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_Hyper3D(t *testing.T) {
	t.Run("Unknown Mode Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hyper3D.Mode = "LOCAL"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "hyper3d.mode")
	})

	t.Run("Empty Mode Passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hyper3D.Mode = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Wait Below Interval Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hyper3D.PollIntervalSeconds = 10
		cfg.Hyper3D.MaxWaitSeconds = 5
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_wait_seconds")
	})
}

func TestValidate_Agent(t *testing.T) {
	t.Run("Zero MaxRounds Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Agent.MaxRounds = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_rounds")
	})

	t.Run("Temperature Above Two Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Agent.Temperature = 2.5
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
	})

	t.Run("Zero Temperature Passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Agent.Temperature = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestValidate_Log(t *testing.T) {
	t.Run("Unknown Level Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Level = "verbose"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("Unknown Format Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Format = "yaml"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log.format")
	})
}

func TestValidate_MultipleErrors_ReportsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agent.MaxRounds = 0
	cfg.Blender.Port = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	assert.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "max_rounds")
	assert.Contains(t, msg, "blender.port")
	assert.Contains(t, msg, "log.level")
}

func TestActiveProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "claude"
	cfg.LLM.Providers = map[string]ProviderConfig{
		"claude":   {APIKey: "sk-a", Model: "claude-sonnet-4-20250514"},
		"deepseek": {APIKey: "sk-d", Model: "deepseek-chat"},
	}

	t.Run("Default Selection", func(t *testing.T) {
		name, pc := cfg.ActiveProvider("")
		assert.Equal(t, "claude", name)
		assert.Equal(t, "sk-a", pc.APIKey)
	})

	t.Run("Explicit Selection", func(t *testing.T) {
		name, pc := cfg.ActiveProvider("deepseek")
		assert.Equal(t, "deepseek", name)
		assert.Equal(t, "sk-d", pc.APIKey)
	})

	t.Run("Unconfigured Name Returns Zero Value", func(t *testing.T) {
		name, pc := cfg.ActiveProvider("moonshot")
		assert.Equal(t, "moonshot", name)
		assert.Empty(t, pc.APIKey)
	})
}
