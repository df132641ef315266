package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlagOverrides(t *testing.T) {
	cfg, err := loadConfig(options{
		host:        "10.0.0.5",
		port:        19876,
		temperature: 0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Blender.Host)
	assert.Equal(t, 19876, cfg.Blender.Port)
	assert.InDelta(t, 0.9, cfg.Agent.Temperature, 1e-9)
}

func TestLoadConfigNegativeTemperatureMeansUnset(t *testing.T) {
	cfg, err := loadConfig(options{temperature: -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.Agent.Temperature, 1e-9)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"agent": {"max_rounds": 2}}`), 0o644))

	cfg, err := loadConfig(options{configPath: path, temperature: -1})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Agent.MaxRounds)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(options{configPath: "/nonexistent/config.json", temperature: -1})
	assert.Error(t, err)
}

func TestBlenderConfigCarriesTimeouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"blender": {"timeout_seconds": 25, "generate_timeout_seconds": 120}}`), 0o644))

	cfg, err := loadConfig(options{configPath: path, temperature: -1})
	require.NoError(t, err)

	bc := blenderConfig(cfg)
	assert.Equal(t, "localhost", bc.Host)
	assert.Equal(t, 9876, bc.Port)
	assert.Equal(t, 25*time.Second, bc.Timeout)
	assert.Equal(t, 120*time.Second, bc.GenerateTimeout)
}
