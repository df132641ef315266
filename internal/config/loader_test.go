package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func dotfilePath(home string) string {
	return filepath.Join(home, ".config", ConfigDir, ConfigFile)
}

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/test", Files: map[string][]byte{}}
	cfg, err := NewLoaderWithFS(fs).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_NoHomeDir_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDirErr: errors.New("no home")}
	cfg, err := NewLoaderWithFS(fs).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialConfig_MergesWithDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/test",
		Files: map[string][]byte{
			dotfilePath("/home/test"): []byte(`{
				"llm": {
					"provider": "deepseek",
					"providers": {
						"deepseek": {"api_key": "sk-test", "model": "deepseek-chat"}
					}
				},
				"blender": {"port": 9999}
			}`),
		},
	}
	cfg, err := NewLoaderWithFS(fs).Load()
	require.NoError(t, err)

	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.Providers["deepseek"].APIKey)
	assert.Equal(t, 9999, cfg.Blender.Port)
	// Untouched keys keep defaults
	assert.Equal(t, "localhost", cfg.Blender.Host)
	assert.Equal(t, 8, cfg.Agent.MaxRounds)
	assert.Equal(t, "MAIN_SITE", cfg.Hyper3D.Mode)
}

func TestLoad_ExplicitZeroOverridesDefault(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/test",
		Files: map[string][]byte{
			dotfilePath("/home/test"): []byte(`{"blender": {"allow_code_execution": true}}`),
		},
	}
	cfg, err := NewLoaderWithFS(fs).Load()
	require.NoError(t, err)
	assert.True(t, cfg.Blender.AllowCodeExecution)
}

func TestLoad_ExplicitPath(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/test",
		Files: map[string][]byte{
			"/etc/agent.json": []byte(`{"agent": {"max_rounds": 3}}`),
		},
	}
	cfg, err := NewLoaderWithFS(fs).WithPath("/etc/agent.json").Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Agent.MaxRounds)
}

// --- ERROR PATH TESTS ---

func TestLoad_ExplicitPathMissing_Errors(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/test", Files: map[string][]byte{}}
	_, err := NewLoaderWithFS(fs).WithPath("/etc/missing.json").Load()
	assert.Error(t, err)
}

func TestLoad_MalformedJSON_Errors(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/test",
		Files: map[string][]byte{
			dotfilePath("/home/test"): []byte(`{not json`),
		},
	}
	_, err := NewLoaderWithFS(fs).Load()
	assert.Error(t, err)
}

func TestLoad_PermissionError_Errors(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/test",
		ReadFileErr: os.ErrPermission,
	}
	_, err := NewLoaderWithFS(fs).Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues_FailValidation(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/test",
		Files: map[string][]byte{
			dotfilePath("/home/test"): []byte(`{"blender": {"port": 0}}`),
		},
	}
	_, err := NewLoaderWithFS(fs).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blender.port")
}
