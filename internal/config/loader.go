package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "blender-agent"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs   FileSystem
	path string
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// WithPath overrides the config file location (for the --config flag).
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// Load reads configuration from ~/.config/blender-agent/config.json (or the
// explicit path set via WithPath) and merges it with defaults. File values
// override defaults. Returns default config if the file doesn't exist,
// unless an explicit path was given.
//
// NOTE: This implementation unmarshals JSON keys directly over the default
// configuration. This allows explicit zero values (e.g., 0, false, "") in
// the config file to override defaults, while missing keys leave the
// defaults untouched.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	path := l.path
	if path == "" {
		homeDir, err := l.fs.UserHomeDir()
		if err != nil {
			return cfg, nil // Use defaults if can't get home dir
		}
		path = filepath.Join(homeDir, ".config", ConfigDir, ConfigFile)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && l.path == "" {
			return cfg, nil // Use defaults if the dotfile doesn't exist
		}
		return nil, err // Explicit path must exist; permission issues surface
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err // Return error for malformed JSON
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
