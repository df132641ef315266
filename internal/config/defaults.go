package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	LLM     LLMConfig     `json:"llm"`
	Blender BlenderConfig `json:"blender"`
	Hyper3D Hyper3DConfig `json:"hyper3d"`
	Agent   AgentConfig   `json:"agent"`
	Log     LogConfig     `json:"log"`
}

// LLMConfig selects the active provider and holds per-provider credentials.
type LLMConfig struct {
	// Provider is the key into Providers used when no --provider flag is given.
	Provider string `json:"provider"` // Default: "claude"

	// Providers maps a provider name to its credentials and model choice.
	// Known names: claude, gemini, deepseek, zhipu, moonshot, doubao, aimlapi.
	// Unknown names are treated as OpenAI-compatible and require a base_url.
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig holds credentials and model selection for one LLM backend.
type ProviderConfig struct {
	APIKey    string `json:"api_key"`
	Model     string `json:"model"`
	BaseURL   string `json:"base_url"`   // Optional override; required for unknown providers
	MaxTokens int    `json:"max_tokens"` // Default: 4096 when 0
}

// BlenderConfig holds the addon connection settings.
type BlenderConfig struct {
	Host                   string `json:"host"`                     // Default: "localhost"
	Port                   int    `json:"port"`                     // Default: 9876
	TimeoutSeconds         int    `json:"timeout_seconds"`          // Default: 10
	GenerateTimeoutSeconds int    `json:"generate_timeout_seconds"` // Default: 30
	RenderDir              string `json:"render_dir"`               // Default: "renders"

	// AllowCodeExecution gates the execute_code tool. When false the tool
	// is not advertised to the model at all.
	AllowCodeExecution bool `json:"allow_code_execution"` // Default: false
}

// Hyper3DConfig holds Rodin job submission and polling settings.
type Hyper3DConfig struct {
	Mode                string `json:"mode"` // "MAIN_SITE" or "FAL_AI", default MAIN_SITE
	APIKey              string `json:"api_key"`
	BaseURL             string `json:"base_url"`              // Optional override
	PollIntervalSeconds int    `json:"poll_interval_seconds"` // Default: 2
	MaxWaitSeconds      int    `json:"max_wait_seconds"`      // Default: 300
}

// AgentConfig bounds the dispatch loop.
type AgentConfig struct {
	MaxRounds   int     `json:"max_rounds"`  // Default: 8
	Temperature float64 `json:"temperature"` // Default: 0.2
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `json:"level"`  // Default: "info" (debug|info|warn|error)
	Format string `json:"format"` // Default: "text" (text|json)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "claude",
			Providers: map[string]ProviderConfig{},
		},
		Blender: BlenderConfig{
			Host:                   "localhost",
			Port:                   9876,
			TimeoutSeconds:         10,
			GenerateTimeoutSeconds: 30,
			RenderDir:              "renders",
			AllowCodeExecution:     false,
		},
		Hyper3D: Hyper3DConfig{
			Mode:                "MAIN_SITE",
			PollIntervalSeconds: 2,
			MaxWaitSeconds:      300,
		},
		Agent: AgentConfig{
			MaxRounds:   8,
			Temperature: 0.2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ActiveProvider returns the config for the named provider, falling back to
// the default selection when name is empty.
func (c *Config) ActiveProvider(name string) (string, ProviderConfig) {
	if name == "" {
		name = c.LLM.Provider
	}
	return name, c.LLM.Providers[name]
}
