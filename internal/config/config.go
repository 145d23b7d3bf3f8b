package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds application configuration.
type Config struct {
	// ModelProvider selects the remote interpreter: "openai", "gemini", or "none".
	// "none" skips the remote call and always uses the keyword fallback.
	ModelProvider string `json:"model_provider,omitempty" yaml:"model_provider,omitempty"`

	// ModelName overrides the provider's default model.
	ModelName string `json:"model_name,omitempty" yaml:"model_name,omitempty"`

	// ModelBaseURL overrides the OpenAI-compatible API base URL.
	// Ignored by the gemini provider.
	ModelBaseURL string `json:"model_base_url,omitempty" yaml:"model_base_url,omitempty"`

	// ModelTimeoutSeconds bounds a single remote interpretation call.
	ModelTimeoutSeconds int `json:"model_timeout_seconds,omitempty" yaml:"model_timeout_seconds,omitempty"`

	// Bind is the HTTP listen address for `nudge serve`.
	Bind string `json:"bind,omitempty" yaml:"bind,omitempty"`

	// Port is the HTTP listen port for `nudge serve`.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" yaml:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" yaml:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty" yaml:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ModelProvider:       ProviderOpenAI,
		ModelTimeoutSeconds: 30,
		Bind:                "127.0.0.1",
		Port:                3000,
		LogLevel:            "info",
	}
}

// Load loads configuration from baseDir/config.yaml or baseDir/config.json,
// then applies NUDGE_* environment overrides.
// YAML wins when both files exist. Returns defaults if neither exists.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.nudge.
func Load(baseDir string) (*Config, error) {
	file, err := loadDir(baseDir)
	if err != nil {
		return nil, err
	}
	cfg := Merge(DefaultConfig(), file)
	applyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return errors.New("model_provider must be one of: openai, gemini, none")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log_level must be one of: debug, info, warn, error")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}
	if c.ModelTimeoutSeconds < 0 {
		return errors.New("model_timeout_seconds must be non-negative")
	}
	return nil
}

// APIKey returns the API key for the configured provider from the environment.
// Keys are never read from config files.
func (c *Config) APIKey() string {
	switch c.ModelProvider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}

// loadDir reads config.yaml if present, else config.json.
// Returns zero-valued config if neither exists (not defaults).
func loadDir(baseDir string) (*Config, error) {
	yamlPath := filepath.Join(baseDir, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return loadFileRaw(yamlPath, yaml.Unmarshal)
	}
	return loadFileRaw(filepath.Join(baseDir, "config.json"), json.Unmarshal)
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string, unmarshal func([]byte, any) error) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, return zero config
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays NUDGE_* environment variables. Malformed numbers are ignored.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv("NUDGE_MODEL_PROVIDER")); v != "" {
		cfg.ModelProvider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv("NUDGE_MODEL_NAME")); v != "" {
		cfg.ModelName = v
	}
	if v := strings.TrimSpace(getenv("NUDGE_MODEL_BASE_URL")); v != "" {
		cfg.ModelBaseURL = v
	}
	if v := strings.TrimSpace(getenv("NUDGE_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv("NUDGE_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.ModelProvider = firstString(overlay.ModelProvider, base.ModelProvider)
	result.ModelName = firstString(overlay.ModelName, base.ModelName)
	result.ModelBaseURL = firstString(overlay.ModelBaseURL, base.ModelBaseURL)
	result.Bind = firstString(overlay.Bind, base.Bind)
	result.LogLevel = firstString(overlay.LogLevel, base.LogLevel)

	result.ModelTimeoutSeconds = overlay.ModelTimeoutSeconds
	if result.ModelTimeoutSeconds == 0 {
		result.ModelTimeoutSeconds = base.ModelTimeoutSeconds
	}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// firstString returns the first value that is non-empty after trimming.
func firstString(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
