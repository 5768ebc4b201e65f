package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/sitescoop/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Fetcher     FetcherConfig `toml:"fetcher"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	LLM         LLMConfig     `toml:"llm"`
	Export      ExportConfig  `toml:"export"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration. The store holds
// settings only (API keys, SMTP credentials); scraped results are never
// persisted.
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// FetcherConfig contains page retrieval configuration
type FetcherConfig struct {
	UserAgent      string        `toml:"user_agent"`      // Desktop-browser user agent sent on every GET
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
	MaxBodySize    int           `toml:"max_body_size"`   // Maximum response body size in bytes
	MaxPromptHTML  int           `toml:"max_prompt_html"` // HTML truncation cap before prompting the LLM
	AcceptLanguage string        `toml:"accept_language"` // Accept-Language header value
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // API key (env SITESCOOP_GEMINI_API_KEY or KV store override)
	Model       string  `toml:"model"`       // Model for AI operations
	Timeout     string  `toml:"timeout"`     // Request timeout duration string
	Temperature float32 `toml:"temperature"` // Sampling temperature
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // API key (ANTHROPIC_API_KEY or config)
	Model       string  `toml:"model"`       // Model for AI operations
	MaxTokens   int     `toml:"max_tokens"`  // Default max tokens
	Timeout     string  `toml:"timeout"`     // Request timeout duration string
	Temperature float32 `toml:"temperature"` // Sampling temperature
}

// LLM provider identifiers
const (
	LLMProviderGemini = "gemini"
	LLMProviderClaude = "claude"
)

type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "gemini" or "claude"
}

// ExportConfig contains export encoder configuration
type ExportConfig struct {
	FilenamePrefix string `toml:"filename_prefix"` // Prefix for downloadable files
	PreviewLength  int    `toml:"preview_length"`  // Truncation length for mail-body previews
	MaxCSVRows     int    `toml:"max_csv_rows"`    // Row cap for free CSV downloads (0 = unlimited)
}

// NewDefaultConfig returns a Config populated with defaults. File, env, and
// CLI values are layered on top in that order.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Fetcher: FetcherConfig{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout: 30 * time.Second,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			MaxPromptHTML:  60 * 1024,        // Enough context for selector suggestion without blowing the prompt
			AcceptLanguage: "en-US,en;q=0.9",
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-3-flash-preview",
			Timeout:     "2m",
			Temperature: 0.2, // Selector suggestion wants determinism, not creativity
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "2m",
			Temperature: 0.2,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Export: ExportConfig{
			FilenamePrefix: "sitescoop",
			PreviewLength:  500,
			MaxCSVRows:     0,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SITESCOOP_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("SITESCOOP_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SITESCOOP_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("SITESCOOP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("SITESCOOP_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if ua := os.Getenv("SITESCOOP_FETCHER_USER_AGENT"); ua != "" {
		config.Fetcher.UserAgent = ua
	}

	if key := os.Getenv("SITESCOOP_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("SITESCOOP_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if key := os.Getenv("SITESCOOP_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if model := os.Getenv("SITESCOOP_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if provider := os.Getenv("SITESCOOP_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key with priority: environment variable ->
// KV store -> config fallback. kvStorage may be nil.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"SITESCOOP_GEMINI_API_KEY"},
		"anthropic_api_key": {"SITESCOOP_CLAUDE_API_KEY"},
		"claude_api_key":    {"SITESCOOP_CLAUDE_API_KEY"},
	}

	// For Claude, also check the standard ANTHROPIC_API_KEY env var
	if name == "anthropic_api_key" || name == "claude_api_key" {
		if envValue := os.Getenv("ANTHROPIC_API_KEY"); envValue != "" {
			return envValue, nil
		}
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key %q not found in environment, KV store, or config", name)
}
