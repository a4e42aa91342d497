// Package config loads chatkit configuration from YAML files and the
// environment, and provides environment-derived client construction.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/evertlam/chatkit/chat"
	"github.com/evertlam/chatkit/llm"
)

// FallbackKeyEnv is the generic API key environment variable used when no
// provider-specific key is set.
const FallbackKeyEnv = "LLM_API_KEY"

// File is the on-disk configuration shape. It deliberately excludes the
// API key, which is resolved from the environment.
type File struct {
	Provider       string  `yaml:"provider,omitempty"`
	Model          string  `yaml:"model,omitempty"`
	Temperature    float64 `yaml:"temperature,omitempty"`
	MaxTokens      int     `yaml:"max_tokens,omitempty"`
	SystemPrompt   string  `yaml:"system_prompt,omitempty"`
	Debug          bool    `yaml:"debug,omitempty"`
	TimeoutSeconds int     `yaml:"timeout,omitempty"`
	RetryAttempts  int     `yaml:"retry_attempts,omitempty"`
}

// Load reads a YAML config file and merges it over the defaults. A missing
// file yields the defaults; a malformed one is an error.
func Load(path string) (*File, error) {
	defaults := File{
		Provider:       llm.DefaultProvider,
		Temperature:    chat.DefaultTemperature,
		MaxTokens:      chat.DefaultMaxTokens,
		TimeoutSeconds: int(chat.DefaultTimeout / time.Second),
		RetryAttempts:  chat.DefaultRetryAttempts,
	}

	if path == "" {
		return &defaults, nil
	}
	if _, err := os.Stat(path); err != nil {
		return &defaults, nil
	}

	data, err := os.ReadFile(path) //#nosec 304 -- intentional file read for config
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var fileCfg File
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := mergo.Merge(&defaults, fileCfg, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}
	return &defaults, nil
}

// ChatConfig converts the file shape into a chat.Config with the resolved
// API key.
func (f *File) ChatConfig(apiKey string) chat.Config {
	return chat.Config{
		APIKey:        apiKey,
		Provider:      f.Provider,
		Model:         f.Model,
		Temperature:   f.Temperature,
		MaxTokens:     f.MaxTokens,
		SystemPrompt:  f.SystemPrompt,
		Debug:         f.Debug,
		Timeout:       time.Duration(f.TimeoutSeconds) * time.Second,
		RetryAttempts: f.RetryAttempts,
	}
}

// LoadDotEnv loads a .env file from the working directory if present.
// Intended for the application edge; library code never calls it.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ResolveAPIKey resolves the API key for a provider by convention:
// <PROVIDER_ID_UPPERCASE>_API_KEY first, then the generic LLM_API_KEY.
func ResolveAPIKey(providerID string) (string, error) {
	envName := KeyEnvName(providerID)
	if key := os.Getenv(envName); key != "" {
		return key, nil
	}
	if key := os.Getenv(FallbackKeyEnv); key != "" {
		return key, nil
	}
	return "", llm.NewMissingCredentialError(
		fmt.Sprintf("no API key found: set %s or %s", envName, FallbackKeyEnv))
}

// KeyEnvName returns the conventional environment variable name for a
// provider's API key.
func KeyEnvName(providerID string) string {
	normalized := strings.ToUpper(strings.ReplaceAll(providerID, "-", "_"))
	return normalized + "_API_KEY"
}

// NewClientFromEnv constructs a chat.Client for the given provider with
// the API key resolved from the environment. Remaining settings come from
// chatkit defaults; use options or chat.New directly for more control.
func NewClientFromEnv(providerID string, opts ...chat.Option) (*chat.Client, error) {
	if providerID == "" {
		providerID = llm.DefaultProvider
	}
	apiKey, err := ResolveAPIKey(providerID)
	if err != nil {
		return nil, err
	}
	return chat.New(chat.Config{
		APIKey:   apiKey,
		Provider: providerID,
	}, opts...)
}
