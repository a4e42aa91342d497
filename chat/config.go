package chat

import (
	"fmt"
	"time"

	"github.com/evertlam/chatkit/llm"
)

const (
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 1000
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 3
)

// Config is the base configuration for a Client. It is fixed per request:
// per-call overrides are supplied through RequestOptions and never mutate
// the Config itself.
type Config struct {
	// APIKey authenticates against the completion provider. Required.
	APIKey string
	// Provider selects a profile from the registry. Defaults to
	// llm.DefaultProvider.
	Provider string
	// Model overrides the provider's default model when non-empty.
	Model string
	// Temperature in [0.0, 2.0]. Zero means "use the default" (0.7).
	Temperature float64
	// MaxTokens caps the completion length. Defaults to 1000.
	MaxTokens int
	// SystemPrompt seeds the conversation's system prompt.
	SystemPrompt string
	// Debug enables diagnostics events.
	Debug bool
	// Timeout is applied by the backend transport, not by the
	// orchestration core. Defaults to 30s.
	Timeout time.Duration
	// RetryAttempts bounds the retry loop. Defaults to 3.
	RetryAttempts int
}

// withDefaults returns a copy of the config with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = llm.DefaultProvider
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	return c
}

// validate checks the config after defaults have been applied.
func (c Config) validate() error {
	if c.APIKey == "" {
		return llm.NewValidationError("api key is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return llm.NewValidationError(fmt.Sprintf("temperature %.2f is outside [0.0, 2.0]", c.Temperature))
	}
	if c.MaxTokens < 0 {
		return llm.NewValidationError("max tokens must be positive")
	}
	if c.Timeout < 0 {
		return llm.NewValidationError("timeout must be positive")
	}
	if c.RetryAttempts < 0 {
		return llm.NewValidationError("retry attempts must be positive")
	}
	return nil
}

// RequestOptions carries per-call overrides for a single dispatch. Any field
// present overrides the corresponding Config field for that call only.
type RequestOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
	Stream      *bool
}
