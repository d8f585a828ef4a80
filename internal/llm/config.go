package llm

import (
	"fmt"
	"time"

	"cogassess/internal/config"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "openrouter", "openai", "anthropic",
	// "gemini" or "mock".
	Provider string

	OpenRouter OpenRouterConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig

	// Timeout bounds each completion separately. Applied by callers.
	Timeout time.Duration
}

// Model names are sent to the backend unchanged. BaseURL is optional on
// every backend and mostly useful for tests.
type (
	OpenAIConfig struct {
		APIKey  string
		Model   string
		BaseURL string
	}
	OpenRouterConfig struct {
		APIKey  string
		Model   string
		BaseURL string
	}
	AnthropicConfig struct {
		APIKey  string
		Model   string
		BaseURL string
	}
	GeminiConfig struct {
		APIKey  string
		Model   string
		BaseURL string
	}
)

// DefaultConfig returns a Config with the default models filled in.
func DefaultConfig() Config {
	return Config{
		Provider:   "openrouter",
		OpenRouter: OpenRouterConfig{Model: "meta-llama/llama-3.3-70b-instruct"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku-4-5"},
		Gemini:     GeminiConfig{Model: "gemini-2.0-flash"},
		Timeout:    60 * time.Second,
	}
}

// ConfigFromApp derives the LLM configuration from the application config.
// LLM_MODEL overrides the model of whichever provider is selected;
// OPENROUTER_MODEL applies to OpenRouter only.
func ConfigFromApp(app *config.Config) Config {
	cfg := DefaultConfig()
	if app.LLMProvider != "" {
		cfg.Provider = app.LLMProvider
	}
	if app.LLMTimeout > 0 {
		cfg.Timeout = app.LLMTimeout
	}

	cfg.OpenRouter.APIKey = app.OpenRouterAPIKey
	if app.OpenRouterModel != "" {
		cfg.OpenRouter.Model = app.OpenRouterModel
	}
	cfg.OpenAI.APIKey = app.OpenAIAPIKey
	cfg.Anthropic.APIKey = app.AnthropicAPIKey
	cfg.Gemini.APIKey = app.GeminiAPIKey

	if m := app.LLMModel; m != "" {
		switch cfg.Provider {
		case "openrouter":
			cfg.OpenRouter.Model = m
		case "openai":
			cfg.OpenAI.Model = m
		case "anthropic":
			cfg.Anthropic.Model = m
		case "gemini":
			cfg.Gemini.Model = m
		}
	}
	return cfg
}

// APIKey returns the key configured for the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case "openrouter":
		return c.OpenRouter.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "anthropic":
		return c.Anthropic.APIKey
	case "gemini":
		return c.Gemini.APIKey
	}
	return ""
}

// Validate checks that the selected provider is known.
func (c Config) Validate() error {
	switch c.Provider {
	case "openrouter", "openai", "anthropic", "gemini", "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
