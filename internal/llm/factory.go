package llm

import (
	"context"
	"fmt"
	"log"
)

// NewProvider creates the configured Provider. It returns (nil, nil) when
// the selected provider has no API key, which disables LLM recommendations.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}
	if cfg.APIKey() == "" {
		log.Printf("LLM provider %s has no API key; LLM recommendations disabled", cfg.Provider)
		return nil, nil
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "openrouter":
		p, err = NewOpenRouterProvider(ctx, cfg.OpenRouter)
	case "openai":
		p, err = NewOpenAIProvider(ctx, cfg.OpenAI)
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}
