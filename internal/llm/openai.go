package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/oauth2"
)

const openRouterURL = "https://openrouter.ai/api/v1"

// ChatProvider talks to any OpenAI-compatible chat completions endpoint.
// OpenAI and OpenRouter both use it.
type ChatProvider struct {
	backend string
	client  *openai.Client
	model   string
}

// NewOpenAIProvider targets api.openai.com, or cfg.BaseURL when set.
func NewOpenAIProvider(ctx context.Context, cfg OpenAIConfig) (*ChatProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return newChatProvider(ctx, "openai", cfg.APIKey, cfg.BaseURL, cfg.Model), nil
}

// NewOpenRouterProvider targets OpenRouter, or cfg.BaseURL when set.
func NewOpenRouterProvider(ctx context.Context, cfg OpenRouterConfig) (*ChatProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterURL
	}
	return newChatProvider(ctx, "openrouter", cfg.APIKey, baseURL, cfg.Model), nil
}

// newChatProvider sends the key as a static oauth2 bearer token on the
// transport, so the SDK config itself carries no key.
func newChatProvider(ctx context.Context, backend, apiKey, baseURL, model string) *ChatProvider {
	conf := openai.DefaultConfig("")
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	conf.HTTPClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiKey,
		TokenType:   "Bearer",
	}))
	return &ChatProvider{backend: backend, client: openai.NewClientWithConfig(conf), model: model}
}

func (p *ChatProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	out, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    msgs,
		MaxTokens:   req.tokenCap(),
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		status := 0
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.HTTPStatusCode
		}
		return nil, callError(p.backend, status, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return nil, emptyResponse(p.backend)
	}

	choice := out.Choices[0]
	return &Response{
		Text:         choice.Message.Content,
		Model:        out.Model,
		Truncated:    choice.FinishReason == openai.FinishReasonLength,
		InputTokens:  out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
	}, nil
}

func (p *ChatProvider) ModelID() string { return p.model }
