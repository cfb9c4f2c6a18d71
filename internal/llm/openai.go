package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Akuma-real/memegate/internal/config"
	. "github.com/Akuma-real/memegate/internal/logging"
)

// OpenAIProvider implements Provider for OpenAI-compatible APIs.
// Works with OpenAI, Kimi, LM Studio, OpenRouter and other compatible
// endpoints via BaseURL.
type OpenAIProvider struct {
	client       *openai.Client
	model        string
	maxTokens    int
	systemPrompt string
}

// NewOpenAIProvider creates a provider from config.
// API key is optional for local servers like LM Studio.
func NewOpenAIProvider(cfg config.LLMConfig) (*OpenAIProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model not configured")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "not-needed" // Placeholder for local servers that don't require auth
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		// Ensure the URL ends with /v1 for OpenAI-compatible APIs
		if !strings.HasSuffix(baseURL, "/v1") && !strings.HasSuffix(baseURL, "/v1/") {
			baseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
		}
		clientConfig.BaseURL = baseURL
	}

	L_info("llm: openai provider ready", "model", cfg.Model, "baseUrl", clientConfig.BaseURL)

	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

func (p *OpenAIProvider) Name() string  { return "openai" }
func (p *OpenAIProvider) Model() string { return p.model }

// Complete sends a single-turn chat completion and returns the reply text.
func (p *OpenAIProvider) Complete(ctx context.Context, userMessage string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if p.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
