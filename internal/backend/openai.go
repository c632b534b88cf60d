package backend

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/VarunSharma3520/svist/internal/config"
)

// ChatClient is the subset of openai.Client used here; it is easy to mock in tests.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIResponder asks any OpenAI-compatible chat completion API.
type OpenAIResponder struct {
	client ChatClient
	model  string
}

// NewOpenAIResponder creates a responder backed by go-openai.
func NewOpenAIResponder(cfg config.OpenAIConfig) *OpenAIResponder {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return NewOpenAIResponderWithClient(openai.NewClientWithConfig(c), cfg.Model)
}

func NewOpenAIResponderWithClient(client ChatClient, model string) *OpenAIResponder {
	return &OpenAIResponder{client: client, model: model}
}

func (o *OpenAIResponder) Respond(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
