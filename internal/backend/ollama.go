package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parakeet-nest/parakeet/completion"
	"github.com/parakeet-nest/parakeet/enums/option"
	pkllm "github.com/parakeet-nest/parakeet/llm"

	"github.com/VarunSharma3520/svist/internal/config"
)

var errStreamCanceled = errors.New("stream canceled")

// OllamaResponder asks a local Ollama server through Parakeet. The chat
// stream is read to completion before the answer is returned; the UI does
// its own typing effect.
type OllamaResponder struct {
	url         string
	model       string
	temperature float64
}

func NewOllamaResponder(cfg config.OllamaConfig) *OllamaResponder {
	return &OllamaResponder{
		url:         cfg.URL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (o *OllamaResponder) Respond(ctx context.Context, prompt string) (string, error) {
	opts := pkllm.SetOptions(map[string]interface{}{
		string(option.Temperature): o.temperature,
	})

	q := pkllm.Query{
		Model: o.model,
		Messages: []pkllm.Message{
			{Role: "user", Content: prompt},
		},
		Options: opts,
		Stream:  true,
	}

	var full strings.Builder
	_, err := completion.ChatStream(o.url, q, func(ans pkllm.Answer) error {
		select {
		case <-ctx.Done():
			return errStreamCanceled
		default:
		}
		full.WriteString(ans.Message.Content)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("ollama chat: %w", ctxErr)
		}
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return full.String(), nil
}
