// Package backend talks to the chat collaborator: given a prompt it returns
// the complete response text, or fails. Three providers are supported: the
// plain JSON endpoint the widget was built for, a local Ollama server and
// any OpenAI-compatible API.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/VarunSharma3520/svist/internal/config"
	"github.com/VarunSharma3520/svist/internal/types"
)

// FallbackResponse replaces a successful answer that carried no text.
const FallbackResponse = "Response received successfully"

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrDecode           = errors.New("malformed response body")
	ErrUnknownProvider  = errors.New("unknown provider")
)

// Responder answers a prompt with the full response text.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, prompt string) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// New builds the responder selected by cfg.Provider.
func New(cfg *config.Config) (Responder, error) {
	switch cfg.Provider {
	case config.ProviderHTTP:
		return NewHTTPResponder(cfg.Endpoint.URL(), &http.Client{Timeout: cfg.RequestTimeout}), nil
	case config.ProviderOllama:
		return NewOllamaResponder(cfg.Ollama), nil
	case config.ProviderOpenAI:
		return NewOpenAIResponder(cfg.OpenAI), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// NewRequestID returns an identifier used to correlate a request with its
// result in the logs.
func NewRequestID() string {
	return uuid.NewString()
}

// AskCmd calls r off the UI loop and reports the outcome as a
// types.ResponseMsg or types.ResponseErrMsg. An empty answer is replaced by
// FallbackResponse.
func AskCmd(ctx context.Context, r Responder, requestID, prompt string) tea.Cmd {
	return func() tea.Msg {
		text, err := r.Respond(ctx, prompt)
		if err != nil {
			return types.ResponseErrMsg{RequestID: requestID, Err: err}
		}
		if text == "" {
			text = FallbackResponse
		}
		return types.ResponseMsg{RequestID: requestID, Text: text}
	}
}
