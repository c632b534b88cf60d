package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 4 << 20

// HTTPResponder posts {"prompt": ...} to a single chat endpoint.
type HTTPResponder struct {
	client *http.Client
	url    string
}

// NewHTTPResponder creates a responder for url. A nil client means
// http.DefaultClient.
func NewHTTPResponder(url string, client *http.Client) *HTTPResponder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResponder{client: client, url: url}
}

// ChatRequest is the request body sent to the endpoint.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse accepts both the enveloped form {"data": {"response": ...}}
// and a bare {"response": ...}.
type ChatResponse struct {
	Data *struct {
		Response string `json:"response"`
	} `json:"data"`
	Response string `json:"response"`
}

// Text returns the answer, preferring the enveloped field.
func (r ChatResponse) Text() string {
	if r.Data != nil && r.Data.Response != "" {
		return r.Data.Response
	}
	return r.Response
}

func (h *HTTPResponder) Respond(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ChatRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var out ChatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return out.Text(), nil
}
