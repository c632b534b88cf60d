package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/VarunSharma3520/svist/internal/config"
	"github.com/VarunSharma3520/svist/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// chatServer answers POSTs with status and body, recording the prompt it got.
func chatServer(t *testing.T, status int, body string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if gotPrompt != nil {
			*gotPrompt = req.Prompt
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPResponder_EnvelopedResponse(t *testing.T) {
	var prompt string
	srv := chatServer(t, http.StatusOK, `{"data":{"response":"hi there"}}`, &prompt)

	text, err := NewHTTPResponder(srv.URL+"/api/v1/test/chat", srv.Client()).Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
	assert.Equal(t, "hello", prompt)
}

func TestHTTPResponder_BareResponse(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"response":"bare"}`, nil)

	text, err := NewHTTPResponder(srv.URL, srv.Client()).Respond(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "bare", text)
}

func TestHTTPResponder_MissingResponseIsEmpty(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"data":{}}`, nil)

	text, err := NewHTTPResponder(srv.URL, srv.Client()).Respond(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestHTTPResponder_NonSuccessStatus(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, `{"error":"down"}`, nil)

	_, err := NewHTTPResponder(srv.URL, srv.Client()).Respond(context.Background(), "q")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPResponder_MalformedBody(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `<html>oops</html>`, nil)

	_, err := NewHTTPResponder(srv.URL, srv.Client()).Respond(context.Background(), "q")
	require.ErrorIs(t, err, ErrDecode)
}

func TestHTTPResponder_TransportError(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{}`, nil)
	url := srv.URL
	srv.Close()

	_, err := NewHTTPResponder(url, nil).Respond(context.Background(), "q")
	require.Error(t, err)
}

func TestHTTPResponder_ContextCanceled(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"response":"late"}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPResponder(srv.URL, srv.Client()).Respond(ctx, "q")
	require.ErrorIs(t, err, context.Canceled)
}

func TestAskCmd(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := ResponderFunc(func(_ context.Context, p string) (string, error) { return "echo " + p, nil })
		msg := AskCmd(context.Background(), r, "req-1", "x")()
		assert.Equal(t, types.ResponseMsg{RequestID: "req-1", Text: "echo x"}, msg)
	})

	t.Run("empty answer uses fallback", func(t *testing.T) {
		r := ResponderFunc(func(context.Context, string) (string, error) { return "", nil })
		msg := AskCmd(context.Background(), r, "req-2", "x")()
		assert.Equal(t, types.ResponseMsg{RequestID: "req-2", Text: FallbackResponse}, msg)
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("boom")
		r := ResponderFunc(func(context.Context, string) (string, error) { return "", boom })
		msg := AskCmd(context.Background(), r, "req-3", "x")()
		errMsg, ok := msg.(types.ResponseErrMsg)
		require.True(t, ok)
		assert.Equal(t, "req-3", errMsg.RequestID)
		assert.ErrorIs(t, errMsg.Err, boom)
	})
}

type mockChat struct {
	resp openai.ChatCompletionResponse
	err  error
	got  openai.ChatCompletionRequest
}

func (m *mockChat) CreateChatCompletion(_ context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.got = r
	return m.resp, m.err
}

func TestOpenAIResponder(t *testing.T) {
	mock := &mockChat{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "from openai"}}},
	}}
	text, err := NewOpenAIResponderWithClient(mock, "gpt-test").Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from openai", text)
	assert.Equal(t, "gpt-test", mock.got.Model)
	require.Len(t, mock.got.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, mock.got.Messages[0].Role)
	assert.Equal(t, "hello", mock.got.Messages[0].Content)
}

func TestOpenAIResponder_NoChoices(t *testing.T) {
	text, err := NewOpenAIResponderWithClient(&mockChat{}, "m").Respond(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpenAIResponder_Error(t *testing.T) {
	boom := errors.New("rate limited")
	_, err := NewOpenAIResponderWithClient(&mockChat{err: boom}, "m").Respond(context.Background(), "q")
	require.ErrorIs(t, err, boom)
}

func TestOllamaResponder_AggregatesStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"model":"m","message":{"role":"assistant","content":"hi "},"done":false}`)
		fmt.Fprintln(w, `{"model":"m","message":{"role":"assistant","content":"there"},"done":false}`)
		fmt.Fprintln(w, `{"model":"m","message":{"role":"assistant","content":""},"done":true}`)
	}))
	t.Cleanup(srv.Close)

	r := NewOllamaResponder(config.OllamaConfig{URL: srv.URL, Model: "m", Temperature: 0.5})
	text, err := r.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestNew(t *testing.T) {
	cfg := config.Default()

	r, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &HTTPResponder{}, r)

	cfg.Provider = config.ProviderOllama
	r, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OllamaResponder{}, r)

	cfg.Provider = config.ProviderOpenAI
	r, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIResponder{}, r)

	cfg.Provider = "smoke-signals"
	_, err = New(cfg)
	require.ErrorIs(t, err, ErrUnknownProvider)
}
