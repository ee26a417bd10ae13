package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptodash/market-dashboard/config"
	"github.com/cryptodash/market-dashboard/metrics"
)

// fakeCompletionClient records requests and returns a canned response
type fakeCompletionClient struct {
	calls    int
	lastReq  openai.ChatCompletionRequest
	response openai.ChatCompletionResponse
	err      error
}

func (f *fakeCompletionClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = request
	return f.response, f.err
}

func testChatConfig() *config.Config {
	cfg := &config.Config{Chat: config.DefaultChatConfig()}
	return cfg
}

func newTestService(client completionClient) *Service {
	return &Service{
		client:        client,
		config:        testChatConfig(),
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceChat),
	}
}

func assistantResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestAsk_ReturnsModelReply(t *testing.T) {
	client := &fakeCompletionClient{response: assistantResponse("Bitcoin is down 3.46% today.")}
	service := newTestService(client)

	reply, err := service.Ask(context.Background(), "Why is bitcoin down?", testSnapshots(), "usd")
	require.NoError(t, err)

	assert.Equal(t, "Bitcoin is down 3.46% today.", reply)
	assert.Equal(t, 1, client.calls)

	require.Len(t, client.lastReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, client.lastReq.Messages[0].Role)
	assert.Contains(t, client.lastReq.Messages[1].Content, "$68,732.00")
	assert.Contains(t, client.lastReq.Messages[1].Content, "Why is bitcoin down?")
}

func TestAsk_ConversionGuardSkipsModel(t *testing.T) {
	client := &fakeCompletionClient{response: assistantResponse("should not be used")}
	service := newTestService(client)

	reply, err := service.Ask(context.Background(), "What is the bitcoin price in euros?", testSnapshots(), "usd")
	require.NoError(t, err)

	assert.Equal(t, RefusalMessage("usd", "eur"), reply)
	assert.Equal(t, 0, client.calls, "guard must refuse before any model call")
}

func TestAsk_ModelFailure(t *testing.T) {
	client := &fakeCompletionClient{err: fmt.Errorf("connection refused")}
	service := newTestService(client)

	_, err := service.Ask(context.Background(), "Why is bitcoin down?", testSnapshots(), "usd")
	assert.ErrorIs(t, err, ErrChatUnavailable)
}

func TestAsk_NoChoices(t *testing.T) {
	client := &fakeCompletionClient{response: openai.ChatCompletionResponse{}}
	service := newTestService(client)

	_, err := service.Ask(context.Background(), "Why is bitcoin down?", testSnapshots(), "usd")
	assert.ErrorIs(t, err, ErrChatUnavailable)
}

func TestAsk_AgainstCompatibleEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(assistantResponse("Ethereum is up 2.10%."))
	}))
	defer server.Close()

	cfg := testChatConfig()
	cfg.Chat.BaseURL = server.URL + "/v1"

	service := NewService(cfg)
	require.NoError(t, service.Start(context.Background()))
	defer service.Stop()

	reply, err := service.Ask(context.Background(), "How is ethereum doing?", testSnapshots(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum is up 2.10%.", reply)
}

func TestAsk_TimeoutSurfacesAsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(assistantResponse("too late"))
	}))
	defer server.Close()

	cfg := testChatConfig()
	cfg.Chat.BaseURL = server.URL + "/v1"
	cfg.Chat.RequestTimeout = 20 * time.Millisecond

	service := NewService(cfg)

	_, err := service.Ask(context.Background(), "How is ethereum doing?", testSnapshots(), "usd")
	assert.ErrorIs(t, err, ErrChatUnavailable)
}
