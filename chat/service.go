package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cryptodash/market-dashboard/config"
	"github.com/cryptodash/market-dashboard/metrics"
	"github.com/cryptodash/market-dashboard/provider"
)

// ErrChatUnavailable means the hosted model call failed; the caller
// should render a notice in the chat panel, nothing else is affected
var ErrChatUnavailable = errors.New("chat model unavailable")

const systemPrompt = "You are a concise assistant embedded in a cryptocurrency market dashboard. " +
	"You answer questions about the market data shown to the user."

// completionClient is the slice of the OpenAI client the service uses
type completionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service builds per-turn chat context and talks to the hosted model
type Service struct {
	client        completionClient
	config        *config.Config
	metricsWriter *metrics.MetricsWriter
}

// NewService creates a new chat service from the resolved configuration
func NewService(cfg *config.Config) *Service {
	clientConfig := openai.DefaultConfig(cfg.Chat.APIKey())
	if cfg.Chat.BaseURL != "" {
		clientConfig.BaseURL = cfg.Chat.BaseURL
	}

	return &Service{
		client:        openai.NewClientWithConfig(clientConfig),
		config:        cfg,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceChat),
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("chat client not initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

// Ask sends a user question plus the latest market snapshot as context
// to the hosted model and returns its reply.
//
// Questions asking for a price in a currency other than the active one
// are refused locally before any model call: the prompt also instructs
// the model to decline, but prompt wording alone is best-effort.
func (s *Service) Ask(ctx context.Context, question string, snapshots []provider.MarketSnapshot, currency string) (string, error) {
	if requested, foreign := DetectForeignCurrency(question, currency); foreign {
		log.Printf("Chat: refusing conversion request to %s while currency is %s", requested, currency)
		return RefusalMessage(currency, requested), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Chat.RequestTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: s.config.Chat.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(question, snapshots, currency)},
		},
	})
	if err != nil {
		s.metricsWriter.RecordUpstreamRequest("error")
		return "", fmt.Errorf("chat completion failed: %v: %w", err, ErrChatUnavailable)
	}

	if len(resp.Choices) == 0 {
		s.metricsWriter.RecordUpstreamRequest("error")
		return "", fmt.Errorf("chat completion returned no choices: %w", ErrChatUnavailable)
	}

	s.metricsWriter.RecordUpstreamRequest("success")
	return resp.Choices[0].Message.Content, nil
}
