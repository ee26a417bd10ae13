package coingecko

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/cryptodash/market-dashboard/config"
	"github.com/cryptodash/market-dashboard/metrics"
)

// APIClient defines the upstream operations the data provider needs
type APIClient interface {
	// FetchMarkets fetches the top markets page ordered by market cap,
	// returning the raw JSON response body
	FetchMarkets(ctx context.Context, currency string, limit int) ([]byte, error)

	// FetchOHLC fetches historical OHLC data for a coin, returning the
	// raw JSON response body ([[ms, open, high, low, close], ...])
	FetchOHLC(ctx context.Context, coinID, currency string, days int) ([]byte, error)

	// Healthy reports whether at least one fetch has succeeded
	Healthy() bool
}

// Client is a CoinGecko API client with retries, rate limiting and
// API key rotation
type Client struct {
	config          *config.Config
	keyManager      IAPIKeyManager
	httpClient      *HTTPClientWithRetries
	successfulFetch atomic.Bool
}

// NewClient creates a new CoinGecko client
func NewClient(cfg *config.Config) *Client {
	retryOpts := DefaultRetryOptions()
	retryOpts.LogPrefix = "CoinGecko"
	if cfg.MarketData.RequestTimeout > 0 {
		retryOpts.RequestTimeout = cfg.MarketData.RequestTimeout
	}

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceMarkets)

	limiterManager := GetRateLimiterManagerInstance()
	limiterManager.SetConfig(cfg.APIKeys)

	return &Client{
		config:     cfg,
		keyManager: NewAPIKeyManager(cfg.APITokens),
		httpClient: NewHTTPClientWithRetries(retryOpts, metricsWriter, limiterManager),
	}
}

// Healthy returns true if at least one fetch succeeded
func (c *Client) Healthy() bool {
	return c.successfulFetch.Load()
}

// FetchMarkets fetches the top markets page for the given currency
func (c *Client) FetchMarkets(ctx context.Context, currency string, limit int) ([]byte, error) {
	body, err := c.executeWithKeys(ctx, "CoinGecko-Markets", func(apiKey APIKey) *RequestBuilder {
		baseURL := c.apiBaseURL(apiKey.Type)
		return NewMarketsRequestBuilder(baseURL).
			WithCurrency(currency).
			WithOrder("market_cap_desc").
			WithPerPage(limit).
			WithPage(1).
			WithApiKey(apiKey.Key, apiKey.Type)
	})
	if err != nil {
		return nil, err
	}

	c.successfulFetch.Store(true)
	return body, nil
}

// FetchOHLC fetches historical OHLC candles for a coin
func (c *Client) FetchOHLC(ctx context.Context, coinID, currency string, days int) ([]byte, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coin ID is required")
	}

	body, err := c.executeWithKeys(ctx, "CoinGecko-OHLC", func(apiKey APIKey) *RequestBuilder {
		baseURL := c.apiBaseURL(apiKey.Type)
		return NewOHLCRequestBuilder(baseURL, coinID).
			WithCurrency(currency).
			WithDays(days).
			WithApiKey(apiKey.Key, apiKey.Type)
	})
	if err != nil {
		return nil, err
	}

	c.successfulFetch.Store(true)
	return body, nil
}

// executeWithKeys builds and executes a request, rotating through
// available API keys until one succeeds
func (c *Client) executeWithKeys(ctx context.Context, logPrefix string, build func(APIKey) *RequestBuilder) ([]byte, error) {
	executor := func(apiKey APIKey) (interface{}, bool, error) {
		request, err := build(apiKey).Build(ctx)
		if err != nil {
			log.Printf("%s: Error building request with key type %v: %v", logPrefix, apiKey.Type, err)
			return nil, false, err
		}

		resp, body, _, err := c.httpClient.ExecuteRequest(request)
		if err != nil {
			return nil, false, err
		}
		resp.Body.Close()

		return body, true, nil
	}

	result, err := TryWithKeys(c.keyManager.GetAvailableKeys(), logPrefix, executor, CreateFailCallback(c.keyManager))
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// apiBaseURL returns the API base URL for the key type, honoring overrides
func (c *Client) apiBaseURL(keyType KeyType) string {
	if keyType == ProKey {
		if c.config.OverrideCoingeckoProURL != "" {
			return c.config.OverrideCoingeckoProURL
		}
		return COINGECKO_PRO_URL
	}
	if c.config.OverrideCoingeckoPublicURL != "" {
		return c.config.OverrideCoingeckoPublicURL
	}
	return COINGECKO_PUBLIC_URL
}
