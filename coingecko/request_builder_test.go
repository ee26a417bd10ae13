package coingecko

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMarketsRequestBuilder(t *testing.T) {
	builder := NewMarketsRequestBuilder(COINGECKO_PUBLIC_URL).
		WithCurrency("usd").
		WithOrder("market_cap_desc").
		WithPerPage(10).
		WithPage(1)

	built := builder.BuildURL()

	parsed, err := url.Parse(built)
	require.NoError(t, err)

	assert.Equal(t, "api.coingecko.com", parsed.Host)
	assert.Equal(t, "/api/v3/coins/markets", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "usd", query.Get("vs_currency"))
	assert.Equal(t, "market_cap_desc", query.Get("order"))
	assert.Equal(t, "10", query.Get("per_page"))
	assert.Equal(t, "1", query.Get("page"))
}

func TestNewOHLCRequestBuilder(t *testing.T) {
	builder := NewOHLCRequestBuilder(COINGECKO_PUBLIC_URL, "bitcoin").
		WithCurrency("eur").
		WithDays(30)

	parsed, err := url.Parse(builder.BuildURL())
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/coins/bitcoin/ohlc", parsed.Path)
	assert.Equal(t, "eur", parsed.Query().Get("vs_currency"))
	assert.Equal(t, "30", parsed.Query().Get("days"))
}

func TestRequestBuilder_ApiKeyParams(t *testing.T) {
	tests := []struct {
		name          string
		apiKey        string
		keyType       KeyType
		expectedParam string
	}{
		{"pro key", "pro-key-123", ProKey, "x_cg_pro_api_key"},
		{"demo key", "demo-key-456", DemoKey, "x_cg_demo_api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewMarketsRequestBuilder(COINGECKO_PRO_URL).
				WithApiKey(tt.apiKey, tt.keyType)

			parsed, err := url.Parse(builder.BuildURL())
			require.NoError(t, err)
			assert.Equal(t, tt.apiKey, parsed.Query().Get(tt.expectedParam))
		})
	}
}

func TestRequestBuilder_NoKeyOmitsParams(t *testing.T) {
	builder := NewMarketsRequestBuilder(COINGECKO_PUBLIC_URL).
		WithApiKey("", NoKey).
		WithCurrency("usd")

	parsed, err := url.Parse(builder.BuildURL())
	require.NoError(t, err)

	query := parsed.Query()
	assert.Empty(t, query.Get("x_cg_pro_api_key"))
	assert.Empty(t, query.Get("x_cg_demo_api_key"))
}

func TestRequestBuilder_Build(t *testing.T) {
	req, err := NewMarketsRequestBuilder(COINGECKO_PUBLIC_URL).
		WithCurrency("usd").
		Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.NotEmpty(t, req.Header.Get("User-Agent"))
}

func TestBuildURL_SlashHandling(t *testing.T) {
	assert.Equal(t, "https://example.com/api/v3/coins",
		buildURL("https://example.com/", "/api/v3/coins"))
	assert.Equal(t, "https://example.com/api/v3/coins",
		buildURL("https://example.com", "api/v3/coins"))
}
