package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cryptodash/market-dashboard/provider"
)

func TestDetectForeignCurrency(t *testing.T) {
	tests := []struct {
		name     string
		question string
		active   string
		expected string
		foreign  bool
	}{
		{"euro word", "What is the Bitcoin price in euros?", "usd", "eur", true},
		{"currency code", "show me bitcoin in GBP", "usd", "gbp", true},
		{"yen word", "how much is ethereum in yen", "usd", "jpy", true},
		{"active currency mention", "what is the price in usd?", "usd", "", false},
		{"active currency alias", "how many dollars is bitcoin", "usd", "", false},
		{"no currency at all", "which coin moved the most today?", "usd", "", false},
		{"punctuation around alias", "price in euros, please!", "usd", "eur", true},
		{"eur active usd foreign", "give me the price in dollars", "eur", "usd", true},
		{"substring is not a mention", "is the eurozone relevant here", "usd", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, foreign := DetectForeignCurrency(tt.question, tt.active)
			assert.Equal(t, tt.foreign, foreign)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestRefusalMessage(t *testing.T) {
	msg := RefusalMessage("usd", "eur")

	assert.Contains(t, msg, "USD")
	assert.Contains(t, msg, "EUR")
	assert.Contains(t, msg, "sidebar settings")
}

func testSnapshots() []provider.MarketSnapshot {
	return []provider.MarketSnapshot{
		{
			ID:                       "bitcoin",
			Symbol:                   "btc",
			Name:                     "Bitcoin",
			CurrentPrice:             68732.0,
			MarketCap:                1_350_000_000_000,
			TotalVolume:              32_000_000_000,
			ATH:                      73750.0,
			ATHDate:                  time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			PriceChangePercentage24h: -3.456,
		},
	}
}

func TestBuildMarketContext(t *testing.T) {
	context := BuildMarketContext(testSnapshots(), "usd")

	assert.Contains(t, context, "All prices are in USD")
	assert.Contains(t, context, "Bitcoin (BTC)")
	assert.Contains(t, context, "$68,732.00")
	assert.Contains(t, context, "$1.35T")
	assert.Contains(t, context, "-3.46%")
}

func TestBuildMarketContext_Empty(t *testing.T) {
	assert.Equal(t, "No market data available.", BuildMarketContext(nil, "usd"))
}

func TestBuildPrompt_CarriesPolicyAndQuestion(t *testing.T) {
	prompt := buildPrompt("Why is bitcoin down?", testSnapshots(), "usd")

	assert.Contains(t, prompt, "User question: Why is bitcoin down?")
	assert.Contains(t, prompt, "DO NOT perform any conversion")
	assert.Contains(t, prompt, "The data above is in USD")
}
