package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cryptodash/market-dashboard/cache"
)

type Config struct {
	Port       string           `yaml:"port"`
	Cache      cache.Config     `yaml:"cache"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Chat       ChatConfig       `yaml:"chat"`
	APIKeys    APIKeyConfig     `yaml:"api_keys"`

	// TokensFile points to an optional JSON file with CoinGecko API keys
	TokensFile string `yaml:"tokens_file"`
	APITokens  *APITokens

	OverrideCoingeckoPublicURL string `yaml:"override_coingecko_public_url"`
	OverrideCoingeckoProURL    string `yaml:"override_coingecko_pro_url"`
}

// LoadConfig reads the YAML config file, applies defaults and resolves secrets.
// The chat API key is mandatory: a dashboard without its chat backend is
// considered misconfigured and must fail at startup, not mid-session.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Config{
		Cache:      cache.DefaultCacheConfig(),
		MarketData: DefaultMarketDataConfig(),
		Chat:       DefaultChatConfig(),
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if config.Port == "" {
		config.Port = "8080"
	}

	if err := config.MarketData.Validate(); err != nil {
		return nil, fmt.Errorf("market_data config invalid: %w", err)
	}

	if err := config.Chat.ResolveAPIKey(); err != nil {
		return nil, fmt.Errorf("chat config invalid: %w", err)
	}

	apiTokens, err := LoadAPITokens(config.TokensFile)
	if err != nil {
		return nil, fmt.Errorf("error loading API tokens from %s: %w", config.TokensFile, err)
	}
	config.APITokens = apiTokens

	return &config, nil
}
