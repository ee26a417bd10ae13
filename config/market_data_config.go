package config

import (
	"fmt"
	"time"
)

// MarketDataConfig defines configuration for the market data provider
type MarketDataConfig struct {
	// FreshnessWindow is the maximum age of a cached live snapshot before
	// it must be refreshed. Fixed window, counted from fetch completion.
	FreshnessWindow time.Duration `yaml:"freshness_window"`

	// Currencies supported by the dashboard currency selector
	Currencies []string `yaml:"currencies"`

	// TopAssetsLimit is the number of assets fetched per live snapshot,
	// ordered by market cap
	TopAssetsLimit int `yaml:"top_assets_limit"`

	// RequestTimeout caps a single upstream call so a slow dependency
	// cannot block a render cycle indefinitely
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RefreshInterval enables a periodic cache re-prime when > 0.
	// 0 keeps the provider purely request-driven.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// DefaultMarketDataConfig returns default market data provider configuration
func DefaultMarketDataConfig() MarketDataConfig {
	return MarketDataConfig{
		FreshnessWindow: 60 * time.Second,
		Currencies:      []string{"usd", "eur"},
		TopAssetsLimit:  10,
		RequestTimeout:  10 * time.Second,
		RefreshInterval: 0,
	}
}

// Validate validates the market data configuration
func (c *MarketDataConfig) Validate() error {
	if c.FreshnessWindow <= 0 {
		return fmt.Errorf("freshness_window must be positive, got %v", c.FreshnessWindow)
	}
	if len(c.Currencies) == 0 {
		return fmt.Errorf("at least one currency must be configured")
	}
	if c.TopAssetsLimit <= 0 {
		return fmt.Errorf("top_assets_limit must be positive, got %d", c.TopAssetsLimit)
	}
	return nil
}

// SupportsCurrency reports whether currency is in the configured selector list
func (c *MarketDataConfig) SupportsCurrency(currency string) bool {
	for _, cur := range c.Currencies {
		if cur == currency {
			return true
		}
	}
	return false
}
