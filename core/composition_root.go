package core

import (
	"context"

	"github.com/cryptodash/market-dashboard/api"
	"github.com/cryptodash/market-dashboard/cache"
	"github.com/cryptodash/market-dashboard/chat"
	"github.com/cryptodash/market-dashboard/coingecko"
	"github.com/cryptodash/market-dashboard/config"
	"github.com/cryptodash/market-dashboard/provider"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	cacheService := cache.NewService(cfg.Cache)
	registry.Register(cacheService)

	apiClient := coingecko.NewClient(cfg)

	providerService := provider.NewService(cacheService, cfg, apiClient)
	registry.Register(providerService)

	chatService := chat.NewService(cfg)
	registry.Register(chatService)

	server := api.New(cfg, providerService, chatService)
	registry.Register(server)

	return registry, nil
}
