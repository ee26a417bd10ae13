package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cryptodash/market-dashboard/config"
	"github.com/cryptodash/market-dashboard/core"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping services...")
		cancel()
	}()

	registry, err := core.Setup(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to set up services: ", err)
	}

	if err := registry.StartAll(ctx); err != nil {
		log.Fatal("Failed to start services: ", err)
	}
	defer registry.StopAll()

	<-ctx.Done()
}
