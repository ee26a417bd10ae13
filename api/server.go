package api

//go:generate mockgen -destination=mocks/services.go -package=mocks . MarketDataProvider,ChatService

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cryptodash/market-dashboard/config"
	"github.com/cryptodash/market-dashboard/events"
	"github.com/cryptodash/market-dashboard/provider"
)

// MarketDataProvider is the provider surface the API layer depends on
type MarketDataProvider interface {
	GetLiveData(ctx context.Context, currency string) (provider.LiveResult, error)
	GetHistoricalData(ctx context.Context, assetID, currency string, days int) (provider.HistoricalSeries, error)
	SubscribeOnUpdate() *events.Subscription
	Healthy() bool
}

// ChatService is the chat surface the API layer depends on
type ChatService interface {
	Ask(ctx context.Context, question string, snapshots []provider.MarketSnapshot, currency string) (string, error)
}

// Server exposes the dashboard HTTP API
type Server struct {
	port         string
	config       *config.Config
	dataProvider MarketDataProvider
	chatService  ChatService
	server       *http.Server
}

// New creates a new API server
func New(cfg *config.Config, dataProvider MarketDataProvider, chatService ChatService) *Server {
	return &Server{
		port:         cfg.Port,
		config:       cfg,
		dataProvider: dataProvider,
		chatService:  chatService,
	}
}

// Start implements core.Interface
func (s *Server) Start(ctx context.Context) error {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/markets", s.handleMarkets).Methods("GET")
	router.HandleFunc("/api/v1/coins/{id}/ohlc", s.handleOHLC).Methods("GET")
	router.HandleFunc("/api/v1/currencies", s.handleCurrencies).Methods("GET")
	router.HandleFunc("/api/v1/chat", s.handleChat).Methods("POST")
	router.HandleFunc("/api/v1/ws", s.handleWebsocket)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: router,
	}

	log.Printf("Server starting at http://localhost:%s", s.port)
	log.Println("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}
