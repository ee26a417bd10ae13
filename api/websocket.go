package api

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard UI is served from arbitrary dev hosts
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket pushes a freshly formatted market table to the client
// on every provider refresh event for the requested currency
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	currency, ok := s.currencyParam(r)
	if !ok {
		s.sendJSONError(w, http.StatusBadRequest, "unsupported currency: "+currency)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := s.dataProvider.SubscribeOnUpdate()
	defer sub.Cancel()

	// Reader goroutine: detect client disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Send the current table immediately so the client doesn't wait for
	// the first refresh
	if err := s.pushMarkets(conn, r, currency); err != nil {
		log.Printf("Websocket: initial push failed: %v", err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case _, open := <-sub.Chan():
			if !open {
				return
			}
			if err := s.pushMarkets(conn, r, currency); err != nil {
				log.Printf("Websocket: push failed: %v", err)
				return
			}
		}
	}
}

// pushMarkets writes the current formatted table to the connection
func (s *Server) pushMarkets(conn *websocket.Conn, r *http.Request, currency string) error {
	result, err := s.dataProvider.GetLiveData(r.Context(), currency)
	if err != nil {
		return err
	}

	return conn.WriteJSON(marketsResponse{
		Currency:  currency,
		Freshness: result.Freshness,
		FetchedAt: result.FetchedAt,
		Warning:   result.StaleReason,
		Rows:      formatRows(result.Snapshots, currency),
		Snapshots: result.Snapshots,
	})
}
