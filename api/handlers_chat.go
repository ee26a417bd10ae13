package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/cryptodash/market-dashboard/chat"
	"github.com/cryptodash/market-dashboard/provider"
)

// handleChat forwards a user question plus the latest market snapshot to
// the chat service. Chat failures are scoped to the chat panel: they
// return an error payload here and never affect other endpoints.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		s.sendJSONError(w, http.StatusBadRequest, "question is required")
		return
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = s.config.MarketData.Currencies[0]
	}
	if !s.config.MarketData.SupportsCurrency(currency) {
		s.sendJSONError(w, http.StatusBadRequest, "unsupported currency: "+currency)
		return
	}

	// Chat context uses whatever snapshot is available; a failing market
	// API degrades the context, not the chat panel
	var snapshots []provider.MarketSnapshot
	if result, err := s.dataProvider.GetLiveData(r.Context(), currency); err == nil {
		snapshots = result.Snapshots
	} else {
		log.Printf("Chat: proceeding without market context: %v", err)
	}

	reply, err := s.chatService.Ask(r.Context(), req.Question, snapshots, currency)
	if err != nil {
		if errors.Is(err, chat.ErrChatUnavailable) {
			s.sendJSONError(w, http.StatusBadGateway, "chat unavailable: "+err.Error())
			return
		}
		s.sendJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.sendJSONResponse(w, chatResponse{Reply: reply})
}
