package api

import (
	"net/http"
)

// handleHealth responds with 200 OK to indicate the service is running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"market_data": "unknown",
	}

	if s.dataProvider != nil && s.dataProvider.Healthy() {
		services["market_data"] = "up"
	}

	s.sendJSONResponse(w, map[string]interface{}{
		"status":   "ok",
		"services": services,
	})
}
