package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cryptodash/market-dashboard/provider"
)

const defaultOHLCDays = 30

// handleOHLC serves the candlestick series for one asset
func (s *Server) handleOHLC(w http.ResponseWriter, r *http.Request) {
	coinID := mux.Vars(r)["id"]
	if coinID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "missing coin ID in path")
		return
	}

	currency, ok := s.currencyParam(r)
	if !ok {
		s.sendJSONError(w, http.StatusBadRequest, "unsupported currency: "+currency)
		return
	}

	days := defaultOHLCDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid days parameter %q, must be a number from %d to %d",
					daysParam, provider.MinHistoricalDays, provider.MaxHistoricalDays))
			return
		}
		days = parsed
	}

	series, err := s.dataProvider.GetHistoricalData(r.Context(), coinID, currency, days)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrInvalidRange):
			s.sendJSONError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, provider.ErrDataUnavailable):
			s.sendJSONError(w, http.StatusServiceUnavailable, "historical data unavailable: "+err.Error())
		default:
			s.sendJSONError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.sendJSONResponse(w, ohlcResponse{
		ID:       coinID,
		Currency: currency,
		Days:     days,
		Candles:  series,
	})
}
