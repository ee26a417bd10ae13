package api

import (
	"errors"
	"net/http"

	"github.com/cryptodash/market-dashboard/provider"
)

// handleMarkets serves the live market table: formatted rows plus a
// freshness indicator. Stale data is served with a warning rather than
// failing the whole table.
func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	currency, ok := s.currencyParam(r)
	if !ok {
		s.sendJSONError(w, http.StatusBadRequest, "unsupported currency: "+currency)
		return
	}

	result, err := s.dataProvider.GetLiveData(r.Context(), currency)
	if err != nil {
		if errors.Is(err, provider.ErrDataUnavailable) {
			s.sendJSONError(w, http.StatusServiceUnavailable, "market data unavailable: "+err.Error())
			return
		}
		s.sendJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.sendJSONResponse(w, marketsResponse{
		Currency:  currency,
		Freshness: result.Freshness,
		FetchedAt: result.FetchedAt,
		Warning:   result.StaleReason,
		Rows:      formatRows(result.Snapshots, currency),
		Snapshots: result.Snapshots,
	})
}

// handleCurrencies serves the currency selector options
func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, map[string][]string{
		"currencies": s.config.MarketData.Currencies,
	})
}
