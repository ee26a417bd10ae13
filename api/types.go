package api

import (
	"strings"
	"time"

	"github.com/cryptodash/market-dashboard/format"
	"github.com/cryptodash/market-dashboard/provider"
)

// FormattedRow is a display-only projection of a market snapshot:
// currency symbol applied, thousands separators inserted. It never
// round-trips back into a snapshot.
type FormattedRow struct {
	Rank              int    `json:"rank"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Image             string `json:"image"`
	Price             string `json:"price"`
	MarketCap         string `json:"market_cap"`
	Volume            string `json:"volume"`
	CirculatingSupply string `json:"circulating_supply"`
	ATH               string `json:"ath"`
	ATHChange         string `json:"ath_change"`
	ATHDate           string `json:"ath_date"`
	Change24h         string `json:"change_24h"`
}

// marketsResponse is the payload of GET /api/v1/markets and of websocket
// pushes. Warning carries the stale reason when upstream is failing.
type marketsResponse struct {
	Currency  string                    `json:"currency"`
	Freshness provider.Freshness        `json:"freshness"`
	FetchedAt time.Time                 `json:"fetched_at"`
	Warning   string                    `json:"warning,omitempty"`
	Rows      []FormattedRow            `json:"rows"`
	Snapshots []provider.MarketSnapshot `json:"snapshots"`
}

// ohlcResponse is the payload of GET /api/v1/coins/{id}/ohlc
type ohlcResponse struct {
	ID       string                    `json:"id"`
	Currency string                    `json:"currency"`
	Days     int                       `json:"days"`
	Candles  provider.HistoricalSeries `json:"candles"`
}

// chatRequest is the body of POST /api/v1/chat
type chatRequest struct {
	Question string `json:"question"`
	Currency string `json:"currency"`
}

// chatResponse is the payload of POST /api/v1/chat
type chatResponse struct {
	Reply string `json:"reply"`
}

// formatRows converts raw snapshots into display rows. Formatting
// failures degrade to a placeholder per field, never to an error.
func formatRows(snapshots []provider.MarketSnapshot, currency string) []FormattedRow {
	rows := make([]FormattedRow, 0, len(snapshots))
	for _, snap := range snapshots {
		rows = append(rows, FormattedRow{
			Rank:              snap.MarketCapRank,
			Name:              snap.Name,
			Symbol:            upperSymbol(snap.Symbol),
			Image:             snap.Image,
			Price:             format.PriceOrPlaceholder(snap.CurrentPrice, currency),
			MarketCap:         format.LargeNumberOrPlaceholder(snap.MarketCap),
			Volume:            format.LargeNumberOrPlaceholder(snap.TotalVolume),
			CirculatingSupply: format.LargeNumberOrPlaceholder(snap.CirculatingSupply),
			ATH:               format.PriceOrPlaceholder(snap.ATH, currency),
			ATHChange:         format.PercentOrPlaceholder(snap.ATHChangePercentage),
			ATHDate:           snap.ATHDate.Format("2006-01-02"),
			Change24h:         format.PercentOrPlaceholder(snap.PriceChangePercentage24h),
		})
	}
	return rows
}

func upperSymbol(symbol string) string {
	return strings.ToUpper(symbol)
}
