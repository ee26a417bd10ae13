package provider

import (
	"encoding/json"
	"fmt"
	"time"
)

// MarketSnapshot is one row of live market data for a tracked asset,
// in the currency it was requested with. Immutable once fetched.
type MarketSnapshot struct {
	ID                       string    `json:"id"`
	Symbol                   string    `json:"symbol"`
	Name                     string    `json:"name"`
	Image                    string    `json:"image"`
	MarketCapRank            int       `json:"market_cap_rank"`
	CurrentPrice             float64   `json:"current_price"`
	MarketCap                float64   `json:"market_cap"`
	TotalVolume              float64   `json:"total_volume"`
	CirculatingSupply        float64   `json:"circulating_supply"`
	ATH                      float64   `json:"ath"`
	ATHDate                  time.Time `json:"ath_date"`
	ATHChangePercentage      float64   `json:"ath_change_percentage"`
	PriceChangePercentage24h float64   `json:"price_change_percentage_24h"`
}

// Candle is one OHLC interval of a historical series
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// UnmarshalJSON decodes the CoinGecko OHLC row format
// [timestamp_ms, open, high, low, close]
func (c *Candle) UnmarshalJSON(data []byte) error {
	var row []float64
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	if len(row) != 5 {
		return fmt.Errorf("expected 5 OHLC fields, got %d", len(row))
	}

	c.Timestamp = time.UnixMilli(int64(row[0])).UTC()
	c.Open = row[1]
	c.High = row[2]
	c.Low = row[3]
	c.Close = row[4]
	return nil
}

// HistoricalSeries is an ordered sequence of OHLC candles for one asset
type HistoricalSeries []Candle

// Freshness tags how current a returned live snapshot is
type Freshness int

const (
	// FreshnessFresh means the data is within the freshness window
	FreshnessFresh Freshness = iota
	// FreshnessStale means the upstream fetch failed and the last
	// known-good snapshot was returned instead
	FreshnessStale
)

// String returns the wire representation of the freshness tag
func (f Freshness) String() string {
	if f == FreshnessStale {
		return "stale"
	}
	return "fresh"
}

// MarshalJSON encodes Freshness as its string form
func (f Freshness) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// LiveResult is the tagged result of a live data request: the snapshot
// collection plus how fresh it is and, when stale, why
type LiveResult struct {
	Snapshots   []MarketSnapshot `json:"snapshots"`
	FetchedAt   time.Time        `json:"fetched_at"`
	Freshness   Freshness        `json:"freshness"`
	StaleReason string           `json:"stale_reason,omitempty"`
}

// liveEntry is the cache representation of one fetched batch.
// Entries are replaced wholesale on refresh, never mutated.
type liveEntry struct {
	Snapshots []MarketSnapshot `json:"snapshots"`
	FetchedAt time.Time        `json:"fetched_at"`
}
