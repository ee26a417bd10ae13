package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cryptodash/market-dashboard/cache"
	"github.com/cryptodash/market-dashboard/coingecko"
	"github.com/cryptodash/market-dashboard/config"
	"github.com/cryptodash/market-dashboard/events"
	"github.com/cryptodash/market-dashboard/metrics"
	"github.com/cryptodash/market-dashboard/scheduler"
)

var (
	// ErrDataUnavailable means the market API is unreachable or returned
	// malformed data and no usable fallback exists
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInvalidRange means the requested day range is outside [1, 365]
	ErrInvalidRange = errors.New("day range outside valid bounds")
)

const (
	// MinHistoricalDays and MaxHistoricalDays bound the day-range control
	MinHistoricalDays = 1
	MaxHistoricalDays = 365

	liveCachePrefix = "markets"
)

// validOHLCDays are the day ranges the CoinGecko OHLC endpoint accepts;
// requested ranges are snapped to the closest one
var validOHLCDays = []int{1, 7, 14, 30, 90, 180, 365}

// ClosestValidDays snaps a day count to the closest upstream-supported
// OHLC range
func ClosestValidDays(days int) int {
	closest := validOHLCDays[0]
	for _, valid := range validOHLCDays {
		if abs(days-valid) < abs(days-closest) {
			closest = valid
		}
	}
	return closest
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Service is the crypto data provider: it owns the freshness-window
// cache for live market data and performs uncached historical fetches
type Service struct {
	cache               cache.Cache
	config              *config.Config
	apiClient           coingecko.APIClient
	metricsWriter       *metrics.MetricsWriter
	ohlcMetricsWriter   *metrics.MetricsWriter
	subscriptionManager *events.SubscriptionManager
	refresher           *scheduler.Scheduler
	group               singleflight.Group
}

// NewService creates a new data provider service
func NewService(cache cache.Cache, cfg *config.Config, apiClient coingecko.APIClient) *Service {
	return &Service{
		cache:               cache,
		config:              cfg,
		apiClient:           apiClient,
		metricsWriter:       metrics.NewMetricsWriter(metrics.ServiceMarkets),
		ohlcMetricsWriter:   metrics.NewMetricsWriter(metrics.ServiceOHLC),
		subscriptionManager: events.NewSubscriptionManager(),
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.cache == nil {
		return fmt.Errorf("cache dependency not provided")
	}

	// Optional periodic re-prime of the live cache. Disabled by default:
	// the provider is request-driven.
	if interval := s.config.MarketData.RefreshInterval; interval > 0 {
		s.refresher = scheduler.New(interval, func(taskCtx context.Context) {
			for _, currency := range s.config.MarketData.Currencies {
				if _, err := s.GetLiveData(taskCtx, currency); err != nil {
					log.Printf("Provider: periodic refresh for %s failed: %v", currency, err)
				}
			}
		})
		s.refresher.Start(ctx, true)
	}

	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.refresher != nil {
		s.refresher.Stop()
	}
}

// Healthy checks if the service is operational
func (s *Service) Healthy() bool {
	if s.apiClient != nil {
		return s.apiClient.Healthy()
	}
	return false
}

// SubscribeOnUpdate returns a subscription notified after every
// successful live data refresh
func (s *Service) SubscribeOnUpdate() *events.Subscription {
	return s.subscriptionManager.Subscribe()
}

// GetLiveData returns the live market snapshot collection for a currency.
//
// Data younger than the freshness window is served from cache. On a miss
// the upstream API is fetched, with concurrent callers for the same
// currency awaiting a single in-flight fetch. If the fetch fails and a
// last known-good snapshot exists it is returned tagged stale; otherwise
// the call fails with ErrDataUnavailable.
func (s *Service) GetLiveData(ctx context.Context, currency string) (LiveResult, error) {
	currency = strings.ToLower(currency)
	key := liveCacheKey(currency)

	if entry, ok := s.cachedEntry(key); ok {
		s.metricsWriter.RecordCacheLookup("hit")
		return LiveResult{Snapshots: entry.Snapshots, FetchedAt: entry.FetchedAt, Freshness: FreshnessFresh}, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Another caller may have refreshed the entry while we waited
		// for the flight slot
		if entry, ok := s.cachedEntry(key); ok {
			s.metricsWriter.RecordCacheLookup("hit")
			return LiveResult{Snapshots: entry.Snapshots, FetchedAt: entry.FetchedAt, Freshness: FreshnessFresh}, nil
		}

		s.metricsWriter.RecordCacheLookup("miss")
		return s.refreshLiveData(ctx, currency)
	})
	if err != nil {
		return LiveResult{}, err
	}

	return result.(LiveResult), nil
}

// refreshLiveData fetches from upstream and replaces both cache entries.
// On failure it falls back to the durable last-known-good entry.
func (s *Service) refreshLiveData(ctx context.Context, currency string) (LiveResult, error) {
	key := liveCacheKey(currency)
	lastKey := lastGoodCacheKey(currency)

	fetchStart := time.Now()
	snapshots, fetchErr := s.fetchSnapshots(ctx, currency)
	s.metricsWriter.RecordDataFetch(time.Since(fetchStart))

	if fetchErr != nil {
		log.Printf("Provider: live fetch for %s failed: %v", currency, fetchErr)

		if entry, ok := s.lastGoodEntry(lastKey); ok {
			s.metricsWriter.RecordCacheLookup("stale")
			return LiveResult{
				Snapshots:   entry.Snapshots,
				FetchedAt:   entry.FetchedAt,
				Freshness:   FreshnessStale,
				StaleReason: fetchErr.Error(),
			}, nil
		}

		return LiveResult{}, fmt.Errorf("fetching live data for %s: %v: %w", currency, fetchErr, ErrDataUnavailable)
	}

	// Freshness window counts from fetch completion, so concurrent
	// callers inside the window observe the same snapshot
	entry := liveEntry{Snapshots: snapshots, FetchedAt: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return LiveResult{}, fmt.Errorf("marshaling live entry: %w", err)
	}

	if err := s.cache.SetOne(key, data, s.config.MarketData.FreshnessWindow); err != nil {
		log.Printf("Provider: failed to cache live data for %s: %v", currency, err)
	}
	if err := s.cache.SetOne(lastKey, data, cache.NoExpiration); err != nil {
		log.Printf("Provider: failed to cache last-good data for %s: %v", currency, err)
	}

	s.metricsWriter.RecordCacheSize(len(snapshots))
	s.subscriptionManager.Emit(ctx)

	log.Printf("Provider: refreshed live data for %s with %d assets", currency, len(snapshots))
	return LiveResult{Snapshots: entry.Snapshots, FetchedAt: entry.FetchedAt, Freshness: FreshnessFresh}, nil
}

// fetchSnapshots performs the upstream markets call and parses the response
func (s *Service) fetchSnapshots(ctx context.Context, currency string) ([]MarketSnapshot, error) {
	body, err := s.apiClient.FetchMarkets(ctx, currency, s.config.MarketData.TopAssetsLimit)
	if err != nil {
		return nil, err
	}

	var snapshots []MarketSnapshot
	if err := json.Unmarshal(body, &snapshots); err != nil {
		return nil, fmt.Errorf("malformed markets response: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("empty markets response")
	}

	return snapshots, nil
}

// GetHistoricalData fetches an OHLC series for one asset. The requested
// day range must be within [1, 365]; it is snapped to the closest range
// the upstream endpoint supports. Historical data is never cached.
func (s *Service) GetHistoricalData(ctx context.Context, assetID, currency string, days int) (HistoricalSeries, error) {
	if days < MinHistoricalDays || days > MaxHistoricalDays {
		return nil, fmt.Errorf("days %d not in [%d, %d]: %w", days, MinHistoricalDays, MaxHistoricalDays, ErrInvalidRange)
	}

	currency = strings.ToLower(currency)
	snappedDays := ClosestValidDays(days)

	fetchStart := time.Now()
	body, err := s.apiClient.FetchOHLC(ctx, assetID, currency, snappedDays)
	s.ohlcMetricsWriter.RecordDataFetch(time.Since(fetchStart))

	if err != nil {
		return nil, fmt.Errorf("fetching OHLC for %s: %v: %w", assetID, err, ErrDataUnavailable)
	}

	var series HistoricalSeries
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("malformed OHLC response for %s: %v: %w", assetID, err, ErrDataUnavailable)
	}

	log.Printf("Provider: fetched OHLC for %s: %d candles over %d days", assetID, len(series), snappedDays)
	return series, nil
}

// cachedEntry reads and decodes a live cache entry
func (s *Service) cachedEntry(key string) (liveEntry, bool) {
	data, found := s.cache.GetOne(key)
	if !found {
		return liveEntry{}, false
	}

	var entry liveEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("Provider: dropping corrupt cache entry %s: %v", key, err)
		s.cache.Delete([]string{key})
		return liveEntry{}, false
	}

	return entry, true
}

// lastGoodEntry reads the durable fallback entry
func (s *Service) lastGoodEntry(key string) (liveEntry, bool) {
	return s.cachedEntry(key)
}

func liveCacheKey(currency string) string {
	return fmt.Sprintf("%s:%s", liveCachePrefix, currency)
}

func lastGoodCacheKey(currency string) string {
	return fmt.Sprintf("%s:%s:last", liveCachePrefix, currency)
}
