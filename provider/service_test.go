package provider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptodash/market-dashboard/cache"
	"github.com/cryptodash/market-dashboard/config"
)

// fakeAPIClient returns canned payloads and counts upstream calls
type fakeAPIClient struct {
	mu           sync.Mutex
	marketsCalls int32
	ohlcCalls    int32
	marketsBody  []byte
	marketsErr   error
	ohlcBody     []byte
	ohlcErr      error
	fetchDelay   time.Duration
	lastOHLCDays int
}

func (f *fakeAPIClient) FetchMarkets(ctx context.Context, currency string, limit int) ([]byte, error) {
	atomic.AddInt32(&f.marketsCalls, 1)
	if f.fetchDelay > 0 {
		time.Sleep(f.fetchDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.marketsBody, f.marketsErr
}

func (f *fakeAPIClient) FetchOHLC(ctx context.Context, coinID, currency string, days int) ([]byte, error) {
	atomic.AddInt32(&f.ohlcCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOHLCDays = days
	return f.ohlcBody, f.ohlcErr
}

func (f *fakeAPIClient) Healthy() bool {
	return true
}

func (f *fakeAPIClient) setMarkets(body []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marketsBody = body
	f.marketsErr = err
}

var testMarketsJSON = []byte(`[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1,
	 "current_price":68732.0,"market_cap":1350000000000,"total_volume":32000000000,
	 "circulating_supply":19700000,"ath":73750.0,"ath_date":"2024-03-14T07:10:36.635Z",
	 "ath_change_percentage":-6.8,"price_change_percentage_24h":-3.456},
	{"id":"ethereum","symbol":"eth","name":"Ethereum","market_cap_rank":2,
	 "current_price":3200.5,"market_cap":385000000000,"total_volume":15000000000,
	 "circulating_supply":120000000,"ath":4878.26,"ath_date":"2021-11-10T14:24:19.604Z",
	 "ath_change_percentage":-34.4,"price_change_percentage_24h":2.1}
]`)

var testOHLCJSON = []byte(`[
	[1700000000000, 100.0, 110.0, 95.0, 105.0],
	[1700003600000, 105.0, 112.0, 101.0, 108.0]
]`)

func setupTestService(t *testing.T, client *fakeAPIClient, window time.Duration) *Service {
	t.Helper()

	cfg := &config.Config{
		Cache:      cache.DefaultCacheConfig(),
		MarketData: config.DefaultMarketDataConfig(),
	}
	cfg.MarketData.FreshnessWindow = window

	cacheService := cache.NewService(cfg.Cache)
	require.NoError(t, cacheService.Start(context.Background()))

	service := NewService(cacheService, cfg, client)
	require.NoError(t, service.Start(context.Background()))
	t.Cleanup(service.Stop)

	return service
}

func TestGetLiveData_FetchesAndParses(t *testing.T) {
	client := &fakeAPIClient{marketsBody: testMarketsJSON}
	service := setupTestService(t, client, time.Minute)

	result, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	assert.Equal(t, FreshnessFresh, result.Freshness)
	assert.Empty(t, result.StaleReason)
	assert.False(t, result.FetchedAt.IsZero())
	require.Len(t, result.Snapshots, 2)
	assert.Equal(t, "bitcoin", result.Snapshots[0].ID)
	assert.Equal(t, 68732.0, result.Snapshots[0].CurrentPrice)
	assert.Equal(t, "ethereum", result.Snapshots[1].ID)
}

func TestGetLiveData_ServedFromCacheWithinWindow(t *testing.T) {
	client := &fakeAPIClient{marketsBody: testMarketsJSON}
	service := setupTestService(t, client, time.Minute)

	first, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	second, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	// The second call must not hit upstream and must observe the same batch
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.marketsCalls))
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	assert.Equal(t, FreshnessFresh, second.Freshness)
}

func TestGetLiveData_RefreshesAfterWindowExpires(t *testing.T) {
	client := &fakeAPIClient{marketsBody: testMarketsJSON}
	service := setupTestService(t, client, 30*time.Millisecond)

	first, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	second, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&client.marketsCalls))
	assert.True(t, second.FetchedAt.After(first.FetchedAt))
}

func TestGetLiveData_CurrenciesCachedIndependently(t *testing.T) {
	client := &fakeAPIClient{marketsBody: testMarketsJSON}
	service := setupTestService(t, client, time.Minute)

	_, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	_, err = service.GetLiveData(context.Background(), "eur")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&client.marketsCalls))
}

func TestGetLiveData_StaleFallbackOnFetchFailure(t *testing.T) {
	client := &fakeAPIClient{marketsBody: testMarketsJSON}
	service := setupTestService(t, client, 30*time.Millisecond)

	fresh, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	// Let the windowed entry expire, then break upstream
	time.Sleep(60 * time.Millisecond)
	client.setMarkets(nil, fmt.Errorf("connection refused"))

	stale, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	assert.Equal(t, FreshnessStale, stale.Freshness)
	assert.Contains(t, stale.StaleReason, "connection refused")
	assert.Equal(t, fresh.FetchedAt, stale.FetchedAt)
	assert.Equal(t, fresh.Snapshots, stale.Snapshots)
}

func TestGetLiveData_UnavailableWithoutFallback(t *testing.T) {
	client := &fakeAPIClient{marketsErr: fmt.Errorf("connection refused")}
	service := setupTestService(t, client, time.Minute)

	_, err := service.GetLiveData(context.Background(), "usd")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestGetLiveData_MalformedResponse(t *testing.T) {
	client := &fakeAPIClient{marketsBody: []byte(`{"not":"a list"}`)}
	service := setupTestService(t, client, time.Minute)

	_, err := service.GetLiveData(context.Background(), "usd")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestGetLiveData_ConcurrentCallersShareOneFetch(t *testing.T) {
	client := &fakeAPIClient{marketsBody: testMarketsJSON, fetchDelay: 50 * time.Millisecond}
	service := setupTestService(t, client, time.Minute)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]LiveResult, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = service.GetLiveData(context.Background(), "usd")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].FetchedAt, results[i].FetchedAt)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.marketsCalls))
}

func TestGetHistoricalData_RangeValidation(t *testing.T) {
	client := &fakeAPIClient{ohlcBody: testOHLCJSON}
	service := setupTestService(t, client, time.Minute)

	for _, days := range []int{0, -5, 366, 1000} {
		_, err := service.GetHistoricalData(context.Background(), "bitcoin", "usd", days)
		assert.ErrorIs(t, err, ErrInvalidRange, "days=%d", days)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.ohlcCalls))

	for _, days := range []int{1, 365} {
		_, err := service.GetHistoricalData(context.Background(), "bitcoin", "usd", days)
		assert.NoError(t, err, "days=%d", days)
	}
}

func TestGetHistoricalData_ParsesCandles(t *testing.T) {
	client := &fakeAPIClient{ohlcBody: testOHLCJSON}
	service := setupTestService(t, client, time.Minute)

	series, err := service.GetHistoricalData(context.Background(), "bitcoin", "usd", 30)
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), series[0].Timestamp)
	assert.Equal(t, 100.0, series[0].Open)
	assert.Equal(t, 110.0, series[0].High)
	assert.Equal(t, 95.0, series[0].Low)
	assert.Equal(t, 105.0, series[0].Close)
}

func TestGetHistoricalData_SnapsToSupportedRange(t *testing.T) {
	client := &fakeAPIClient{ohlcBody: testOHLCJSON}
	service := setupTestService(t, client, time.Minute)

	_, err := service.GetHistoricalData(context.Background(), "bitcoin", "usd", 40)
	require.NoError(t, err)
	assert.Equal(t, 30, client.lastOHLCDays)

	_, err = service.GetHistoricalData(context.Background(), "bitcoin", "usd", 200)
	require.NoError(t, err)
	assert.Equal(t, 180, client.lastOHLCDays)
}

func TestGetHistoricalData_UpstreamFailure(t *testing.T) {
	client := &fakeAPIClient{ohlcErr: fmt.Errorf("503 service unavailable")}
	service := setupTestService(t, client, time.Minute)

	_, err := service.GetHistoricalData(context.Background(), "bitcoin", "usd", 30)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestClosestValidDays(t *testing.T) {
	tests := []struct {
		days     int
		expected int
	}{
		{1, 1},
		{3, 1},
		{5, 7},
		{10, 7},
		{11, 14},
		{20, 14},
		{30, 30},
		{59, 30},
		{61, 90},
		{130, 90},
		{140, 180},
		{280, 365},
		{365, 365},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClosestValidDays(tt.days), "days=%d", tt.days)
	}
}

func TestSubscribeOnUpdate_NotifiedAfterRefresh(t *testing.T) {
	client := &fakeAPIClient{marketsBody: testMarketsJSON}
	service := setupTestService(t, client, time.Minute)

	sub := service.SubscribeOnUpdate()
	defer sub.Cancel()

	_, err := service.GetLiveData(context.Background(), "usd")
	require.NoError(t, err)

	select {
	case <-sub.Chan():
	case <-time.After(time.Second):
		t.Fatal("expected update notification after refresh")
	}
}
