package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "crypto_dashboard_"

// Service constants
const (
	ServiceMarkets = "markets"
	ServiceOHLC    = "ohlc"
	ServiceChat    = "chat"
)

var (
	// Global upstream request counter (all services)
	// Cardinality: ~4 (success, error, rate_limited, timeout)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "upstream_requests_total",
			Help: "Total number of HTTP requests to upstream APIs across all services",
		},
		[]string{"status"},
	)

	// Service-specific upstream request counter
	// Cardinality: ~12 (3 services x 4 statuses)
	ServiceUpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_upstream_requests_total",
			Help: "Total number of HTTP requests to upstream APIs per service",
		},
		[]string{"service", "status"},
	)

	// Data fetch duration per service
	// Cardinality: ~3 (number of services)
	DataFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "data_fetch_duration_seconds",
			Help: "Time taken to complete a data fetch",
		},
		[]string{"service"},
	)

	// Service cache size
	// Cardinality: ~3 (number of services)
	ServiceCacheSizeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "service_cache_size",
			Help: "Number of items in service cache",
		},
		[]string{"service"},
	)

	// Cache lookup counter per service and outcome
	// Cardinality: ~9 (3 services x hit/miss/stale)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_lookups_total",
			Help: "Cache lookups per service and outcome",
		},
		[]string{"service", "outcome"},
	)

	// Retry attempts counter
	// Cardinality: ~3 (number of services)
	ServiceRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordUpstreamRequest records an upstream API request with its status
func (mw *MetricsWriter) RecordUpstreamRequest(status string) {
	UpstreamRequestsTotal.WithLabelValues(status).Inc()
	ServiceUpstreamRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
}

// RecordDataFetch records the duration of a data fetch
func (mw *MetricsWriter) RecordDataFetch(duration time.Duration) {
	DataFetchDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
	log.Printf("Metrics: %s data fetch took %.2fs", mw.serviceName, duration.Seconds())
}

// RecordCacheSize records the number of items in service cache
func (mw *MetricsWriter) RecordCacheSize(size int) {
	ServiceCacheSizeGauge.WithLabelValues(mw.serviceName).Set(float64(size))
}

// RecordCacheLookup records a cache lookup outcome (hit, miss, stale)
func (mw *MetricsWriter) RecordCacheLookup(outcome string) {
	CacheLookupsTotal.WithLabelValues(mw.serviceName, outcome).Inc()
}

// RecordRetryAttempt records a retry attempt
func (mw *MetricsWriter) RecordRetryAttempt() {
	ServiceRetryCounter.WithLabelValues(mw.serviceName).Inc()
}

// Implement coingecko.IHttpStatusHandler for MetricsWriter

// OnRequest records an HTTP request with its status
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordUpstreamRequest(status)
}

// OnRetry records an HTTP retry attempt
func (mw *MetricsWriter) OnRetry() {
	mw.RecordRetryAttempt()
}
