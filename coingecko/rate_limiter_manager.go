package coingecko

import (
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/cryptodash/market-dashboard/config"
)

// IRateLimiterManager provides a way to get a rate limiter for a request URL
type IRateLimiterManager interface {
	GetLimiterForURL(u *url.URL) *rate.Limiter
	SetConfig(cfg config.APIKeyConfig)
}

// RateLimiterManager manages per-key rate limiters using APIKeyConfig
type RateLimiterManager struct {
	mu           sync.RWMutex
	keyToLimiter map[string]*rate.Limiter
	config       config.APIKeyConfig
}

var (
	managerOnce   sync.Once
	globalManager *RateLimiterManager
)

// Defaults in requests per minute, used when config is not provided
const (
	defaultProRPM   = 500
	defaultDemoRPM  = 30
	defaultNoKeyRPM = 30
)

// GetRateLimiterManagerInstance returns the global singleton RateLimiterManager instance
func GetRateLimiterManagerInstance() *RateLimiterManager {
	managerOnce.Do(func() {
		globalManager = &RateLimiterManager{
			keyToLimiter: make(map[string]*rate.Limiter),
			config:       config.APIKeyConfig{},
		}
	})
	return globalManager
}

// SetConfig applies a new APIKeyConfig. Existing limiters are rebuilt so
// config changes take effect for keys already seen.
func (m *RateLimiterManager) SetConfig(newCfg config.APIKeyConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = newCfg

	for mapKey, keyType := range m.limiterKeyTypes() {
		limit := m.limitForTypeLocked(keyType)
		m.keyToLimiter[mapKey] = rate.NewLimiter(limit, m.burstForTypeLocked(keyType, limit))
	}
}

// limiterKeyTypes returns the key type for every limiter currently tracked.
// Caller must hold the lock.
func (m *RateLimiterManager) limiterKeyTypes() map[string]KeyType {
	result := make(map[string]KeyType, len(m.keyToLimiter))
	for mapKey := range m.keyToLimiter {
		result[mapKey] = parseLimiterKeyType(mapKey)
	}
	return result
}

// GetLimiterForURL inspects the URL to determine key and type and returns appropriate limiter
func (m *RateLimiterManager) GetLimiterForURL(u *url.URL) *rate.Limiter {
	if m == nil || u == nil {
		return nil
	}

	query := u.Query()

	// Prefer explicit key params
	if v := query.Get("x_cg_pro_api_key"); v != "" {
		return m.getLimiterForKey(v, ProKey)
	}
	if v := query.Get("x_cg_demo_api_key"); v != "" {
		return m.getLimiterForKey(v, DemoKey)
	}

	// Apply public limiter only for known CoinGecko hosts
	host := u.Hostname()
	if host == "api.coingecko.com" || host == "pro-api.coingecko.com" {
		return m.getLimiterForKey("", NoKey)
	}

	// No limiter for unrelated hosts
	return nil
}

// getLimiterForKey returns a limiter for a given api key and type, creating it if missing
func (m *RateLimiterManager) getLimiterForKey(key string, keyType KeyType) *rate.Limiter {
	mapKey := limiterMapKey(key, keyType)

	m.mu.RLock()
	if lim, ok := m.keyToLimiter[mapKey]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if lim, ok := m.keyToLimiter[mapKey]; ok {
		return lim
	}

	limit := m.limitForTypeLocked(keyType)
	limiter := rate.NewLimiter(limit, m.burstForTypeLocked(keyType, limit))
	m.keyToLimiter[mapKey] = limiter
	return limiter
}

// limitForTypeLocked resolves requests-per-minute for a key type. Caller must hold the lock.
func (m *RateLimiterManager) limitForTypeLocked(keyType KeyType) rate.Limit {
	rpm := 0
	switch keyType {
	case ProKey:
		rpm = m.config.Pro.RateLimitPerMinute
		if rpm <= 0 {
			rpm = defaultProRPM
		}
	case DemoKey:
		rpm = m.config.Demo.RateLimitPerMinute
		if rpm <= 0 {
			rpm = defaultDemoRPM
		}
	default:
		rpm = m.config.NoKey.RateLimitPerMinute
		if rpm <= 0 {
			rpm = defaultNoKeyRPM
		}
	}
	return rate.Limit(float64(rpm) / 60.0)
}

// burstForTypeLocked resolves burst for a key type, defaulting to at least one
// request. Caller must hold the lock.
func (m *RateLimiterManager) burstForTypeLocked(keyType KeyType, limit rate.Limit) int {
	burst := 0
	switch keyType {
	case ProKey:
		burst = m.config.Pro.Burst
	case DemoKey:
		burst = m.config.Demo.Burst
	default:
		burst = m.config.NoKey.Burst
	}
	if burst <= 0 {
		burst = 1
		if limit > 1 {
			burst = int(limit)
		}
	}
	return burst
}

func limiterMapKey(key string, keyType KeyType) string {
	return "type:" + keyTypeString(keyType) + "|key:" + key
}

func keyTypeString(keyType KeyType) string {
	switch keyType {
	case ProKey:
		return "pro"
	case DemoKey:
		return "demo"
	case NoKey:
		return "none"
	default:
		return "unknown"
	}
}

func parseLimiterKeyType(mapKey string) KeyType {
	switch {
	case len(mapKey) > 9 && mapKey[:9] == "type:pro|":
		return ProKey
	case len(mapKey) > 10 && mapKey[:10] == "type:demo|":
		return DemoKey
	default:
		return NoKey
	}
}
