package coingecko

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cryptodash/market-dashboard/config"
)

// KeyType defines the API key type
type KeyType int

const (
	// NoKey means no API key is available
	NoKey KeyType = iota
	// ProKey means using a Pro API key
	ProKey
	// DemoKey means using a demo API key
	DemoKey
)

// APIKey represents an API key with its type
type APIKey struct {
	Key  string
	Type KeyType
}

// IAPIKeyManager defines the interface for API key management
type IAPIKeyManager interface {
	// GetAvailableKeys returns a list of available API keys:
	// Pro keys not in backoff first, then Demo keys not in backoff,
	// then a "no key" entry so the public API is always the last resort
	GetAvailableKeys() []APIKey

	// MarkKeyAsFailed marks a key as failed, which will put it in backoff
	MarkKeyAsFailed(key string)
}

// APIKeyManager implements IAPIKeyManager for CoinGecko
type APIKeyManager struct {
	apiTokens   *config.APITokens
	lastFailed  map[string]time.Time
	backoffTime time.Duration
	mu          sync.RWMutex
}

// NewAPIKeyManager creates a new API key manager
func NewAPIKeyManager(apiTokens *config.APITokens) *APIKeyManager {
	return &APIKeyManager{
		apiTokens:   apiTokens,
		lastFailed:  make(map[string]time.Time),
		backoffTime: 5 * time.Minute,
	}
}

// isKeyInBackoff checks if a key is currently in backoff period
func (m *APIKeyManager) isKeyInBackoff(key string) bool {
	if key == "" {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if lastFailTime, exists := m.lastFailed[key]; exists {
		return time.Since(lastFailTime) < m.backoffTime
	}

	return false
}

// GetAvailableKeys returns a list of available API keys
func (m *APIKeyManager) GetAvailableKeys() []APIKey {
	availableKeys := []APIKey{}

	if m.apiTokens != nil {
		for _, key := range m.apiTokens.Tokens {
			if !m.isKeyInBackoff(key) {
				availableKeys = append(availableKeys, APIKey{Key: key, Type: ProKey})
			}
		}
		for _, key := range m.apiTokens.DemoTokens {
			if !m.isKeyInBackoff(key) {
				availableKeys = append(availableKeys, APIKey{Key: key, Type: DemoKey})
			}
		}
	}

	// Always add the "no key" option at the end of the list
	availableKeys = append(availableKeys, APIKey{Key: "", Type: NoKey})

	return availableKeys
}

// MarkKeyAsFailed marks a key as non-working for some time
func (m *APIKeyManager) MarkKeyAsFailed(key string) {
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFailed[key] = time.Now()
	log.Printf("APIKeyManager: Marked key as failed for %v", m.backoffTime)
}

// KeyExecutor attempts an operation with the given API key.
// It returns the result, whether the attempt succeeded, and an error.
type KeyExecutor func(apiKey APIKey) (interface{}, bool, error)

// TryWithKeys runs executor against each key in order until one succeeds.
// Failed keys are reported through onFailed so they can be put in backoff.
func TryWithKeys(keys []APIKey, logPrefix string, executor KeyExecutor, onFailed func(APIKey)) (interface{}, error) {
	var lastErr error

	for _, key := range keys {
		result, ok, err := executor(key)
		if ok {
			return result, nil
		}

		lastErr = err
		log.Printf("%s: Attempt with key type %v failed: %v", logPrefix, key.Type, err)
		if onFailed != nil {
			onFailed(key)
		}
	}

	return nil, fmt.Errorf("%s: all API keys exhausted, last error: %w", logPrefix, lastErr)
}

// CreateFailCallback returns an onFailed callback that marks keys as failed
func CreateFailCallback(manager IAPIKeyManager) func(APIKey) {
	return func(key APIKey) {
		if key.Key != "" {
			manager.MarkKeyAsFailed(key.Key)
		}
	}
}
