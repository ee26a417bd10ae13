package cache

import (
	"context"
	"fmt"
	"time"
)

// Service implements Cache interface backed by an in-memory go-cache
type Service struct {
	goCache *GoCache
	config  Config
}

// NewService creates a new cache service with the given configuration
func NewService(config Config) *Service {
	return &Service{
		goCache: NewGoCache(config.DefaultExpiration, config.CleanupInterval),
		config:  config,
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.goCache == nil {
		return fmt.Errorf("cache service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.goCache != nil {
		s.goCache.Clear()
	}
}

// Get retrieves data by keys from the local cache
func (s *Service) Get(keys []string) (map[string][]byte, []string, error) {
	result := s.goCache.Get(keys)
	return result.Found, result.MissingKeys, nil
}

// Set stores data in cache with the specified TTL
func (s *Service) Set(data map[string][]byte, ttl time.Duration) error {
	s.goCache.Set(data, ttl)
	return nil
}

// GetOne retrieves a single entry by key
func (s *Service) GetOne(key string) ([]byte, bool) {
	return s.goCache.GetOne(key)
}

// SetOne stores a single entry with the specified TTL
func (s *Service) SetOne(key string, data []byte, ttl time.Duration) error {
	s.goCache.SetOne(key, data, ttl)
	return nil
}

// Delete removes items from cache by keys
func (s *Service) Delete(keys []string) {
	s.goCache.Delete(keys)
}

// Clear removes all items from cache
func (s *Service) Clear() {
	s.goCache.Clear()
}

// Stats returns statistics about the cache service
func (s *Service) Stats() ServiceStats {
	return ServiceStats{
		Items: s.goCache.ItemCount(),
	}
}

// ServiceStats represents cache service statistics
type ServiceStats struct {
	Items int // Number of items in cache
}
