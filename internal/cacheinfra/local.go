package cacheinfra

import (
	"context"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-content-cache/cache"
)

// ConfigError represents a configuration validation error raised while
// constructing a cache component.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// localService wraps a sturdyc client providing read-through caching with
// request coalescing. It fronts the generation-result path, where many
// concurrent requests for the same (topic, keyword, type, platform) must
// collapse into a single provider call rather than a stampede.
//
// Version compatibility note: this assumes the sturdyc v1.x API.
type localService struct {
	client *sturdyc.Client[any]
}

var _ cache.CacheService = (*localService)(nil)

// NewLocalService creates the in-process read-through service. The sharded
// client parameters come straight from the local cache configuration; the
// TTL applies uniformly to every entry, which fits a single-namespace cache.
func NewLocalService(cfg cache.LocalConfig) (cache.CacheService, error) {
	if cfg.Capacity <= 0 {
		return nil, &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if cfg.NumShards <= 0 {
		return nil, &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if cfg.TTL <= 0 {
		return nil, &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if cfg.EvictionPercentage < 1 || cfg.EvictionPercentage > 100 {
		return nil, &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
	)

	return &localService{client: client}, nil
}

// GetOrFetch returns the cached value for key, or executes fetchFn exactly
// once per expiry window to produce it. Concurrent callers for the same key
// share one in-flight fetch.
func (s *localService) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	return s.client.GetOrFetch(ctx, key, fetchFn)
}

// Delete removes a single entry so the next GetOrFetch fetches fresh data.
func (s *localService) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}
