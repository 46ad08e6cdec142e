package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in a store or its entry
// has expired. Callers treat it as a cache miss, never as a failure.
var ErrNotFound = errors.New("cache: key not found")

// ErrInvalidResultType is returned by GetOrFetch when a cached value cannot
// be asserted to the requested type.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// KeySerializer builds a deterministic serialization of a namespace plus
// arbitrary parameter values. It is responsible for producing stable output
// across calls and processes.
type KeySerializer interface {
	SerializeKey(namespace string, params ...any) string
}

// Store abstracts a key/value cache with per-entry TTL and pattern clearing.
// It is implemented by the degrading gateway as well as by the in-process
// fallback store. Implementations must never let a backend failure escape a
// read as anything other than ErrNotFound.
type Store interface {
	// Get retrieves the value for key. Returns ErrNotFound if the key is
	// absent, expired, or the backing store is unavailable.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for the given TTL. A non-positive TTL uses
	// the store's default expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry whose key contains pattern as a substring.
	// Substring matching is the minimal guaranteed behavior shared by all
	// backends; richer glob semantics are not part of the contract.
	Clear(ctx context.Context, pattern string) error
}

// Codec serializes cache payloads to and from bytes so the networked and
// in-process paths store the same representation.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// FetchFn is the function signature the read-through service expects when
// fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes read-through caching for values that are expensive to
// produce, such as generation-provider responses. It coalesces concurrent
// fetches for the same key.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
}

// GetOrFetch is a type-safe wrapper providing generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
