package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-content-cache/cache"
)

// RemoteBackend is the narrow surface the gateway needs from a networked
// cache service. Keeping it small lets tests substitute an erroring fake
// without a real server.
type RemoteBackend interface {
	// Ping verifies connectivity to the backend.
	Ping(ctx context.Context) error

	// Get returns the value for key, or cache.ErrNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// DeleteMatching removes every key containing pattern as a substring.
	DeleteMatching(ctx context.Context, pattern string) error

	// Close releases the underlying connection.
	Close() error
}

// redisBackend implements RemoteBackend over a redis client. All keys are
// namespaced under a prefix so multiple applications can share one server.
type redisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend creates a redis-backed RemoteBackend. The client is lazy;
// no connection happens until the gateway's Connect ping.
func NewRedisBackend(cfg cache.RedisConfig) RemoteBackend {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "contentcache:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisBackend{client: client, prefix: prefix}
}

func (b *redisBackend) key(k string) string {
	return b.prefix + k
}

func (b *redisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.client.Get(ctx, b.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, b.key(key), value, ttl).Err()
}

func (b *redisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, b.key(key)).Err()
}

// DeleteMatching scans for prefixed keys containing pattern and deletes them
// in batches. SCAN MATCH gives glob semantics; wrapping the pattern in
// wildcards reduces it to the substring contract the Store interface
// promises.
func (b *redisBackend) DeleteMatching(ctx context.Context, pattern string) error {
	match := b.prefix + "*" + pattern + "*"

	iter := b.client.Scan(ctx, 0, match, 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := b.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(batch) > 0 {
		return b.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}
