package contentcache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-content-cache/cache"
	"github.com/goliatone/go-content-cache/content"
	"github.com/goliatone/go-content-cache/metrics"
)

// Cache namespaces. Each groups one kind of derived value under a shared TTL
// and invalidation scope.
const (
	// NamespaceContent caches raw generation results keyed by request
	// parameters. Entries are shared across users and never invalidated
	// by content mutations.
	NamespaceContent = "content"

	NamespaceStats       = "stats"
	NamespaceAnalytics   = "analytics"
	NamespacePerformance = "performance"
)

// userScopedNamespaces are cleared when a user mutates content.
var userScopedNamespaces = []string{NamespaceStats, NamespaceAnalytics, NamespacePerformance}

// DomainCache is the typed convenience layer over the cache store. It owns
// the namespace and TTL policy, performs cache-aside reads backed by the
// metrics engine, and clears user-scoped entries after mutations.
type DomainCache struct {
	store  cache.Store
	engine *metrics.Engine
	keys   cache.KeyCodec
	codec  cache.Codec
	ttl    cache.TTLPolicy
	log    *zap.Logger
}

// Option configures a DomainCache.
type Option func(*DomainCache)

// WithKeyCodec overrides the key derivation strategy.
func WithKeyCodec(keys cache.KeyCodec) Option {
	return func(dc *DomainCache) { dc.keys = keys }
}

// WithCodec overrides the payload codec.
func WithCodec(codec cache.Codec) Option {
	return func(dc *DomainCache) { dc.codec = codec }
}

// WithTTLPolicy overrides the per-namespace TTLs.
func WithTTLPolicy(ttl cache.TTLPolicy) Option {
	return func(dc *DomainCache) { dc.ttl = ttl }
}

// WithLogger sets the logger. Without it the cache stays silent.
func WithLogger(log *zap.Logger) Option {
	return func(dc *DomainCache) { dc.log = log }
}

// New creates a DomainCache over the given store and metrics engine.
func New(store cache.Store, engine *metrics.Engine, opts ...Option) *DomainCache {
	dc := &DomainCache{
		store:  store,
		engine: engine,
		keys:   cache.NewKeyCodec(),
		codec:  cache.NewMsgpackCodec(),
		ttl:    cache.DefaultConfig().TTL,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(dc)
	}
	return dc
}

// userNamespace embeds the owning user in cleartext so pattern-based
// invalidation can find every entry for that user without decoding digests.
func userNamespace(namespace, userID string) string {
	return namespace + ":u:" + userID
}

// ttlFor maps a namespace to its configured TTL.
func (dc *DomainCache) ttlFor(namespace string) time.Duration {
	switch namespace {
	case NamespaceContent:
		return dc.ttl.Generation
	case NamespaceStats:
		return dc.ttl.Stats
	case NamespaceAnalytics:
		return dc.ttl.Analytics
	case NamespacePerformance:
		return dc.ttl.Performance
	}
	return dc.ttl.Generation
}

// Key derives the cache key for a user-scoped namespace entry. Content
// namespace keys are not user-scoped; pass an empty userID for those.
// User-scoped keys always carry a digest segment after the user scope, so
// that clearing "ns:u:1:" can never touch user 12's entries.
func (dc *DomainCache) Key(namespace, userID string, params ...any) string {
	ns := namespace
	if userID != "" {
		ns = userNamespace(namespace, userID)
		if len(params) == 0 {
			params = []any{userID}
		}
	}
	return dc.keys.DeriveKey(ns, params...)
}

// lookup reads and decodes a cached payload. Any failure reads as a miss;
// undecodable entries are dropped so they cannot wedge the key.
func lookup[T any](ctx context.Context, dc *DomainCache, key string) (*T, bool) {
	data, err := dc.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	out := new(T)
	if err := dc.codec.Unmarshal(data, out); err != nil {
		dc.log.Warn("dropping undecodable cache entry",
			zap.String("key", key),
			zap.Error(err))
		_ = dc.store.Delete(ctx, key)
		return nil, false
	}
	return out, true
}

// put encodes and stores a payload. Storage failures are logged and
// swallowed; the caller already holds the computed value.
func (dc *DomainCache) put(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := dc.codec.Marshal(v)
	if err != nil {
		dc.log.Warn("cache payload encoding failed",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	if err := dc.store.Set(ctx, key, data, ttl); err != nil {
		dc.log.Warn("cache write failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// GetCached reads a typed payload cached under namespace for userID and
// params. The second return reports whether a usable entry was found.
func GetCached[T any](ctx context.Context, dc *DomainCache, namespace, userID string, params ...any) (*T, bool) {
	return lookup[T](ctx, dc, dc.Key(namespace, userID, params...))
}

// SetCached stores a typed payload under namespace for userID and params,
// using the namespace's TTL.
func SetCached(ctx context.Context, dc *DomainCache, namespace, userID string, value any, params ...any) {
	dc.put(ctx, dc.Key(namespace, userID, params...), value, dc.ttlFor(namespace))
}

// AdvancedAnalytics returns the analytics payload for the user and range,
// computing and caching it on a miss. Engine failures propagate; cache
// failures never do.
func (dc *DomainCache) AdvancedAnalytics(ctx context.Context, userID string, start, end time.Time) (*metrics.AnalyticsResult, error) {
	key := dc.Key(NamespaceAnalytics, userID, start, end)
	if cached, ok := lookup[metrics.AnalyticsResult](ctx, dc, key); ok {
		return cached, nil
	}

	result, err := dc.engine.AdvancedAnalytics(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	dc.put(ctx, key, result, dc.ttl.Analytics)
	return result, nil
}

// PerformanceScores returns the performance payload for the user, computing
// and caching it on a miss.
func (dc *DomainCache) PerformanceScores(ctx context.Context, userID string) (*metrics.PerformanceReport, error) {
	key := dc.Key(NamespacePerformance, userID)
	if cached, ok := lookup[metrics.PerformanceReport](ctx, dc, key); ok {
		return cached, nil
	}

	report, err := dc.engine.PerformanceScores(ctx, userID)
	if err != nil {
		return nil, err
	}
	dc.put(ctx, key, report, dc.ttl.Performance)
	return report, nil
}

// UserStats returns the per-user stats payload, computing and caching it on
// a miss.
func (dc *DomainCache) UserStats(ctx context.Context, userID string) (*metrics.Stats, error) {
	key := dc.Key(NamespaceStats, userID)
	if cached, ok := lookup[metrics.Stats](ctx, dc, key); ok {
		return cached, nil
	}

	stats, err := dc.engine.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	dc.put(ctx, key, stats, dc.ttl.Stats)
	return stats, nil
}

// GenerationParams identifies one generation request. Identical parameters
// are assumed to tolerate a stale shared result for the content TTL.
type GenerationParams struct {
	Topic       string
	Keyword     string
	ContentType content.ContentType
	Platform    content.Platform
}

// Generation returns the cached provider response for the parameters, if
// one exists.
func (dc *DomainCache) Generation(ctx context.Context, p GenerationParams) (*content.GenerationResult, bool) {
	return lookup[content.GenerationResult](ctx, dc, dc.generationKey(p))
}

// StoreGeneration caches a provider response under the request parameters.
func (dc *DomainCache) StoreGeneration(ctx context.Context, p GenerationParams, result *content.GenerationResult) {
	dc.put(ctx, dc.generationKey(p), result, dc.ttl.Generation)
}

func (dc *DomainCache) generationKey(p GenerationParams) string {
	return dc.keys.DeriveKey(NamespaceContent, p.Topic, p.Keyword, string(p.ContentType), string(p.Platform))
}

// InvalidateUser clears every stats, analytics, and performance entry for
// the user. Content-generation entries are keyed by request parameters, not
// by user, and survive on purpose. Call this synchronously after every
// content mutation, before responding to the mutating request.
func (dc *DomainCache) InvalidateUser(ctx context.Context, userID string) error {
	var errs []error
	for _, ns := range userScopedNamespaces {
		if err := dc.store.Clear(ctx, userNamespace(ns, userID)+":"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
