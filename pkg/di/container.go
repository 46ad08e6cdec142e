package di

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-content-cache/cache"
	"github.com/goliatone/go-content-cache/contentcache"
	"github.com/goliatone/go-content-cache/internal/cacheinfra"
	"github.com/goliatone/go-content-cache/metrics"
)

// Container provides dependency injection for the caching stack. It wires
// the fallback store, the remote backend, the degrading gateway, the metrics
// engine, and the domain cache, and manages their lifecycles. One container
// per process; its gateway and fallback store are the shared singletons the
// concurrency model expects.
type Container struct {
	config   cache.Config
	log      *zap.Logger
	fallback *cacheinfra.FallbackStore
	gateway  *cacheinfra.Gateway
	local    cache.CacheService
	engine   *metrics.Engine
	domain   *contentcache.DomainCache
}

// NewContainer creates a container over the given content source. With an
// empty Redis address the gateway starts permanently degraded and every
// cache operation lands in the fallback store. A nil logger keeps the stack
// quiet.
func NewContainer(config cache.Config, source metrics.ContentSource, log *zap.Logger) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	fallback := cacheinfra.NewFallbackStore(config.Fallback)

	var remote cacheinfra.RemoteBackend
	if config.Redis.Addr != "" {
		remote = cacheinfra.NewRedisBackend(config.Redis)
	}
	gateway := cacheinfra.NewGateway(config.Gateway, remote, fallback, log)

	local, err := cacheinfra.NewLocalService(config.Local)
	if err != nil {
		_ = fallback.Close()
		return nil, err
	}

	engine := metrics.NewEngine(source)
	domain := contentcache.New(gateway, engine,
		contentcache.WithTTLPolicy(config.TTL),
		contentcache.WithLogger(log),
	)

	return &Container{
		config:   config,
		log:      log,
		fallback: fallback,
		gateway:  gateway,
		local:    local,
		engine:   engine,
		domain:   domain,
	}, nil
}

// NewContainerWithDefaults creates a container using default configuration.
// The default Redis address is empty, so the result runs fully in-process.
func NewContainerWithDefaults(source metrics.ContentSource) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), source, nil)
}

// Connect attempts the initial connection to the networked backend and
// returns the resulting state. Safe to skip; the gateway also connects
// lazily on first use.
func (c *Container) Connect(ctx context.Context) cacheinfra.ConnectionState {
	return c.gateway.Connect(ctx)
}

// Close disconnects the networked backend and stops the fallback store's
// sweep loop.
func (c *Container) Close() error {
	c.gateway.Disconnect()
	return c.fallback.Close()
}

// DomainCache returns the typed caching layer.
func (c *Container) DomainCache() *contentcache.DomainCache {
	return c.domain
}

// Engine returns the metrics engine for callers that need uncached
// computations.
func (c *Container) Engine() *metrics.Engine {
	return c.engine
}

// Store returns the degrading cache store for advanced use cases.
func (c *Container) Store() cache.Store {
	return c.gateway
}

// LocalService returns the in-process read-through service used to coalesce
// generation-provider calls.
func (c *Container) LocalService() cache.CacheService {
	return c.local
}

// State reports the gateway's connection state.
func (c *Container) State() cacheinfra.ConnectionState {
	return c.gateway.State()
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}
