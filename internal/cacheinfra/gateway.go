package cacheinfra

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-content-cache/cache"
)

// ConnectionState tracks the gateway's relationship with the networked
// backend. It is owned exclusively by the gateway.
type ConnectionState int32

const (
	// StateDisconnected means the backend is configured but not reachable;
	// a later operation may attempt to reconnect.
	StateDisconnected ConnectionState = iota

	// StateConnecting means a connection attempt is in flight.
	StateConnecting

	// StateConnected means operations route to the networked backend.
	StateConnected

	// StateFailedPermanent means the retry budget is spent and the backend
	// is abandoned for the process lifetime.
	StateFailedPermanent
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailedPermanent:
		return "failed_permanent"
	default:
		return "unknown"
	}
}

// Gateway is the single point of access to caching. It unifies the networked
// backend and the in-process fallback store behind the cache.Store interface
// and guarantees that no backend failure ever escapes a cache operation:
// reads degrade to a miss, writes to a no-op. Correctness of the application
// must never depend on cache availability.
type Gateway struct {
	cfg      cache.GatewayConfig
	remote   RemoteBackend // nil when no networked backend is configured
	fallback *FallbackStore
	log      *zap.Logger

	mu      sync.Mutex
	state   ConnectionState
	retries int
}

var _ cache.Store = (*Gateway)(nil)

// NewGateway creates a gateway over the given backends. remote may be nil,
// in which case the fallback store serves everything from the start. A nil
// logger keeps the gateway silent.
func NewGateway(cfg cache.GatewayConfig, remote RemoteBackend, fallback *FallbackStore, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Hour
	}

	state := StateDisconnected
	if remote == nil {
		// Nothing to connect to; latch onto the fallback path immediately.
		state = StateFailedPermanent
		log.Info("no networked cache backend configured, serving from in-process store")
	}

	return &Gateway{
		cfg:      cfg,
		remote:   remote,
		fallback: fallback,
		log:      log,
		state:    state,
	}
}

// Connect attempts to reach the networked backend within the configured
// timeout. Failure is not an error to the caller: the gateway logs, counts
// the attempt against the retry budget, and serves from the fallback store.
// The resulting state is returned for observability.
func (g *Gateway) Connect(ctx context.Context) ConnectionState {
	g.mu.Lock()
	if g.state == StateFailedPermanent || g.state == StateConnected || g.state == StateConnecting {
		state := g.state
		g.mu.Unlock()
		return state
	}
	g.state = StateConnecting
	g.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, g.cfg.ConnectTimeout)
	err := g.remote.Ping(pingCtx)
	cancel()

	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		g.log.Warn("cache backend unreachable, using in-process fallback",
			zap.Error(err),
			zap.Int("attempt", g.retries+1))
		g.recordFailureLocked()
		return g.state
	}

	g.state = StateConnected
	g.retries = 0
	g.log.Info("cache backend connected")
	return g.state
}

// State reports the current connection state.
func (g *Gateway) State() ConnectionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Get returns the cached value or cache.ErrNotFound. Backend errors are
// logged and reported as a miss.
func (g *Gateway) Get(ctx context.Context, key string) ([]byte, error) {
	if g.useRemote(ctx) {
		data, err := g.remote.Get(ctx, key)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, cache.ErrNotFound) {
			return nil, cache.ErrNotFound
		}
		g.degrade("get", err)
		return nil, cache.ErrNotFound
	}

	return g.fallback.Get(ctx, key)
}

// Set stores value under key. A non-positive TTL uses the gateway default.
// Backend errors are logged and swallowed; a failed cache write must never
// fail the request that triggered it.
func (g *Gateway) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = g.cfg.DefaultTTL
	}

	if g.useRemote(ctx) {
		if err := g.remote.Set(ctx, key, value, ttl); err != nil {
			g.degrade("set", err)
		}
		return nil
	}

	return g.fallback.Set(ctx, key, value, ttl)
}

// Delete removes a key from both stores. The fallback is always cleaned so
// entries written during a disconnected window cannot resurface stale after
// a reconnect.
func (g *Gateway) Delete(ctx context.Context, key string) error {
	if err := g.fallback.Delete(ctx, key); err != nil {
		return err
	}

	if g.useRemote(ctx) {
		if err := g.remote.Delete(ctx, key); err != nil {
			g.degrade("delete", err)
		}
	}
	return nil
}

// Clear removes every entry whose key contains pattern, from both stores.
func (g *Gateway) Clear(ctx context.Context, pattern string) error {
	if err := g.fallback.Clear(ctx, pattern); err != nil {
		return err
	}

	if g.useRemote(ctx) {
		if err := g.remote.DeleteMatching(ctx, pattern); err != nil {
			g.degrade("clear", err)
		}
	}
	return nil
}

// Disconnect closes the networked connection best-effort and stops the
// fallback sweep. Errors are swallowed.
func (g *Gateway) Disconnect() {
	if g.remote != nil {
		if err := g.remote.Close(); err != nil {
			g.log.Debug("error closing cache backend", zap.Error(err))
		}
	}

	g.mu.Lock()
	if g.state != StateFailedPermanent {
		g.state = StateDisconnected
	}
	g.mu.Unlock()

	_ = g.fallback.Close()
}

// useRemote reports whether the networked backend should serve the next
// operation, attempting a bounded reconnect when the state allows one.
func (g *Gateway) useRemote(ctx context.Context) bool {
	g.mu.Lock()
	state := g.state
	g.mu.Unlock()

	switch state {
	case StateConnected:
		return true
	case StateDisconnected:
		return g.Connect(ctx) == StateConnected
	default:
		return false
	}
}

// degrade logs a transient backend error and counts it against the retry
// budget.
func (g *Gateway) degrade(op string, err error) {
	g.log.Warn("cache backend error, degrading",
		zap.String("op", op),
		zap.Error(err))

	g.mu.Lock()
	g.recordFailureLocked()
	g.mu.Unlock()
}

// recordFailureLocked increments the retry counter and latches onto the
// fallback path once the budget is spent. Callers must hold g.mu.
func (g *Gateway) recordFailureLocked() {
	g.retries++
	if g.retries >= g.cfg.MaxRetries {
		g.state = StateFailedPermanent
		// Logged once: after the latch no further attempts are made, so
		// this branch cannot run again.
		g.log.Error("cache backend abandoned after repeated failures, in-process fallback for process lifetime",
			zap.Int("retries", g.retries))
		return
	}
	g.state = StateDisconnected
}
