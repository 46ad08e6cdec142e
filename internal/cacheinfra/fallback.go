package cacheinfra

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-content-cache/cache"
)

// fallbackEntry pairs a stored payload with its insertion time and TTL.
type fallbackEntry struct {
	value      []byte
	insertedAt time.Time
	ttl        time.Duration
}

// FallbackStore is the in-process substitute cache used when the networked
// backend is unavailable. Entries expire lazily on read, and a background
// sweep removes anything older than a fixed ceiling regardless of per-entry
// TTL, bounding memory growth from entries written but never read again.
// The store holds nothing across process restarts.
type FallbackStore struct {
	cfg     cache.FallbackConfig
	entries *xsync.MapOf[string, fallbackEntry]

	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

var _ cache.Store = (*FallbackStore)(nil)

// NewFallbackStore creates a fallback store and starts its sweep loop.
// Callers should Close the store when done to release the sweep goroutine.
func NewFallbackStore(cfg cache.FallbackConfig) *FallbackStore {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if cfg.MaxEntryAge <= 0 {
		cfg.MaxEntryAge = time.Hour
	}

	s := &FallbackStore{
		cfg:     cfg,
		entries: xsync.NewMapOf[string, fallbackEntry](),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Get returns the stored value, or cache.ErrNotFound when the key is absent
// or its entry has outlived its TTL. Expired entries self-evict on access.
func (s *FallbackStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := s.entries.Load(key)
	if !ok {
		return nil, cache.ErrNotFound
	}

	if s.now().Sub(entry.insertedAt) >= entry.ttl {
		s.entries.Delete(key)
		return nil, cache.ErrNotFound
	}

	cp := make([]byte, len(entry.value))
	copy(cp, entry.value)
	return cp, nil
}

// Set stores value under key. A non-positive TTL falls back to the sweep
// ceiling, which is the longest any entry survives anyway.
func (s *FallbackStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.cfg.MaxEntryAge
	}

	cp := make([]byte, len(value))
	copy(cp, value)

	s.entries.Store(key, fallbackEntry{
		value:      cp,
		insertedAt: s.now(),
		ttl:        ttl,
	})
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *FallbackStore) Delete(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Clear removes every entry whose key contains pattern as a substring. This
// is an enumerate-and-filter over known keys; glob semantics beyond
// substring matching are deliberately not promised.
func (s *FallbackStore) Clear(_ context.Context, pattern string) error {
	var matched []string
	s.entries.Range(func(key string, _ fallbackEntry) bool {
		if strings.Contains(key, pattern) {
			matched = append(matched, key)
		}
		return true
	})

	for _, key := range matched {
		s.entries.Delete(key)
	}
	return nil
}

// Len reports the number of live entries, expired or not. Used by tests and
// the gateway's debug logging.
func (s *FallbackStore) Len() int {
	return s.entries.Size()
}

// Close stops the background sweep. The store remains usable afterwards;
// only lazy expiry applies.
func (s *FallbackStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *FallbackStore) sweepLoop() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes entries older than the configured ceiling.
func (s *FallbackStore) sweep() {
	cutoff := s.now().Add(-s.cfg.MaxEntryAge)

	var stale []string
	s.entries.Range(func(key string, entry fallbackEntry) bool {
		if entry.insertedAt.Before(cutoff) {
			stale = append(stale, key)
		}
		return true
	})

	for _, key := range stale {
		s.entries.Delete(key)
	}
}
