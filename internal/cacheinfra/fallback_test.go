package cacheinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-cache/cache"
)

func newTestStore(t *testing.T) *FallbackStore {
	t.Helper()
	s := NewFallbackStore(cache.FallbackConfig{
		SweepInterval: time.Minute,
		MaxEntryAge:   time.Hour,
	})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFallbackStore_SetAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := s.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected 'value1', got %q", val)
	}
}

func TestFallbackStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nonexistent")
	if !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestFallbackStore_TTLExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }

	if err := s.Set(ctx, "expiring", []byte("v"), time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := s.Get(ctx, "expiring"); err != nil {
		t.Fatalf("entry should be readable before expiry: %v", err)
	}

	// Two seconds later the 1s entry must read as absent and self-evict.
	s.now = func() time.Time { return base.Add(2 * time.Second) }

	if _, err := s.Get(ctx, "expiring"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected ErrNotFound after expiry, got: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expired entry should self-evict on access, store has %d entries", s.Len())
	}
}

func TestFallbackStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("v"), time.Minute)
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}

	// Deleting an absent key is not an error.
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting absent key should not error: %v", err)
	}
}

func TestFallbackStore_ClearBySubstring(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "analytics:u:1:aaaa", []byte("a"), time.Minute)
	_ = s.Set(ctx, "analytics:u:2:bbbb", []byte("b"), time.Minute)
	_ = s.Set(ctx, "performance:u:1:cccc", []byte("c"), time.Minute)

	if err := s.Clear(ctx, ":u:1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := s.Get(ctx, "analytics:u:1:aaaa"); !errors.Is(err, cache.ErrNotFound) {
		t.Error("user 1 analytics entry should be cleared")
	}
	if _, err := s.Get(ctx, "performance:u:1:cccc"); !errors.Is(err, cache.ErrNotFound) {
		t.Error("user 1 performance entry should be cleared")
	}
	if _, err := s.Get(ctx, "analytics:u:2:bbbb"); err != nil {
		t.Errorf("user 2 entry should survive: %v", err)
	}
}

func TestFallbackStore_SweepEnforcesCeiling(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }

	// A generous per-entry TTL does not protect an entry from the ceiling.
	_ = s.Set(ctx, "long-lived", []byte("v"), 24*time.Hour)
	_ = s.Set(ctx, "fresh", []byte("v"), 24*time.Hour)

	s.now = func() time.Time { return base.Add(90 * time.Minute) }
	s.entries.Store("fresh", fallbackEntry{value: []byte("v"), insertedAt: s.now(), ttl: 24 * time.Hour})

	s.sweep()

	if _, ok := s.entries.Load("long-lived"); ok {
		t.Error("sweep should remove entries older than the ceiling")
	}
	if _, ok := s.entries.Load("fresh"); !ok {
		t.Error("sweep should keep entries younger than the ceiling")
	}
}

func TestFallbackStore_ZeroTTLUsesCeiling(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }

	_ = s.Set(ctx, "k", []byte("v"), 0)

	s.now = func() time.Time { return base.Add(30 * time.Minute) }
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Errorf("zero-TTL entry should live until the ceiling: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := s.Get(ctx, "k"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("zero-TTL entry should expire at the ceiling, got: %v", err)
	}
}

func TestFallbackStore_GetReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("abc"), time.Minute)

	val, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	val[0] = 'x'

	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("mutating a returned value must not affect the store, got %q", again)
	}
}

func TestFallbackStore_CloseIdempotent(t *testing.T) {
	s := NewFallbackStore(cache.FallbackConfig{})
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
