package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-content-cache/content"
	"github.com/goliatone/go-content-cache/contentcache"
)

// Manager pairs content mutations with cache invalidation. The database
// write completes first; the invalidation is issued before the call returns,
// so the next read by the same user recomputes its aggregates. Invalidation
// failures are logged and swallowed, keeping cache trouble invisible to the
// mutating caller.
type Manager struct {
	store ContentStore
	cache *contentcache.DomainCache
	log   *zap.Logger
}

// NewManager creates a mutation manager. A nil logger keeps it quiet.
func NewManager(store ContentStore, cache *contentcache.DomainCache, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, cache: cache, log: log}
}

// Create inserts a content item and invalidates the owner's derived caches.
func (m *Manager) Create(ctx context.Context, item *content.Item) (*content.Item, error) {
	created, err := m.store.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("store: create content: %w", err)
	}
	m.invalidate(ctx, created.UserID)
	return created, nil
}

// Update persists changes to a content item and invalidates the owner's
// derived caches.
func (m *Manager) Update(ctx context.Context, item *content.Item) (*content.Item, error) {
	updated, err := m.store.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("store: update content: %w", err)
	}
	m.invalidate(ctx, updated.UserID)
	return updated, nil
}

// Delete removes a content item and invalidates the owner's derived caches.
func (m *Manager) Delete(ctx context.Context, item *content.Item) error {
	if err := m.store.Delete(ctx, item); err != nil {
		return fmt.Errorf("store: delete content: %w", err)
	}
	m.invalidate(ctx, item.UserID)
	return nil
}

func (m *Manager) invalidate(ctx context.Context, userID string) {
	if err := m.cache.InvalidateUser(ctx, userID); err != nil {
		m.log.Warn("cache invalidation failed",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
