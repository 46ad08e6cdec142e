// Package store adapts a bun-backed content repository to the read interface
// the metrics engine needs, and pairs content mutations with cache
// invalidation so aggregates never serve stale data past the TTL window.
package store

import (
	"context"
	"fmt"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-cache/content"
	"github.com/goliatone/go-content-cache/metrics"
)

// ContentStore is the slice of repository.Repository[*content.Item] this
// package touches. Narrowing the dependency keeps tests to a four-method
// fake instead of the full repository surface.
type ContentStore interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*content.Item, int, error)
	Create(ctx context.Context, record *content.Item, criteria ...repository.InsertCriteria) (*content.Item, error)
	Update(ctx context.Context, record *content.Item, criteria ...repository.UpdateCriteria) (*content.Item, error)
	Delete(ctx context.Context, record *content.Item) error
}

// RepositorySource implements metrics.ContentSource over a ContentStore.
type RepositorySource struct {
	store ContentStore
}

var _ metrics.ContentSource = (*RepositorySource)(nil)

// NewRepositorySource wraps a content repository as a metrics source.
func NewRepositorySource(store ContentStore) *RepositorySource {
	return &RepositorySource{store: store}
}

// ListByOwner returns every content row for the user.
func (s *RepositorySource) ListByOwner(ctx context.Context, userID string) ([]*content.Item, error) {
	items, _, err := s.store.List(ctx, ownedBy(userID), orderCreatedDesc())
	if err != nil {
		return nil, fmt.Errorf("store: list content: %w", err)
	}
	return items, nil
}

// ListByOwnerBetween returns the user's rows created in [start, end),
// oldest first.
func (s *RepositorySource) ListByOwnerBetween(ctx context.Context, userID string, start, end time.Time) ([]*content.Item, error) {
	items, _, err := s.store.List(ctx, ownedBy(userID), createdBetween(start, end), orderCreatedAsc())
	if err != nil {
		return nil, fmt.Errorf("store: list content range: %w", err)
	}
	return items, nil
}

// ListRecentByOwner returns up to limit rows, newest first.
func (s *RepositorySource) ListRecentByOwner(ctx context.Context, userID string, limit int) ([]*content.Item, error) {
	items, _, err := s.store.List(ctx, ownedBy(userID), orderCreatedDesc(), limitTo(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list recent content: %w", err)
	}
	return items, nil
}

func ownedBy(userID string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	}
}

func createdBetween(start, end time.Time) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("created_at >= ?", start).Where("created_at < ?", end)
	}
}

func orderCreatedAsc() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("created_at ASC")
	}
}

func orderCreatedDesc() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("created_at DESC")
	}
}

func limitTo(n int) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(n)
	}
}
