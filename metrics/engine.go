// Package metrics computes derived engagement and analytics values from
// stored content. Everything here is deterministic: per-item scoring is a
// pure function, and the aggregate computations depend only on the rows the
// content source returns. The caching layer treats these results as
// recomputable-at-will payloads.
package metrics

import (
	"context"
	"time"

	"github.com/goliatone/go-content-cache/content"
)

// ContentSource is the read-only view of the content store the engine
// needs. Query failures propagate to the caller unchanged; unlike cache
// failures there is no substitute value to degrade to.
type ContentSource interface {
	// ListByOwner returns all content rows for a user.
	ListByOwner(ctx context.Context, userID string) ([]*content.Item, error)

	// ListByOwnerBetween returns the rows with CreatedAt in [start, end),
	// ordered ascending by creation time.
	ListByOwnerBetween(ctx context.Context, userID string, start, end time.Time) ([]*content.Item, error)

	// ListRecentByOwner returns up to limit rows ordered descending by
	// creation time.
	ListRecentByOwner(ctx context.Context, userID string, limit int) ([]*content.Item, error)
}

// Engine computes aggregate analytics over a content source.
type Engine struct {
	source ContentSource
}

// NewEngine creates a metrics engine reading from the given source.
func NewEngine(source ContentSource) *Engine {
	return &Engine{source: source}
}
