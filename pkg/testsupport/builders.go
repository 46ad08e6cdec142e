package testsupport

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-cache/content"
	"github.com/goliatone/go-content-cache/metrics"
)

// ItemOption mutates a content item under construction.
type ItemOption func(*content.Item)

// WithType sets the content type.
func WithType(ct content.ContentType) ItemOption {
	return func(i *content.Item) { i.ContentType = ct }
}

// WithPlatform sets the platform target.
func WithPlatform(p content.Platform) ItemOption {
	return func(i *content.Item) { i.Platform = p }
}

// WithStatus sets the lifecycle status.
func WithStatus(s content.Status) ItemOption {
	return func(i *content.Item) { i.Status = s }
}

// WithText sets the text along with its word and character counts.
func WithText(text string, words, chars int) ItemOption {
	return func(i *content.Item) {
		i.Text = text
		i.WordCount = words
		i.CharacterCount = chars
	}
}

// WithReach sets the stored potential-reach metric.
func WithReach(reach int) ItemOption {
	return func(i *content.Item) { i.PotentialReach = reach }
}

// WithCreatedAt sets the creation timestamp.
func WithCreatedAt(ts time.Time) ItemOption {
	return func(i *content.Item) { i.CreatedAt = ts }
}

// WithTopic sets topic and keyword.
func WithTopic(topic, keyword string) ItemOption {
	return func(i *content.Item) {
		i.Topic = topic
		i.Keyword = keyword
	}
}

// NewItem builds a content item with sensible defaults: a fresh ID, social
// caption type, draft status, and a fixed creation time so tests stay
// deterministic unless they opt into WithCreatedAt.
func NewItem(userID string, opts ...ItemOption) *content.Item {
	item := &content.Item{
		ID:             uuid.New(),
		UserID:         userID,
		Topic:          "sample topic",
		Text:           "sample text",
		ContentType:    content.TypeSocialCaption,
		Status:         content.StatusDraft,
		WordCount:      2,
		CharacterCount: 11,
		PotentialReach: 100,
		CreatedAt:      time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// MemorySource is an in-memory metrics.ContentSource with the same
// filtering and ordering semantics a real store provides.
type MemorySource struct {
	mu    sync.Mutex
	items []*content.Item
}

var _ metrics.ContentSource = (*MemorySource)(nil)

// NewMemorySource creates a source seeded with the given items.
func NewMemorySource(items ...*content.Item) *MemorySource {
	return &MemorySource{items: items}
}

// Add appends items to the source.
func (m *MemorySource) Add(items ...*content.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, items...)
}

// ListByOwner returns every item owned by userID.
func (m *MemorySource) ListByOwner(_ context.Context, userID string) ([]*content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*content.Item
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

// ListByOwnerBetween returns the owner's items created in [start, end),
// oldest first.
func (m *MemorySource) ListByOwnerBetween(_ context.Context, userID string, start, end time.Time) ([]*content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*content.Item
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		if item.CreatedAt.Before(start) || !item.CreatedAt.Before(end) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListRecentByOwner returns up to limit of the owner's items, newest first.
func (m *MemorySource) ListRecentByOwner(_ context.Context, userID string, limit int) ([]*content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*content.Item
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
