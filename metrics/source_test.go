package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/goliatone/go-content-cache/content"
)

// memSource is an in-memory ContentSource with real user and date filtering.
type memSource struct {
	items []*content.Item
	err   error
}

func (m *memSource) ListByOwner(_ context.Context, userID string) ([]*content.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*content.Item
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memSource) ListByOwnerBetween(_ context.Context, userID string, start, end time.Time) ([]*content.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
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

func (m *memSource) ListRecentByOwner(_ context.Context, userID string, limit int) ([]*content.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
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
