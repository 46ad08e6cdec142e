package metrics

import (
	"context"
	"fmt"

	"github.com/goliatone/go-content-cache/content"
)

// Stats is the cache payload for the stats namespace: simple per-user
// counters that dashboards poll frequently.
type Stats struct {
	TotalItems     int            `json:"total_items" msgpack:"total_items"`
	TotalReach     int            `json:"total_reach" msgpack:"total_reach"`
	AvgReach       float64        `json:"avg_reach" msgpack:"avg_reach"`
	ByType         map[string]int `json:"by_type" msgpack:"by_type"`
	ByStatus       map[string]int `json:"by_status" msgpack:"by_status"`
	ScheduledCount int            `json:"scheduled_count" msgpack:"scheduled_count"`
}

// UserStats counts the user's entire content collection by type and status.
func (e *Engine) UserStats(ctx context.Context, userID string) (*Stats, error) {
	items, err := e.source.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("metrics: query user content: %w", err)
	}

	stats := &Stats{
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}
	for _, item := range items {
		stats.TotalItems++
		stats.TotalReach += item.PotentialReach
		stats.ByType[string(item.ContentType)]++
		stats.ByStatus[string(item.Status)]++
		if item.Status == content.StatusScheduled {
			stats.ScheduledCount++
		}
	}
	if stats.TotalItems > 0 {
		stats.AvgReach = round2(float64(stats.TotalReach) / float64(stats.TotalItems))
	}
	return stats, nil
}
